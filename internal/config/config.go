package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AdminRole is the elevated role sentinel. A caller carrying this role bypasses
// the permission matrix entirely.
const AdminRole = "admin"

// Config holds process-wide settings resolved once at startup. It is immutable
// after Load and shared by reference across the authorization engine, services
// and middleware.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret []byte
	TokenTTL  time.Duration

	// HashedAppSecret is the bcrypt hash of the bootstrap secret that allows
	// creating an admin account without an existing admin session.
	HashedAppSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	CORSOrigins []string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the environment into a Config. Call once from main after godotenv
// has loaded the .env file.
func Load() *Config {
	smtpPort, _ := strconv.Atoi(getenv("SMTP_PORT", "587"))

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}

	return &Config{
		Port: getenv("PORT", "8080"),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", "postgres"),
		DBName:     getenv("DB_NAME", "postgres"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),

		JWTSecret: []byte(secret),
		TokenTTL:  24 * time.Hour,

		HashedAppSecret: os.Getenv("HASHED_APP_SECRET"),

		SMTPHost:     getenv("SMTP_HOST", "localhost"),
		SMTPPort:     smtpPort,
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getenv("MAIL_FROM", "no-reply@storefront.local"),

		CORSOrigins: strings.Split(getenv("CORS_ORIGINS", "http://localhost:5173"), ","),
	}
}

// DSN assembles the postgres connection string.
func (c *Config) DSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}
