package main

import (
	"context"
	"log"

	"storefront/internal/authz"
	"storefront/internal/config"
	"storefront/internal/crud"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/mailer"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/websocket"
	"storefront/pkg/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := config.Load()

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Engine -> Service -> Handler)
	store := repository.NewStore(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	txManager := repository.NewTransactionManager(db)

	registry := crud.NewRegistry()
	engine := crud.NewEngine(store, registry, config.AdminRole, wsHub)
	guard := authz.NewEngine(roleRepo, config.AdminRole)

	signer := service.NewSigner(cfg.JWTSecret, cfg.TokenTTL)
	mail := mailer.NewSMTP(cfg)

	authService := service.NewAuthService(userRepo, signer, mail)
	userService := service.NewUserService(userRepo, engine, cfg.HashedAppSecret)
	roleService := service.NewRoleService(roleRepo, txManager)

	if err := roleService.SeedDefaultRolesAndPermissions(context.Background()); err != nil {
		log.Fatalf("Seeding roles and permissions failed: %v", err)
	}

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	resourceHandlers := []*handler.ResourceHandler{
		handler.NewResourceHandler(engine, handler.ResourceConfig{
			Kind:         model.ResourceProducts,
			BasePath:     "/products",
			FilterFields: []string{"name", "user_id", "category_id"},
		}),
		handler.NewResourceHandler(engine, handler.ResourceConfig{
			Kind:         model.ResourceCategories,
			BasePath:     "/categories",
			FilterFields: []string{"name"},
		}),
		handler.NewResourceHandler(engine, handler.ResourceConfig{
			Kind:         model.ResourceRoles,
			BasePath:     "/roles",
			FilterFields: []string{"name"},
			CreateGuard: func(c *gin.Context, _ map[string]any) *response.Result {
				return roleService.GuardCreate(middleware.ActorFrom(c))
			},
		}),
		handler.NewResourceHandler(engine, handler.ResourceConfig{
			Kind:         model.ResourcePermissions,
			BasePath:     "/permissions",
			FilterFields: []string{"action", "resource", "role_id"},
		}),
	}

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, cfg.JWTSecret)
	})

	// Every API route authenticates when a token is present; the guard then
	// decides per-request through the permission matrix.
	api := router.Group("", middleware.Authenticate(cfg.JWTSecret), middleware.Guard(guard))

	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	for _, h := range resourceHandlers {
		h.RegisterRoutes(api)
	}

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
