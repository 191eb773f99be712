package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. RoleAdmin is the elevated sentinel that bypasses the permission
// matrix; the remaining values are regular roles subject to permission lookups.
const (
	RoleAdmin    = "admin"
	RoleEditor   = "editor"
	RoleCustomer = "customer"
)

// ValidRole reports whether role is one of the fixed role enumeration values.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor || role == RoleCustomer
}

// User represents the central user entity for logic and database structure
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"type:varchar(25);uniqueIndex;not null" json:"username"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string    `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	Role     string    `gorm:"type:varchar(50);not null;default:customer" json:"role"`
	// Token holds the last issued password-reset token so an older token can be
	// rejected by comparison even while its signature is still valid.
	Token     string         `gorm:"type:text;default:''" json:"-"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}
