package model

import (
	"time"

	"github.com/google/uuid"
)

// Action is the operation category a permission grants, derived from the HTTP
// verb and path shape of a request.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionGetOne Action = "GET_ONE"
	ActionGetAll Action = "GET_ALL"
)

// Resource names a guarded top-level table. Values match the first segment of
// the request path.
type Resource string

const (
	ResourceUsers       Resource = "users"
	ResourceRoles       Resource = "roles"
	ResourcePermissions Resource = "permissions"
	ResourceProducts    Resource = "products"
	ResourceCategories  Resource = "categories"
	ResourceAuth        Resource = "auth"
)

// Role represents a named grant holder. A role name may be attached to many
// users; its permissions form the role's row set in the permission matrix.
type Role struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(25);uniqueIndex;not null" json:"name"`
	Permissions []Permission `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"permissions"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// Permission is one durable (role, action, resource) grant. It belongs to
// exactly one role.
type Permission struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Action      Action    `gorm:"type:varchar(20);not null;index" json:"action"`
	Table       Resource  `gorm:"column:resource;type:varchar(50);not null;index" json:"table"`
	Description string    `gorm:"type:varchar(25)" json:"description"`
	RoleID      uuid.UUID `gorm:"type:uuid;not null;index" json:"role_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
