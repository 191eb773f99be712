package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleRepository backs the authorization engine: role-name resolution and the
// permission-matrix existence query.
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Role, error)
	// FindAllByName returns every role row carrying the given name. An empty
	// result is a normal outcome, not an error.
	FindAllByName(ctx context.Context, name string) ([]model.Role, error)
	ListAll(ctx context.Context) ([]model.Role, error)
	// HasGrant reports whether at least one permission matches the given roles,
	// action and resource.
	HasGrant(ctx context.Context, roleIDs []uuid.UUID, action model.Action, resource model.Resource) (bool, error)
	FindOrCreatePermission(ctx context.Context, perm *model.Permission) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return GetDB(ctx, r.db).Create(role).Error
}

func (r *roleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).Preload("Permissions").First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindAllByName(ctx context.Context, name string) ([]model.Role, error) {
	var roles []model.Role
	if err := GetDB(ctx, r.db).Where("name = ?", name).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) ListAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := GetDB(ctx, r.db).Preload("Permissions").Order("name asc").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) HasGrant(ctx context.Context, roleIDs []uuid.UUID, action model.Action, resource model.Resource) (bool, error) {
	if len(roleIDs) == 0 {
		return false, nil
	}

	var count int64
	err := GetDB(ctx, r.db).Model(&model.Permission{}).
		Where("role_id IN ?", roleIDs).
		Where("action = ?", action).
		Where("resource = ?", resource).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *roleRepository) FindOrCreatePermission(ctx context.Context, perm *model.Permission) error {
	return GetDB(ctx, r.db).
		Where("role_id = ? AND action = ? AND resource = ?", perm.RoleID, perm.Action, perm.Table).
		FirstOrCreate(perm).Error
}
