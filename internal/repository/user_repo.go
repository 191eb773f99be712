package repository

import (
	"context"

	"storefront/internal/model"

	"gorm.io/gorm"
)

// UserRepository defines the data access the token/session service and the
// user service need beyond the generic Store.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// UpdateToken stores the latest issued reset token, superseding any prior one.
	UpdateToken(ctx context.Context, id string, token string) error
	// UpdatePassword persists a new password hash and clears the stored token.
	UpdatePassword(ctx context.Context, id string, hashedPassword string) error
	TokenByID(ctx context.Context, id string) (string, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateToken(ctx context.Context, id string, token string) error {
	return GetDB(ctx, r.db).Model(&model.User{}).
		Where("id = ?", id).
		Update("token", token).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id string, hashedPassword string) error {
	return GetDB(ctx, r.db).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"password": hashedPassword, "token": ""}).Error
}

func (r *userRepository) TokenByID(ctx context.Context, id string) (string, error) {
	var user model.User
	if err := GetDB(ctx, r.db).Select("token").First(&user, "id = ?", id).Error; err != nil {
		return "", err
	}
	return user.Token, nil
}
