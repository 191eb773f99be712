package service

import (
	"context"
	"regexp"

	"storefront/internal/crud"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/pkg/response"

	"golang.org/x/crypto/bcrypt"
)

// Actor identifies the authenticated caller as extracted from a verified
// token. A nil Actor means an anonymous request.
type Actor struct {
	UserID string
	Role   string
}

// DTOs for request validation
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=25,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=25"`
	Role     string `json:"role"`
	// Secret authorizes bootstrapping an admin account without an existing
	// admin session.
	Secret string `json:"secret"`
}

// UserService wraps the generic CRUD engine with the user-specific guards:
// admin bootstrap, role-change and password-change restrictions, and
// self-only deletion.
type UserService interface {
	GetUsers(ctx context.Context, q repository.ListQuery) response.Result
	GetUserByID(ctx context.Context, id string) response.Result
	CreateUser(ctx context.Context, req CreateUserRequest, actor *Actor) response.Result
	UpdateUser(ctx context.Context, id string, patch map[string]any, actor *Actor) response.Result
	DeleteUser(ctx context.Context, id string, wipe bool, actor *Actor) response.Result
}

type userService struct {
	repo            repository.UserRepository
	engine          *crud.Engine
	hashedAppSecret string
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, engine *crud.Engine, hashedAppSecret string) UserService {
	return &userService{repo: repo, engine: engine, hashedAppSecret: hashedAppSecret}
}

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`)

func (s *userService) GetUsers(ctx context.Context, q repository.ListQuery) response.Result {
	return s.engine.List(ctx, model.ResourceUsers, q)
}

func (s *userService) GetUserByID(ctx context.Context, id string) response.Result {
	return s.engine.GetByID(ctx, model.ResourceUsers, id)
}

// secretMatches compares a presented bootstrap secret against the configured
// hash.
func (s *userService) secretMatches(secret string) bool {
	if secret == "" || s.hashedAppSecret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s.hashedAppSecret), []byte(secret)) == nil
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest, actor *Actor) response.Result {
	if req.Role == "" {
		req.Role = model.RoleCustomer
	}
	if !model.ValidRole(req.Role) {
		return response.BadRequest("invalid role: must be admin, editor, or customer")
	}
	if !emailRegex.MatchString(req.Email) {
		return response.BadRequest("invalid email format")
	}

	// Creating an admin account needs an admin session or the app secret.
	if req.Role == model.RoleAdmin && (actor == nil || actor.Role != model.RoleAdmin) && !s.secretMatches(req.Secret) {
		return response.Forbidden("Unauthorized! To create an admin account, you must provide the secret or sign in with another admin account")
	}

	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return response.BadRequest("username already exists")
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return response.BadRequest("email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return response.Error("failed to hash password")
	}

	return s.engine.Create(ctx, model.ResourceUsers, map[string]any{
		"username": req.Username,
		"email":    req.Email,
		"password": string(hashed),
		"role":     req.Role,
	})
}

// UpdateUser applies the patch through the engine. Non-admins cannot change
// roles, cannot change passwords through this endpoint, and cannot touch other
// users' records.
func (s *userService) UpdateUser(ctx context.Context, id string, patch map[string]any, actor *Actor) response.Result {
	if actor != nil && actor.Role != model.RoleAdmin {
		if _, ok := patch["role"]; ok {
			return response.Forbidden("Unauthorized entrance, you must be an admin to update your role")
		}
		if _, ok := patch["password"]; ok {
			return response.Forbidden("Unauthorized entrance, non-admins are not allowed to change your password from this endpoint")
		}
		if actor.UserID != id {
			return response.Forbidden("Unauthorized entrance, non-admins are only allowed to update their accounts")
		}
	}
	if role, ok := patch["role"].(string); ok && !model.ValidRole(role) {
		return response.BadRequest("invalid role: must be admin, editor, or customer")
	}

	return s.engine.Update(ctx, model.ResourceUsers, id, patch)
}

// DeleteUser lets admins delete anyone; everyone else only their own account.
// The wipe gate itself lives inside the engine.
func (s *userService) DeleteUser(ctx context.Context, id string, wipe bool, actor *Actor) response.Result {
	role := ""
	if actor != nil {
		role = actor.Role
	}
	if role != model.RoleAdmin && (actor == nil || actor.UserID != id) {
		return response.Forbidden("Unauthorized, you're only allowed to delete your account! Sign in first")
	}
	return s.engine.Delete(ctx, model.ResourceUsers, id, wipe, role)
}
