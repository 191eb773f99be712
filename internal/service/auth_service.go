package service

import (
	"context"
	"errors"
	"log"
	"net/http"

	"storefront/internal/mailer"
	"storefront/internal/repository"
	"storefront/pkg/response"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcryptCost is used for password and reset-flow hashes.
const bcryptCost = 12

// DTOs for request validation
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ValidateTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Token    string `json:"token" binding:"required"`
}

// AuthService drives the session-token lifecycle: login, validation and the
// password-reset flow. Expected negative outcomes come back inside the
// response envelope, never as errors.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) response.Result
	ValidateToken(ctx context.Context, token string) response.Result
	RequestPasswordReset(ctx context.Context, email string) response.Result
	ResetPassword(ctx context.Context, req ResetPasswordRequest) response.Result
}

type authService struct {
	users  repository.UserRepository
	signer Signer
	mail   mailer.Mailer
}

func NewAuthService(users repository.UserRepository, signer Signer, mail mailer.Mailer) AuthService {
	return &authService{users: users, signer: signer, mail: mail}
}

// Login verifies credentials and signs a claims payload holding the public
// profile fields. Nothing is persisted at login time.
func (s *authService) Login(ctx context.Context, req LoginRequest) response.Result {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound("Email does not exist")
	}
	if err != nil {
		return response.Error(err.Error())
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return response.Forbidden("Invalid password")
	}

	token, err := s.signer.Sign(jwt.MapClaims{
		"userId":   user.ID.String(),
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
	if err != nil {
		return response.Error(err.Error())
	}

	return response.Valid("Token has been generated", token)
}

// ValidateToken checks signature and expiry, then requires the presented
// token to match the one currently stored on the user record. A superseded
// token is rejected even while its signature is still valid.
func (s *authService) ValidateToken(ctx context.Context, token string) response.Result {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return response.Invalid("Token is invalid: "+err.Error(), token)
	}

	exp, _ := claims["exp"].(float64)
	iat, _ := claims["iat"].(float64)
	if exp-iat < 0 {
		return response.Invalid("Token has expired!", token)
	}

	userID, _ := claims["userId"].(string)
	stored, err := s.users.TokenByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.Invalid("Invalid token", token)
	}
	if err != nil {
		return response.Error(err.Error())
	}
	if stored != token {
		return response.Invalid("Invalid token", token)
	}

	return response.Valid("Token is valid", claims)
}

// RequestPasswordReset looks the user up by email only, mints a reset token,
// persists it on the user record superseding any prior one, and dispatches it
// through the mail collaborator.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) response.Result {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound("Email does not exist")
	}
	if err != nil {
		return response.Error(err.Error())
	}

	// jti keeps two resets minted within the same second distinct, so the
	// stored-token comparison always supersedes the earlier one.
	token, err := s.signer.Sign(jwt.MapClaims{
		"userId": user.ID.String(),
		"email":  user.Email,
		"jti":    uuid.NewString(),
	})
	if err != nil {
		return response.Error(err.Error())
	}

	if err := s.users.UpdateToken(ctx, user.ID.String(), token); err != nil {
		return response.Error("Couldn't update the token")
	}

	if err := s.mail.Send(ctx, mailer.PasswordResetMessage(user.Email, token)); err != nil {
		log.Printf("password reset mail to %s failed: %v", user.Email, err)
		return response.Error(err.Error())
	}

	return response.FoundOne("Password reset email has been sent", nil)
}

// ResetPassword validates the presented token and persists the new password
// hash, clearing the stored token so it is single-use.
func (s *authService) ResetPassword(ctx context.Context, req ResetPasswordRequest) response.Result {
	validation := s.ValidateToken(ctx, req.Token)
	if validation.Status != http.StatusOK {
		return validation
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound("Email does not exist")
	}
	if err != nil {
		return response.Error(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return response.Error("failed to hash password")
	}

	if err := s.users.UpdatePassword(ctx, user.ID.String(), string(hashed)); err != nil {
		return response.Error(err.Error())
	}

	return response.Created("Password has been updated successfully", nil)
}
