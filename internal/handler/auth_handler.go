package handler

import (
	"net/http"

	"storefront/internal/service"
	"storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes the token/session endpoints. Everything under /auth is
// public by design; the authorization engine never gates it.
type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/validate-token", h.ValidateToken)
		auth.POST("/request-password-reset", h.RequestPasswordReset)
		auth.POST("/reset-password", h.ResetPassword)
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request payload: "+err.Error()))
		return
	}

	res := h.authService.Login(c.Request.Context(), req)
	c.JSON(res.Status, res)
}

func (h *AuthHandler) ValidateToken(c *gin.Context) {
	var req service.ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request payload: "+err.Error()))
		return
	}

	res := h.authService.ValidateToken(c.Request.Context(), req.Token)
	c.JSON(res.Status, res)
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req service.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request payload: "+err.Error()))
		return
	}

	res := h.authService.RequestPasswordReset(c.Request.Context(), req.Email)
	c.JSON(res.Status, res)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req service.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request payload: "+err.Error()))
		return
	}

	res := h.authService.ResetPassword(c.Request.Context(), req)
	c.JSON(res.Status, res)
}
