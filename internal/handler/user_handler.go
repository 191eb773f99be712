package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/service"
	"storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

var userFilterFields = []string{"username", "email", "role"}

// UserHandler serves the /users routes. Unlike the fully generic resources it
// goes through UserService so the role, password and ownership guards apply.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler sets up the routing dependencies for User endpoints
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUserByID)
		users.POST("", h.CreateUser)
		users.PATCH("/:id", h.UpdateUser)
		users.DELETE("", h.DeleteUser)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	res := h.userService.GetUsers(c.Request.Context(), listQuery(c, userFilterFields))
	c.JSON(res.Status, res)
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	res := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	c.JSON(res.Status, res)
}

// CreateUser serves both self-service signup (public) and privileged creation;
// the service decides which gate applies.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request payload: "+err.Error()))
		return
	}

	res := h.userService.CreateUser(c.Request.Context(), req, middleware.ActorFrom(c))
	c.JSON(res.Status, res)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request payload: "+err.Error()))
		return
	}

	res := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), patch, middleware.ActorFrom(c))
	c.JSON(res.Status, res)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	wipe, _ := strconv.ParseBool(c.DefaultQuery("wipe", "false"))

	res := h.userService.DeleteUser(c.Request.Context(), c.Query("id"), wipe, middleware.ActorFrom(c))
	c.JSON(res.Status, res)
}
