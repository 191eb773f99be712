package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/crud"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/pkg/pagination"
	"storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

// ResourceConfig binds one registered entity kind to its route group.
// FilterFields whitelists the query parameters accepted as equality filters on
// list requests.
type ResourceConfig struct {
	Kind         model.Resource
	BasePath     string
	FilterFields []string
	// CreateGuard, when set, runs before the engine create. Role creation uses
	// it to stay admin-only.
	CreateGuard func(c *gin.Context, payload map[string]any) *response.Result
}

// ResourceHandler serves the five generic CRUD routes for a single entity
// kind through the shared engine.
type ResourceHandler struct {
	engine *crud.Engine
	cfg    ResourceConfig
}

func NewResourceHandler(engine *crud.Engine, cfg ResourceConfig) *ResourceHandler {
	return &ResourceHandler{engine: engine, cfg: cfg}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ResourceHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group(h.cfg.BasePath)
	{
		group.GET("", h.List)
		group.GET("/:id", h.GetByID)
		group.POST("", h.Create)
		group.PATCH("/:id", h.Update)
		group.DELETE("", h.Delete)
	}
}

// listQuery assembles the caller-supplied filter/shape descriptor from the
// whitelisted query parameters.
func listQuery(c *gin.Context, filterFields []string) repository.ListQuery {
	p := pagination.Parse(c)
	q := repository.ListQuery{
		Filters: map[string]any{},
		Sort:    pagination.SortParam(c, filterFields),
		Limit:   p.Limit,
		Offset:  p.Offset,
	}
	for _, field := range filterFields {
		if v := c.Query(field); v != "" {
			q.Filters[field] = v
		}
	}
	return q
}

func (h *ResourceHandler) List(c *gin.Context) {
	res := h.engine.List(c.Request.Context(), h.cfg.Kind, listQuery(c, h.cfg.FilterFields))
	c.JSON(res.Status, res)
}

func (h *ResourceHandler) GetByID(c *gin.Context) {
	res := h.engine.GetByID(c.Request.Context(), h.cfg.Kind, c.Param("id"))
	c.JSON(res.Status, res)
}

func (h *ResourceHandler) Create(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request payload: "+err.Error()))
		return
	}

	if h.cfg.CreateGuard != nil {
		if res := h.cfg.CreateGuard(c, payload); res != nil {
			c.JSON(res.Status, *res)
			return
		}
	}

	res := h.engine.Create(c.Request.Context(), h.cfg.Kind, payload)
	c.JSON(res.Status, res)
}

func (h *ResourceHandler) Update(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request payload: "+err.Error()))
		return
	}

	res := h.engine.Update(c.Request.Context(), h.cfg.Kind, c.Param("id"), patch)
	c.JSON(res.Status, res)
}

// Delete serves both modes: ?id=<uuid> removes one record, ?wipe=true
// truncates the table. The engine re-checks the wipe authorization itself.
func (h *ResourceHandler) Delete(c *gin.Context) {
	wipe, _ := strconv.ParseBool(c.DefaultQuery("wipe", "false"))

	role := ""
	if actor := middleware.ActorFrom(c); actor != nil {
		role = actor.Role
	}

	res := h.engine.Delete(c.Request.Context(), h.cfg.Kind, c.Query("id"), wipe, role)
	c.JSON(res.Status, res)
}
