package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// ErrForbidden is the expected deny outcome: the caller's role holds no
// matching grant. Anything else returned by Authorize is an infrastructure
// failure.
var ErrForbidden = errors.New("you don't have permission to access this endpoint")

// Engine decides, per request, whether a caller's role may perform the
// derived action on the targeted resource.
type Engine struct {
	roles        repository.RoleRepository
	elevatedRole string
}

// NewEngine builds the engine around the role store. elevatedRole is the
// sentinel that bypasses the permission matrix entirely.
func NewEngine(roles repository.RoleRepository, elevatedRole string) *Engine {
	return &Engine{roles: roles, elevatedRole: elevatedRole}
}

// DeriveAction maps the HTTP verb and path shape to a permission action:
// POST is CREATE, PATCH is UPDATE, DELETE is DELETE, GET with a sub-path
// segment is GET_ONE and GET without one is GET_ALL. The mapping is fixed.
func DeriveAction(method, trimmedPath string) model.Action {
	switch method {
	case "POST":
		return model.ActionCreate
	case "PATCH":
		return model.ActionUpdate
	case "DELETE":
		return model.ActionDelete
	case "GET":
		if strings.Contains(trimmedPath, "/") {
			return model.ActionGetOne
		}
	}
	return model.ActionGetAll
}

// resourceName extracts the top-level resource: the text before the first
// slash, or the whole path when there is none.
func resourceName(trimmedPath string) model.Resource {
	if i := strings.Index(trimmedPath, "/"); i != -1 {
		return model.Resource(trimmedPath[:i])
	}
	return model.Resource(trimmedPath)
}

// isPublic reports the two fixed exceptions reachable without a session:
// signing up (CREATE on users) and everything under auth.
func isPublic(action model.Action, resource model.Resource) bool {
	if resource == model.ResourceAuth {
		return true
	}
	return resource == model.ResourceUsers && action == model.ActionCreate
}

// Authorize returns nil when the caller may proceed, ErrForbidden when no
// grant matches, and any other error on infrastructure failure. callerRole may
// be empty for anonymous callers; an unknown role name is a deterministic
// deny, never a server error.
func (e *Engine) Authorize(ctx context.Context, callerRole, method, path string) error {
	if !strings.HasPrefix(path, "/") {
		// The routing layer guarantees a rooted path; anything else means the
		// extraction precondition was violated upstream.
		return fmt.Errorf("authz: malformed request path %q", path)
	}
	trimmed := strings.TrimPrefix(path, "/")

	action := DeriveAction(method, trimmed)
	resource := resourceName(trimmed)

	if isPublic(action, resource) {
		return nil
	}

	if callerRole == e.elevatedRole {
		return nil
	}

	roles, err := e.roles.FindAllByName(ctx, callerRole)
	if err != nil {
		return fmt.Errorf("authz: role lookup failed: %w", err)
	}

	roleIDs := make([]uuid.UUID, 0, len(roles))
	for _, r := range roles {
		roleIDs = append(roleIDs, r.ID)
	}

	ok, err := e.roles.HasGrant(ctx, roleIDs, action, resource)
	if err != nil {
		return fmt.Errorf("authz: permission lookup failed: %w", err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
