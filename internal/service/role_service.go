package service

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/pkg/response"
)

// RoleService guards role creation (admin-only master data) and seeds the
// default permission matrix. The CRUD itself flows through the generic engine
// unchanged.
type RoleService interface {
	GuardCreate(actor *Actor) *response.Result
	SeedDefaultRolesAndPermissions(ctx context.Context) error
}

type roleService struct {
	roles repository.RoleRepository
	tx    repository.TransactionManager
}

func NewRoleService(roles repository.RoleRepository, tx repository.TransactionManager) RoleService {
	return &roleService{roles: roles, tx: tx}
}

// GuardCreate refuses non-admin callers regardless of any permission rows they
// hold; roles are admin-managed master data. A nil result lets the create
// proceed.
func (s *roleService) GuardCreate(actor *Actor) *response.Result {
	if actor == nil || actor.Role != model.RoleAdmin {
		res := response.Forbidden("Unauthorized, only admins can create new roles")
		return &res
	}
	return nil
}

// SeedDefaultRolesAndPermissions creates the non-elevated default roles with
// their grants if not already present. The admin role needs no rows: it
// bypasses the matrix entirely.
func (s *roleService) SeedDefaultRolesAndPermissions(ctx context.Context) error {
	type grant struct {
		action   model.Action
		resource model.Resource
	}

	defaults := map[string][]grant{
		model.RoleEditor: {
			{model.ActionGetAll, model.ResourceProducts},
			{model.ActionGetOne, model.ResourceProducts},
			{model.ActionCreate, model.ResourceProducts},
			{model.ActionUpdate, model.ResourceProducts},
			{model.ActionGetAll, model.ResourceCategories},
			{model.ActionGetOne, model.ResourceCategories},
			{model.ActionCreate, model.ResourceCategories},
			{model.ActionUpdate, model.ResourceCategories},
		},
		model.RoleCustomer: {
			{model.ActionGetAll, model.ResourceProducts},
			{model.ActionGetOne, model.ResourceProducts},
			{model.ActionGetAll, model.ResourceCategories},
			{model.ActionGetOne, model.ResourceCategories},
			{model.ActionGetOne, model.ResourceUsers},
			{model.ActionUpdate, model.ResourceUsers},
			{model.ActionDelete, model.ResourceUsers},
		},
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for name, grants := range defaults {
			roles, err := s.roles.FindAllByName(txCtx, name)
			if err != nil {
				return fmt.Errorf("seed: lookup role %q: %w", name, err)
			}

			var role model.Role
			if len(roles) > 0 {
				role = roles[0]
			} else {
				role = model.Role{Name: name}
				if err := s.roles.Create(txCtx, &role); err != nil {
					return fmt.Errorf("seed: create role %q: %w", name, err)
				}
			}

			for _, g := range grants {
				perm := model.Permission{
					Action: g.action,
					Table:  g.resource,
					RoleID: role.ID,
				}
				if err := s.roles.FindOrCreatePermission(txCtx, &perm); err != nil {
					return fmt.Errorf("seed: grant %s/%s to %q: %w", g.action, g.resource, name, err)
				}
			}
		}
		return nil
	})
}
