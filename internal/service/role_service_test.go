package service

import (
	"context"
	"net/http"
	"testing"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaultRolesIsIdempotent(t *testing.T) {
	db := newServiceTestDB(t)
	svc := NewRoleService(repository.NewRoleRepository(db), repository.NewTransactionManager(db))
	ctx := context.Background()

	require.NoError(t, svc.SeedDefaultRolesAndPermissions(ctx))

	var roleCount, permCount int64
	require.NoError(t, db.Model(&model.Role{}).Count(&roleCount).Error)
	require.NoError(t, db.Model(&model.Permission{}).Count(&permCount).Error)
	assert.EqualValues(t, 2, roleCount, "editor and customer; admin bypasses the matrix")
	assert.EqualValues(t, 15, permCount)

	// A second run must not duplicate anything.
	require.NoError(t, svc.SeedDefaultRolesAndPermissions(ctx))

	var roleCount2, permCount2 int64
	require.NoError(t, db.Model(&model.Role{}).Count(&roleCount2).Error)
	require.NoError(t, db.Model(&model.Permission{}).Count(&permCount2).Error)
	assert.Equal(t, roleCount, roleCount2)
	assert.Equal(t, permCount, permCount2)
}

func TestGuardCreateRequiresAdmin(t *testing.T) {
	db := newServiceTestDB(t)
	svc := NewRoleService(repository.NewRoleRepository(db), repository.NewTransactionManager(db))

	denied := svc.GuardCreate(nil)
	require.NotNil(t, denied)
	assert.Equal(t, http.StatusUnauthorized, denied.Status)

	denied = svc.GuardCreate(&Actor{UserID: "x", Role: model.RoleEditor})
	require.NotNil(t, denied)

	assert.Nil(t, svc.GuardCreate(&Actor{UserID: "x", Role: model.RoleAdmin}))
}
