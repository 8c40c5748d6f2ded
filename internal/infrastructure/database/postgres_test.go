package database_test

import (
	"testing"

	"github.com/sangkips/salonpro-api/internal/config"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/infrastructure/database"
	"github.com/sangkips/salonpro-api/internal/testutil"
	"github.com/sangkips/salonpro-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedDefaultDataIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	admin := config.AdminConfig{Email: "owner@salon.test", Password: "s3cret-pass", Name: "Grace Wanjiru"}

	require.NoError(t, database.SeedDefaultData(db, admin, zap.NewNop()))
	require.NoError(t, database.SeedDefaultData(db, admin, zap.NewNop()))

	var permCount, roleCount, userCount int64
	db.Model(&entity.Permission{}).Count(&permCount)
	db.Model(&entity.Role{}).Count(&roleCount)
	db.Model(&entity.User{}).Count(&userCount)
	assert.Equal(t, int64(len(database.AllPermissions)), permCount)
	assert.Equal(t, int64(4), roleCount)
	assert.Equal(t, int64(1), userCount)

	var user entity.User
	require.NoError(t, db.Preload("Roles.Permissions").First(&user, "email = ?", admin.Email).Error)
	assert.Equal(t, "Grace", user.FirstName)
	assert.Equal(t, "Wanjiru", user.LastName)
	assert.True(t, user.HasRole("super-admin"))
	assert.True(t, user.HasPermission("manage-sales"))
	assert.True(t, utils.CheckPasswordHash(admin.Password, user.Password))

	var staff entity.Role
	require.NoError(t, db.Preload("Permissions").First(&staff, "name = ?", "staff").Error)
	assert.Len(t, staff.Permissions, 4)
}

func TestSeedWithoutAdminSkipsUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, database.SeedDefaultData(db, config.AdminConfig{}, zap.NewNop()))

	var userCount int64
	db.Model(&entity.User{}).Count(&userCount)
	assert.Zero(t, userCount)
}
