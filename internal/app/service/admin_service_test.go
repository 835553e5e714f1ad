package service

import (
	"testing"

	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/internal/app/repository"
	"github.com/hjkwon/paymap-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAdminServiceTest(t *testing.T) (AdminService, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)

	return NewAdminService(testDB, userRepo, storeRepo), testDB
}

func TestAdminService_GetDashboardStats(t *testing.T) {
	adminService, testDB := setupAdminServiceTest(t)
	user := createTestUser(t, testDB, "admin-stats@example.com")

	createTestStore(t, testDB, user.ID, "대시보드1")
	verified := createTestStore(t, testDB, user.ID, "대시보드2")
	require.NoError(t, testDB.Model(verified).Update("status", model.StatusVerified).Error)
	addVerification(t, testDB, verified.ID, user.ID, true)
	addComment(t, testDB, verified.ID, user.ID, boolPtr(true))

	stats, err := adminService.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalStores)
	assert.Equal(t, int64(1), stats.StoresByStatus[model.StatusPending])
	assert.Equal(t, int64(1), stats.StoresByStatus[model.StatusVerified])
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalVerifications)
	assert.Equal(t, int64(1), stats.TotalComments)
}

func TestAdminService_UpdateUserTrustLevel(t *testing.T) {
	adminService, testDB := setupAdminServiceTest(t)
	user := createTestUser(t, testDB, "tier@example.com")

	t.Run("Valid level", func(t *testing.T) {
		updated, err := adminService.UpdateUserTrustLevel(user.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, updated.TrustLevel)
	})

	t.Run("Out of range", func(t *testing.T) {
		_, err := adminService.UpdateUserTrustLevel(user.ID, 9)
		assert.ErrorIs(t, err, ErrInvalidTrustLevel)
	})

	t.Run("Missing user", func(t *testing.T) {
		_, err := adminService.UpdateUserTrustLevel(99999, 2)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAdminService_UpdateUserRole(t *testing.T) {
	adminService, testDB := setupAdminServiceTest(t)
	user := createTestUser(t, testDB, "role@example.com")

	t.Run("Promote to admin", func(t *testing.T) {
		updated, err := adminService.UpdateUserRole(user.ID, model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, updated.Role)
		assert.True(t, updated.IsAdmin())
	})

	t.Run("Unknown role", func(t *testing.T) {
		_, err := adminService.UpdateUserRole(user.ID, model.UserRole("superuser"))
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}
