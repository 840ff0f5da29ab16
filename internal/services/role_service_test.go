package services

import (
	"testing"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func profileRole(t *testing.T, db *gorm.DB, userID uint) models.Role {
	t.Helper()
	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", userID).First(&profile).Error)
	return profile.Role
}

func TestResolveRole(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "resolve-owner")
	pizzeria := createOwnedPizzeria(t, db, owner, "Resolves")
	manager := createTestUser(t, db, "resolve-manager")
	require.NoError(t, db.Create(&models.UserPizzeriaRole{
		UserID: manager.ID, PizzeriaID: pizzeria.ID, Role: models.RoleManager,
	}).Error)
	stranger := createTestUser(t, db, "resolve-stranger")

	service := NewRoleService(db)

	role, err := service.ResolveRole(owner.ID, pizzeria.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, role)

	role, err = service.ResolveRole(manager.ID, pizzeria.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, role)

	role, err = service.ResolveRole(stranger.ID, pizzeria.ID)
	require.NoError(t, err)
	assert.Empty(t, role)
}

func TestAssignRoleHierarchy(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "hierarchy-owner")
	pizzeria := createOwnedPizzeria(t, db, owner, "Hierarchy")
	target := createTestUser(t, db, "hierarchy-target")
	service := NewRoleService(db)

	t.Run("owner grants manager", func(t *testing.T) {
		assignment, err := service.AssignRole(owner.ID, pizzeria.ID, target.ID, models.RoleManager)
		require.NoError(t, err)
		assert.Equal(t, models.RoleManager, assignment.Role)
		assert.Equal(t, models.RoleManager, profileRole(t, db, target.ID))
	})

	t.Run("owner cannot grant owner", func(t *testing.T) {
		_, err := service.AssignRole(owner.ID, pizzeria.ID, target.ID, models.RoleOwner)
		require.True(t, models.IsPermissionDenied(err))
		assert.Contains(t, err.Error(), "may only grant")
	})

	t.Run("manager cannot grant manager", func(t *testing.T) {
		other := createTestUser(t, db, "hierarchy-other")
		_, err := service.AssignRole(target.ID, pizzeria.ID, other.ID, models.RoleManager)
		assert.True(t, models.IsPermissionDenied(err))
	})

	t.Run("manager grants cashier", func(t *testing.T) {
		other := createTestUser(t, db, "hierarchy-cashier")
		_, err := service.AssignRole(target.ID, pizzeria.ID, other.ID, models.RoleCashier)
		assert.NoError(t, err)
	})

	t.Run("cashier may not grant anything", func(t *testing.T) {
		cashier := createTestUser(t, db, "hierarchy-blocked")
		require.NoError(t, db.Create(&models.UserPizzeriaRole{
			UserID: cashier.ID, PizzeriaID: pizzeria.ID, Role: models.RoleCashier,
		}).Error)
		_, err := service.AssignRole(cashier.ID, pizzeria.ID, target.ID, models.RoleEmployee)
		require.True(t, models.IsPermissionDenied(err))
		assert.Contains(t, err.Error(), "may not create or edit users")
	})

	t.Run("reassignment updates in place", func(t *testing.T) {
		assignment, err := service.AssignRole(owner.ID, pizzeria.ID, target.ID, models.RoleCashier)
		require.NoError(t, err)
		assert.Equal(t, models.RoleCashier, assignment.Role)

		var count int64
		require.NoError(t, db.Model(&models.UserPizzeriaRole{}).
			Where("user_id = ? AND pizzeria_id = ?", target.ID, pizzeria.ID).
			Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})
}

func TestAssignRoleOutsideScope(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "outside-owner")
	pizzeria := createOwnedPizzeria(t, db, owner, "Outside")
	stranger := createTestUser(t, db, "outside-stranger")
	target := createTestUser(t, db, "outside-target")

	service := NewRoleService(db)
	_, err := service.AssignRole(stranger.ID, pizzeria.ID, target.ID, models.RoleEmployee)
	assert.True(t, models.IsNotFound(err))
}

func TestAdminGrantsEverywhere(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "admin-owner")
	pizzeria := createOwnedPizzeria(t, db, owner, "Administered")

	admin := createTestUser(t, db, "site-admin")
	require.NoError(t, db.Model(&models.UserProfile{}).
		Where("user_id = ?", admin.ID).Update("role", models.RoleAdmin).Error)

	target := createTestUser(t, db, "admin-target")
	service := NewRoleService(db)

	// No per-pizzeria role needed: the global admin label carries.
	assignment, err := service.AssignRole(admin.ID, pizzeria.ID, target.ID, models.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, assignment.Role)
}

func TestRemoveRoleRecomputesProfile(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "remove-owner")
	first := createOwnedPizzeria(t, db, owner, "First")
	second := createOwnedPizzeria(t, db, owner, "Second")
	target := createTestUser(t, db, "remove-target")

	service := NewRoleService(db)
	_, err := service.AssignRole(owner.ID, first.ID, target.ID, models.RoleManager)
	require.NoError(t, err)
	_, err = service.AssignRole(owner.ID, second.ID, target.ID, models.RoleCashier)
	require.NoError(t, err)

	// The earliest remaining assignment labels the profile.
	assert.Equal(t, models.RoleManager, profileRole(t, db, target.ID))

	require.NoError(t, service.RemoveRole(owner.ID, first.ID, target.ID))
	assert.Equal(t, models.RoleCashier, profileRole(t, db, target.ID))

	require.NoError(t, service.RemoveRole(owner.ID, second.ID, target.ID))
	assert.Equal(t, models.RoleEmployee, profileRole(t, db, target.ID))

	err = service.RemoveRole(owner.ID, second.ID, target.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestCreateEmployee(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "employ-owner")
	pizzeria := createOwnedPizzeria(t, db, owner, "Employer")
	service := NewRoleService(db)

	t.Run("creates account with role and profile", func(t *testing.T) {
		user, err := service.CreateEmployee(owner.ID, pizzeria.ID, "new-cashier", "c@example.com", "secret-123", models.RoleCashier)
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.True(t, user.CheckPassword("secret-123"))

		role, err := service.ResolveRole(user.ID, pizzeria.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleCashier, role)
		assert.Equal(t, models.RoleCashier, profileRole(t, db, user.ID))
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		_, err := service.CreateEmployee(owner.ID, pizzeria.ID, "new-cashier", "", "secret-123", models.RoleEmployee)
		require.True(t, models.IsValidation(err))
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("grant outside entitlement rejected", func(t *testing.T) {
		_, err := service.CreateEmployee(owner.ID, pizzeria.ID, "another-owner", "", "secret-123", models.RoleOwner)
		assert.True(t, models.IsPermissionDenied(err))
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := service.CreateEmployee(owner.ID, pizzeria.ID, "bad-role", "", "secret-123", "janitor")
		assert.True(t, models.IsValidation(err))
	})
}
