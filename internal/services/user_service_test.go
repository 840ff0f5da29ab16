package services

import (
	"testing"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserWithProfile(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	user := &models.User{Username: "fresh-user", Email: "fresh@example.com", Password: "plain-secret"}
	require.NoError(t, user.HashPassword())
	require.NoError(t, service.CreateUser(user))
	require.NotZero(t, user.ID)

	assert.True(t, user.CheckPassword("plain-secret"))
	assert.False(t, user.CheckPassword("wrong"))

	// Registration always starts at the neutral employee label.
	assert.Equal(t, models.RoleEmployee, profileRole(t, db, user.ID))
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	first := &models.User{Username: "taken", Password: "hash"}
	require.NoError(t, service.CreateUser(first))

	err := service.CreateUser(&models.User{Username: "taken", Password: "hash"})
	require.Error(t, err)
	assert.Equal(t, "user_already_exists", err.Error())
}

func TestGetUserLookups(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	user := &models.User{Username: "lookup", Password: "hash"}
	require.NoError(t, service.CreateUser(user))

	byName, err := service.GetUserByUsername("lookup")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byID, err := service.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "lookup", byID.Username)

	_, err = service.GetUserByUsername("missing")
	assert.Error(t, err)
}
