package auth

import (
	"testing"
	"time"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/database"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUserWithRole(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "test-hash"}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.UserProfile{UserID: user.ID, Role: role}).Error)
	return user
}

func TestIssueCarriesUserAndRoleClaims(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithRole(t, db, "claims-user", models.RoleManager)

	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour, db)
	pair, err := issuer.Issue(user.ID)
	require.NoError(t, err)

	assert.Equal(t, "Bearer", pair.TokenType)
	assert.EqualValues(t, 3600, pair.ExpiresIn)

	token, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.EqualValues(t, user.ID, claims["uid"])
	assert.Equal(t, string(models.RoleManager), claims["role"])
	assert.NotContains(t, claims, "typ")
}

func TestIssueReadsRoleAtIssuanceTime(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithRole(t, db, "promoted-user", models.RoleEmployee)
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour, db)

	require.NoError(t, db.Model(&models.UserProfile{}).
		Where("user_id = ?", user.ID).Update("role", models.RoleOwner).Error)

	pair, err := issuer.Issue(user.ID)
	require.NoError(t, err)

	token, _ := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, string(models.RoleOwner), claims["role"])
}

func TestIssueWithoutProfileFallsBackToEmployee(t *testing.T) {
	db := setupTestDB(t)
	user := &models.User{Username: "no-profile", Password: "test-hash"}
	require.NoError(t, db.Create(user).Error)

	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour, db)
	pair, err := issuer.Issue(user.ID)
	require.NoError(t, err)

	token, _ := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, string(models.RoleEmployee), claims["role"])
}

func TestRefreshRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithRole(t, db, "refresh-user", models.RoleCashier)

	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour, db)
	pair, err := issuer.Issue(user.ID)
	require.NoError(t, err)

	renewed, err := issuer.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)
	assert.NotEmpty(t, renewed.RefreshToken)

	token, err := jwt.Parse(renewed.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.EqualValues(t, user.ID, claims["uid"])
}

func TestRefreshRejectsBadTokens(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithRole(t, db, "reject-user", models.RoleEmployee)

	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour, db)
	pair, err := issuer.Issue(user.ID)
	require.NoError(t, err)

	// Access tokens are not refresh tokens.
	_, err = issuer.Refresh(pair.AccessToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a refresh token")

	// Tokens signed with another key are rejected outright.
	other := NewTokenIssuer([]byte("other-secret"), time.Hour, db)
	foreign, err := other.Issue(user.ID)
	require.NoError(t, err)
	_, err = issuer.Refresh(foreign.RefreshToken)
	assert.Error(t, err)

	_, err = issuer.Refresh("not-a-token")
	assert.Error(t, err)
}
