package services

import (
	"testing"
	"time"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/database"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database with the full schema.
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

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "test-hash"}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.UserProfile{UserID: user.ID, Role: models.RoleEmployee}).Error)
	return user
}

// createOwnedPizzeria creates a pizzeria with the user as its owner.
func createOwnedPizzeria(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Pizzeria {
	t.Helper()
	pizzeria := &models.Pizzeria{Name: name, Address: "1 Test Street"}
	require.NoError(t, db.Create(pizzeria).Error)
	require.NoError(t, db.Create(&models.OwnerAssignment{UserID: owner.ID, PizzeriaID: pizzeria.ID}).Error)
	return pizzeria
}

func createTestProduct(t *testing.T, db *gorm.DB, pizzeriaID uint, name string, price float64) *models.Product {
	t.Helper()
	product := &models.Product{PizzeriaID: pizzeriaID, Name: name, Price: price, Category: "Pizza", Active: true}
	require.NoError(t, db.Create(product).Error)
	return product
}

// deactivateProduct flips a product inactive through a direct update since
// gorm treats false as the zero value on create.
func deactivateProduct(t *testing.T, db *gorm.DB, productID uint) {
	t.Helper()
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", productID).Update("active", false).Error)
}

// createTestSale inserts a sale row directly, bypassing the service, for
// tests that need full control over fecha and total.
func createTestSale(t *testing.T, db *gorm.DB, pizzeriaID, userID uint, channel models.Channel, fecha time.Time, total float64) *models.Sale {
	t.Helper()
	sale := &models.Sale{
		PizzeriaID:    pizzeriaID,
		UserID:        userID,
		Fecha:         fecha,
		Channel:       channel,
		PaymentMethod: models.PaymentCash,
		Total:         total,
	}
	require.NoError(t, db.Create(sale).Error)
	return sale
}
