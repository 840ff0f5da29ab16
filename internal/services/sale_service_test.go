package services

import (
	"testing"
	"time"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSaleComputesTotalFromItems(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "sale-owner")
	pizzeria := createOwnedPizzeria(t, db, owner, "Totals")
	margherita := createTestProduct(t, db, pizzeria.ID, "Margherita", 100.50)
	cola := createTestProduct(t, db, pizzeria.ID, "Cola", 2.50)

	service := NewSaleService(db)
	sale, err := service.CreateSale(owner.ID, pizzeria.ID, CreateSaleInput{
		Channel: models.ChannelCounter,
		Items: []SaleItemInput{
			{ProductID: margherita.ID, Quantity: 3},
			{ProductID: cola.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 306.50, sale.Total, 0.001)
	assert.Len(t, sale.Items, 2)
	assert.InDelta(t, 100.50, sale.Items[0].Price, 0.001)
	assert.Equal(t, models.PaymentCash, sale.PaymentMethod)
	assert.False(t, sale.Fecha.IsZero())
}

func TestCreateSaleOpensStageTracking(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "tracking-owner")
	pizzeria := createOwnedPizzeria(t, db, owner, "Tracking")
	product := createTestProduct(t, db, pizzeria.ID, "Pepperoni", 12.99)

	service := NewSaleService(db)
	sale, err := service.CreateSale(owner.ID, pizzeria.ID, CreateSaleInput{
		Channel: models.ChannelCounter,
		Items:   []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	var events []models.SaleStageEvent
	require.NoError(t, db.Where("sale_id = ?", sale.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, models.StageOrderTakingStart, events[0].Stage)
}

func TestCreateSaleValidation(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "validation-owner")
	pizzeria := createOwnedPizzeria(t, db, owner, "Validation")
	product := createTestProduct(t, db, pizzeria.ID, "Hawaiian", 11.00)

	other := createTestUser(t, db, "other-owner")
	otherPizzeria := createOwnedPizzeria(t, db, other, "Elsewhere")
	foreign := createTestProduct(t, db, otherPizzeria.ID, "Foreign", 9.00)

	inactive := createTestProduct(t, db, pizzeria.ID, "Retired", 8.00)
	deactivateProduct(t, db, inactive.ID)

	service := NewSaleService(db)

	t.Run("unknown channel", func(t *testing.T) {
		_, err := service.CreateSale(owner.ID, pizzeria.ID, CreateSaleInput{
			Channel: "DRONE",
			Items:   []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
		})
		assert.True(t, models.IsValidation(err))
	})

	t.Run("empty items", func(t *testing.T) {
		_, err := service.CreateSale(owner.ID, pizzeria.ID, CreateSaleInput{
			Channel: models.ChannelCounter,
		})
		require.True(t, models.IsValidation(err))
		assert.Contains(t, err.Error(), "at least one item")
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := service.CreateSale(owner.ID, pizzeria.ID, CreateSaleInput{
			Channel: models.ChannelCounter,
			Items:   []SaleItemInput{{ProductID: product.ID, Quantity: 0}},
		})
		require.True(t, models.IsValidation(err))
		assert.Contains(t, err.Error(), "greater than zero")
	})

	t.Run("inactive product", func(t *testing.T) {
		_, err := service.CreateSale(owner.ID, pizzeria.ID, CreateSaleInput{
			Channel: models.ChannelCounter,
			Items:   []SaleItemInput{{ProductID: inactive.ID, Quantity: 1}},
		})
		require.True(t, models.IsValidation(err))
		assert.Contains(t, err.Error(), "not active")
	})

	t.Run("product of another pizzeria", func(t *testing.T) {
		_, err := service.CreateSale(owner.ID, pizzeria.ID, CreateSaleInput{
			Channel: models.ChannelCounter,
			Items:   []SaleItemInput{{ProductID: foreign.ID, Quantity: 1}},
		})
		require.True(t, models.IsValidation(err))
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("failed sale leaves no rows behind", func(t *testing.T) {
		var sales int64
		require.NoError(t, db.Model(&models.Sale{}).Where("pizzeria_id = ?", pizzeria.ID).Count(&sales).Error)
		assert.Zero(t, sales)
	})
}

func TestCreateSaleScope(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "scope-owner")
	pizzeria := createOwnedPizzeria(t, db, owner, "Scoped")
	product := createTestProduct(t, db, pizzeria.ID, "Quattro", 14.00)

	stranger := createTestUser(t, db, "scope-stranger")
	employee := createTestUser(t, db, "scope-employee")
	require.NoError(t, db.Create(&models.UserPizzeriaRole{
		UserID: employee.ID, PizzeriaID: pizzeria.ID, Role: models.RoleEmployee,
	}).Error)
	cashier := createTestUser(t, db, "scope-cashier")
	require.NoError(t, db.Create(&models.UserPizzeriaRole{
		UserID: cashier.ID, PizzeriaID: pizzeria.ID, Role: models.RoleCashier,
	}).Error)

	service := NewSaleService(db)
	input := CreateSaleInput{
		Channel: models.ChannelCounter,
		Items:   []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
	}

	t.Run("stranger reads as not found", func(t *testing.T) {
		_, err := service.CreateSale(stranger.ID, pizzeria.ID, input)
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("employee is read-only", func(t *testing.T) {
		_, err := service.CreateSale(employee.ID, pizzeria.ID, input)
		assert.True(t, models.IsPermissionDenied(err))
	})

	t.Run("employee may still list", func(t *testing.T) {
		_, err := service.ListSales(employee.ID, pizzeria.ID)
		assert.NoError(t, err)
	})

	t.Run("cashier may record sales", func(t *testing.T) {
		_, err := service.CreateSale(cashier.ID, pizzeria.ID, input)
		assert.NoError(t, err)
	})
}

func TestUpdateSaleReplacesItemsAndRecomputes(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "update-owner")
	pizzeria := createOwnedPizzeria(t, db, owner, "Updates")
	pizza := createTestProduct(t, db, pizzeria.ID, "Diavola", 13.00)
	drink := createTestProduct(t, db, pizzeria.ID, "Water", 1.50)

	service := NewSaleService(db)
	sale, err := service.CreateSale(owner.ID, pizzeria.ID, CreateSaleInput{
		Channel: models.ChannelCounter,
		Items:   []SaleItemInput{{ProductID: pizza.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	card := models.PaymentCard
	updated, err := service.UpdateSale(owner.ID, pizzeria.ID, sale.ID, UpdateSaleInput{
		PaymentMethod: &card,
		Items: []SaleItemInput{
			{ProductID: drink.ID, Quantity: 4},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 6.00, updated.Total, 0.001)
	assert.Equal(t, models.PaymentCard, updated.PaymentMethod)

	var items []models.SaleItem
	require.NoError(t, db.Where("sale_id = ?", sale.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, drink.ID, items[0].ProductID)
}

func TestUpdateSaleWithoutItemsKeepsTotal(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "patch-owner")
	pizzeria := createOwnedPizzeria(t, db, owner, "Patches")
	product := createTestProduct(t, db, pizzeria.ID, "Funghi", 12.00)

	service := NewSaleService(db)
	sale, err := service.CreateSale(owner.ID, pizzeria.ID, CreateSaleInput{
		Channel: models.ChannelCounter,
		Items:   []SaleItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	pickup := models.ChannelPickup
	updated, err := service.UpdateSale(owner.ID, pizzeria.ID, sale.ID, UpdateSaleInput{Channel: &pickup})
	require.NoError(t, err)

	assert.Equal(t, models.ChannelPickup, updated.Channel)
	assert.InDelta(t, 24.00, updated.Total, 0.001)
}

func TestUpdateSaleLockedAfterFulfillment(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "lock-owner")
	pizzeria := createOwnedPizzeria(t, db, owner, "Locks")
	product := createTestProduct(t, db, pizzeria.ID, "Calzone", 10.00)

	service := NewSaleService(db)

	for _, stage := range []models.Stage{models.StagePrepStart, models.StageDeliveryStart, models.StagePaid} {
		t.Run(string(stage), func(t *testing.T) {
			sale, err := service.CreateSale(owner.ID, pizzeria.ID, CreateSaleInput{
				Channel: models.ChannelDeliveryHome,
				Items:   []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
			})
			require.NoError(t, err)
			require.NoError(t, db.Create(&models.SaleStageEvent{
				SaleID: sale.ID, Stage: stage, Timestamp: time.Now(),
			}).Error)

			_, err = service.UpdateSale(owner.ID, pizzeria.ID, sale.ID, UpdateSaleInput{
				Items: []SaleItemInput{{ProductID: product.ID, Quantity: 5}},
			})
			require.True(t, models.IsValidation(err))
			assert.Contains(t, err.Error(), "no longer be edited")
		})
	}
}

func TestDeleteSaleRemovesItemsAndEvents(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "delete-owner")
	pizzeria := createOwnedPizzeria(t, db, owner, "Deletes")
	product := createTestProduct(t, db, pizzeria.ID, "Napoli", 11.50)

	service := NewSaleService(db)
	sale, err := service.CreateSale(owner.ID, pizzeria.ID, CreateSaleInput{
		Channel: models.ChannelCounter,
		Items:   []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteSale(owner.ID, pizzeria.ID, sale.ID))

	var items, events int64
	require.NoError(t, db.Model(&models.SaleItem{}).Where("sale_id = ?", sale.ID).Count(&items).Error)
	require.NoError(t, db.Model(&models.SaleStageEvent{}).Where("sale_id = ?", sale.ID).Count(&events).Error)
	assert.Zero(t, items)
	assert.Zero(t, events)

	_, err = service.GetSale(owner.ID, pizzeria.ID, sale.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestListSalesNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "list-owner")
	pizzeria := createOwnedPizzeria(t, db, owner, "Listing")

	now := time.Now()
	older := createTestSale(t, db, pizzeria.ID, owner.ID, models.ChannelCounter, now.Add(-2*time.Hour), 10)
	newer := createTestSale(t, db, pizzeria.ID, owner.ID, models.ChannelCounter, now, 20)

	service := NewSaleService(db)
	sales, err := service.ListSales(owner.ID, pizzeria.ID)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, newer.ID, sales[0].ID)
	assert.Equal(t, older.ID, sales[1].ID)
}
