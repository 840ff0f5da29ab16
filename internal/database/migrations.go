package database

import (
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every model. The composite
// unique indexes on (sale, stage) and (user, pizzeria) come from the model
// tags, so the uniqueness guarantees live in the database itself.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Pizzeria{},
		&models.OwnerAssignment{},
		&models.UserPizzeriaRole{},
		&models.Product{},
		&models.Sale{},
		&models.SaleItem{},
		&models.SaleStageEvent{},
	)
}
