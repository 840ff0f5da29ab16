package models

import "time"

// Pizzeria is the tenant unit: products, sales and role assignments all hang
// off a pizzeria, and deleting one cascades to all of them.
type Pizzeria struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PizzeriaSummary is a Pizzeria annotated with the sum of its sales' totals,
// used by the listing endpoint.
type PizzeriaSummary struct {
	Pizzeria
	TotalSales float64 `json:"total_sales"`
}

// OwnerAssignment links a user to a pizzeria with ownership-level access.
// A user may own many pizzerias and a pizzeria may have many owners, but
// each pair appears at most once.
type OwnerAssignment struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	UserID     uint     `gorm:"not null;uniqueIndex:idx_owner_pizzeria" json:"user_id"`
	User       User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PizzeriaID uint     `gorm:"not null;uniqueIndex:idx_owner_pizzeria" json:"pizzeria_id"`
	Pizzeria   Pizzeria `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
