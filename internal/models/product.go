package models

import "time"

// Product belongs to a pizzeria. Sale items reference products through a
// protective relation: a product that has been sold can be deactivated but
// never deleted, so historic sales keep a valid reference.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PizzeriaID  uint      `gorm:"not null;index" json:"pizzeria_id"`
	Pizzeria    Pizzeria  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name        string    `gorm:"not null" json:"name"`
	Price       float64   `gorm:"not null" json:"price"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}
