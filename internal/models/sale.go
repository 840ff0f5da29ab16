package models

import "time"

// Channel is the order channel of a sale.
type Channel string

const (
	ChannelCounter      Channel = "COUNTER"
	ChannelPickup       Channel = "PICKUP"
	ChannelDeliveryHome Channel = "DELIVERY-HOME"
	ChannelPlatform     Channel = "PLATFORM"
	ChannelDelivery     Channel = "DELIVERY"
)

// Channels lists every accepted order channel.
var Channels = []Channel{ChannelCounter, ChannelPickup, ChannelDeliveryHome, ChannelPlatform, ChannelDelivery}

// Valid reports whether c is one of the accepted channels.
func (c Channel) Valid() bool {
	for _, known := range Channels {
		if c == known {
			return true
		}
	}
	return false
}

// PaymentMethod is how a sale was paid.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "CASH"
	PaymentCard  PaymentMethod = "CARD"
	PaymentOther PaymentMethod = "OTHER"
)

var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentOther}

func (p PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if p == known {
			return true
		}
	}
	return false
}

// Sale is a recorded sale for a pizzeria. Total is always derived from the
// line items server-side; client-supplied totals are ignored. Fecha is the
// server-assigned sale timestamp and never changes after creation.
type Sale struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	PizzeriaID    uint          `gorm:"not null;index" json:"pizzeria_id"`
	Pizzeria      Pizzeria      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID        uint          `gorm:"not null;index" json:"user_id"`
	User          User          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Fecha         time.Time     `gorm:"not null;index" json:"fecha"`
	Channel       Channel       `gorm:"not null" json:"channel"`
	PaymentMethod PaymentMethod `gorm:"not null;default:'CASH'" json:"payment_method"`
	Total         float64       `gorm:"not null" json:"total"`
	Items         []SaleItem    `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// SaleItem is one line of a sale. Quantity is strictly positive and the
// referenced product must be active when the item is recorded. The product
// relation is deliberately not cascading: products with sold items cannot
// be deleted.
type SaleItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	SaleID    uint    `gorm:"not null;index" json:"sale_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Product   Product `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	// Price is the product price captured at the time of sale.
	Price float64 `gorm:"not null" json:"price"`
}
