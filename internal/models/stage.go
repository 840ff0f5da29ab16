package models

import "time"

// Stage is a fulfillment stage of a sale. The set is fixed but sales do not
// have to walk through it linearly: delivery stages only apply to
// delivery-capable channels, and paid/canceled are mutually exclusive
// terminal markers.
type Stage string

const (
	StageOrderTakingStart Stage = "order-taking-start"
	StageOrderTakingEnd   Stage = "order-taking-end"
	StagePrepStart        Stage = "prep-start"
	StagePrepEnd          Stage = "prep-end"
	StageDeliveryStart    Stage = "delivery-start"
	StageDeliveryEnd      Stage = "delivery-end"
	StageCourierReturned  Stage = "courier-returned"
	StagePaid             Stage = "paid"
	StageCanceled         Stage = "canceled"
)

// StageNone is the sentinel state of a sale with no recorded stages.
const StageNone Stage = "no-stages"

// Stages lists every recordable stage.
var Stages = []Stage{
	StageOrderTakingStart,
	StageOrderTakingEnd,
	StagePrepStart,
	StagePrepEnd,
	StageDeliveryStart,
	StageDeliveryEnd,
	StageCourierReturned,
	StagePaid,
	StageCanceled,
}

// Valid reports whether s is a recordable stage.
func (s Stage) Valid() bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

// DeliveryOnly reports whether s may only be recorded for sales on a
// delivery-capable channel.
func (s Stage) DeliveryOnly() bool {
	return s == StageDeliveryStart || s == StageCourierReturned
}

// DefaultDeliveryChannels is the delivery-capable channel set used when the
// configuration does not override it.
var DefaultDeliveryChannels = []Channel{ChannelDeliveryHome, ChannelPickup, ChannelDelivery}

// SaleStageEvent records that a sale reached a stage at a point in time.
// The composite unique index closes the race between two concurrent
// submissions of the same stage: the second insert fails at the database.
type SaleStageEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SaleID    uint      `gorm:"not null;uniqueIndex:idx_sale_stage" json:"sale_id"`
	Sale      Sale      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Stage     Stage     `gorm:"not null;uniqueIndex:idx_sale_stage" json:"stage"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// StageDuration is the elapsed time between two chronologically adjacent
// stage events of a sale.
type StageDuration struct {
	FromStage Stage     `json:"from_stage"`
	ToStage   Stage     `json:"to_stage"`
	Seconds   float64   `json:"seconds"`
	Minutes   float64   `json:"minutes"`
	FromTime  time.Time `json:"from_time"`
	ToTime    time.Time `json:"to_time"`
}
