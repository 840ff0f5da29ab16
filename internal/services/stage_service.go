package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DurationsReport is the inter-stage timing breakdown of a sale: one segment
// per pair of chronologically adjacent recorded events, plus the elapsed time
// between the first and last event.
type DurationsReport struct {
	Segments     []models.StageDuration `json:"segments"`
	TotalSeconds float64                `json:"total_seconds"`
	TotalMinutes float64                `json:"total_minutes"`
}

// StageService records timestamped fulfillment stages per sale and derives
// the current state and inter-stage durations. Guards per event:
//   - a stage is recorded at most once per sale (backed by a unique index,
//     so concurrent submissions race safely),
//   - paid and canceled exclude each other permanently,
//   - delivery stages require a delivery-capable channel,
//   - only the sale's registrant may record.
type StageService interface {
	RecordStage(userID, saleID uint, stage models.Stage, at *time.Time) (*models.SaleStageEvent, error)
	ListStages(userID, saleID uint) ([]models.SaleStageEvent, error)
	CurrentState(userID, saleID uint) (models.Stage, *models.SaleStageEvent, error)
	Durations(userID, saleID uint) (*DurationsReport, error)
}

type stageService struct {
	db               *gorm.DB
	deliveryChannels map[models.Channel]bool
}

// NewStageService creates a new instance of StageService. A nil or empty
// channel set falls back to the default delivery-capable channels.
func NewStageService(db *gorm.DB, deliveryChannels []models.Channel) StageService {
	if len(deliveryChannels) == 0 {
		deliveryChannels = models.DefaultDeliveryChannels
	}
	set := make(map[models.Channel]bool, len(deliveryChannels))
	for _, c := range deliveryChannels {
		set[c] = true
	}
	return &stageService{db: db, deliveryChannels: set}
}

// loadSaleForUser fetches a sale visible to the user: the registrant or an
// owner of the sale's pizzeria. Anything else reads as not found.
func (s *stageService) loadSaleForUser(tx *gorm.DB, userID, saleID uint) (*models.Sale, error) {
	var sale models.Sale
	err := tx.First(&sale, saleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFound("sale")
	}
	if err != nil {
		return nil, err
	}
	if sale.UserID == userID {
		return &sale, nil
	}
	if err := requireOwnership(tx, userID, sale.PizzeriaID); err != nil {
		return nil, models.NewNotFound("sale")
	}
	return &sale, nil
}

func (s *stageService) RecordStage(userID, saleID uint, stage models.Stage, at *time.Time) (*models.SaleStageEvent, error) {
	if !stage.Valid() {
		return nil, models.NewFieldError("stage", fmt.Sprintf("unknown stage %q", stage))
	}

	var event models.SaleStageEvent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sale models.Sale
		err := tx.First(&sale, saleID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFound("sale")
		}
		if err != nil {
			return err
		}
		if sale.UserID != userID {
			return models.NewPermissionDenied("only the sale's registrant may record stages")
		}

		if stage.DeliveryOnly() && !s.deliveryChannels[sale.Channel] {
			return models.NewFieldError("stage",
				fmt.Sprintf("stage %q requires a delivery channel, sale uses %q", stage, sale.Channel))
		}

		// Paid and canceled are mutually exclusive terminal markers:
		// whichever lands first blocks the other for good.
		if stage == models.StagePaid || stage == models.StageCanceled {
			opposite := models.StageCanceled
			if stage == models.StageCanceled {
				opposite = models.StagePaid
			}
			var count int64
			if err := tx.Model(&models.SaleStageEvent{}).
				Where("sale_id = ? AND stage = ?", saleID, opposite).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return models.NewFieldError("stage",
					fmt.Sprintf("stage %q conflicts with already recorded %q", stage, opposite))
			}
		}

		var dup int64
		if err := tx.Model(&models.SaleStageEvent{}).
			Where("sale_id = ? AND stage = ?", saleID, stage).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return models.NewFieldError("stage", "stage already recorded")
		}

		ts := time.Now()
		if at != nil {
			ts = *at
		}
		event = models.SaleStageEvent{SaleID: saleID, Stage: stage, Timestamp: ts}
		if err := tx.Create(&event).Error; err != nil {
			// The unique index on (sale_id, stage) closes the race the
			// pre-check above cannot: a concurrent insert loses here.
			if isDuplicateKey(err) {
				return models.NewFieldError("stage", "stage already recorded")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"sale": saleID, "stage": stage}).Info("Stage recorded")
	return &event, nil
}

// isDuplicateKey recognizes unique-constraint violations across the sqlite
// and postgres drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func (s *stageService) ListStages(userID, saleID uint) ([]models.SaleStageEvent, error) {
	if _, err := s.loadSaleForUser(s.db, userID, saleID); err != nil {
		return nil, err
	}
	var events []models.SaleStageEvent
	err := s.db.Where("sale_id = ?", saleID).Order("timestamp asc").Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (s *stageService) CurrentState(userID, saleID uint) (models.Stage, *models.SaleStageEvent, error) {
	if _, err := s.loadSaleForUser(s.db, userID, saleID); err != nil {
		return "", nil, err
	}
	var event models.SaleStageEvent
	err := s.db.Where("sale_id = ?", saleID).Order("timestamp desc").First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.StageNone, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	return event.Stage, &event, nil
}

func (s *stageService) Durations(userID, saleID uint) (*DurationsReport, error) {
	events, err := s.ListStages(userID, saleID)
	if err != nil {
		return nil, err
	}

	report := &DurationsReport{Segments: []models.StageDuration{}}
	if len(events) < 2 {
		return report, nil
	}

	for i := 1; i < len(events); i++ {
		from, to := events[i-1], events[i]
		elapsed := to.Timestamp.Sub(from.Timestamp)
		report.Segments = append(report.Segments, models.StageDuration{
			FromStage: from.Stage,
			ToStage:   to.Stage,
			Seconds:   elapsed.Seconds(),
			Minutes:   elapsed.Minutes(),
			FromTime:  from.Timestamp,
			ToTime:    to.Timestamp,
		})
	}

	total := events[len(events)-1].Timestamp.Sub(events[0].Timestamp)
	report.TotalSeconds = total.Seconds()
	report.TotalMinutes = total.Minutes()
	return report, nil
}
