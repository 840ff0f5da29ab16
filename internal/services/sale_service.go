package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SaleItemInput is one requested line of a sale.
type SaleItemInput struct {
	ProductID uint `json:"product" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CreateSaleInput carries everything needed to open a sale. AllowEmpty is a
// programmatic flag for flows that open a sale before its items are known
// (stage tracking starts immediately); the HTTP surface always requires a
// non-empty item set.
type CreateSaleInput struct {
	Channel       models.Channel       `json:"channel" binding:"required"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Items         []SaleItemInput      `json:"items"`
	AllowEmpty    bool                 `json:"-"`
}

// UpdateSaleInput updates a sale still in order intake. A non-nil Items
// slice replaces the line items wholesale and recomputes the total.
type UpdateSaleInput struct {
	Channel       *models.Channel       `json:"channel"`
	PaymentMethod *models.PaymentMethod `json:"payment_method"`
	Items         []SaleItemInput       `json:"items"`
}

// blockingStages are the fulfillment stages after which a sale's items and
// total become immutable.
var blockingStages = []models.Stage{models.StagePrepStart, models.StageDeliveryStart, models.StagePaid}

// SaleService owns the sale aggregate: a sale plus its line items, with the
// total always recomputed from items server-side. Item replacement and total
// recomputation commit in one transaction or not at all.
type SaleService interface {
	CreateSale(userID, pizzeriaID uint, in CreateSaleInput) (*models.Sale, error)
	ListSales(userID, pizzeriaID uint) ([]models.Sale, error)
	GetSale(userID, pizzeriaID, saleID uint) (*models.Sale, error)
	UpdateSale(userID, pizzeriaID, saleID uint, in UpdateSaleInput) (*models.Sale, error)
	DeleteSale(userID, pizzeriaID, saleID uint) error
}

type saleService struct {
	db *gorm.DB
}

// NewSaleService creates a new instance of SaleService
func NewSaleService(db *gorm.DB) SaleService {
	return &saleService{db: db}
}

// requireWriteAccess gates pizzeria-scoped sale writes: the principal needs
// an owner assignment or a delegated non-employee role. No resolvable role
// at all reads as out-of-scope, not forbidden.
func requireWriteAccess(tx *gorm.DB, userID, pizzeriaID uint) error {
	role, err := resolveRole(tx, userID, pizzeriaID)
	if err != nil {
		return err
	}
	if role == "" {
		return models.NewNotFound("pizzeria")
	}
	if role == models.RoleEmployee {
		return models.NewPermissionDenied("employees have read-only access")
	}
	return nil
}

// requireReadAccess admits any principal with a resolvable role in the
// pizzeria, owners included. Everyone else is out of scope.
func requireReadAccess(tx *gorm.DB, userID, pizzeriaID uint) error {
	role, err := resolveRole(tx, userID, pizzeriaID)
	if err != nil {
		return err
	}
	if role == "" {
		return models.NewNotFound("pizzeria")
	}
	return nil
}

// buildItems validates the requested items against active products of the
// pizzeria and returns the line items with the total they sum to. Prices are
// captured from the product at the time of sale.
func buildItems(tx *gorm.DB, pizzeriaID uint, inputs []SaleItemInput) ([]models.SaleItem, float64, error) {
	items := make([]models.SaleItem, 0, len(inputs))
	var total float64
	for _, in := range inputs {
		var product models.Product
		err := tx.Where("pizzeria_id = ?", pizzeriaID).First(&product, in.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, models.NewFieldError("items", fmt.Sprintf("product %d not found", in.ProductID))
		}
		if err != nil {
			return nil, 0, err
		}
		if in.Quantity <= 0 {
			return nil, 0, models.NewFieldError("items",
				fmt.Sprintf("quantity for product %q must be greater than zero", product.Name))
		}
		if !product.Active {
			return nil, 0, models.NewFieldError("items",
				fmt.Sprintf("product %q is not active", product.Name))
		}
		items = append(items, models.SaleItem{
			ProductID: product.ID,
			Quantity:  in.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(in.Quantity)
	}
	return items, total, nil
}

func (s *saleService) CreateSale(userID, pizzeriaID uint, in CreateSaleInput) (*models.Sale, error) {
	if !in.Channel.Valid() {
		return nil, models.NewFieldError("channel", fmt.Sprintf("unknown channel %q", in.Channel))
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentCash
	}
	if !in.PaymentMethod.Valid() {
		return nil, models.NewFieldError("payment_method", fmt.Sprintf("unknown payment method %q", in.PaymentMethod))
	}
	if len(in.Items) == 0 && !in.AllowEmpty {
		return nil, models.NewFieldError("items", "at least one item is required")
	}

	var sale models.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireWriteAccess(tx, userID, pizzeriaID); err != nil {
			return err
		}

		items, total, err := buildItems(tx, pizzeriaID, in.Items)
		if err != nil {
			return err
		}

		now := time.Now()
		sale = models.Sale{
			PizzeriaID:    pizzeriaID,
			UserID:        userID,
			Fecha:         now,
			Channel:       in.Channel,
			PaymentMethod: in.PaymentMethod,
			Total:         total,
			Items:         items,
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		// Stage tracking starts with the sale itself.
		event := models.SaleStageEvent{
			SaleID:    sale.ID,
			Stage:     models.StageOrderTakingStart,
			Timestamp: now,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"sale":     sale.ID,
		"pizzeria": pizzeriaID,
		"total":    sale.Total,
		"channel":  sale.Channel,
	}).Info("Sale recorded")
	return &sale, nil
}

func (s *saleService) ListSales(userID, pizzeriaID uint) ([]models.Sale, error) {
	if err := requireReadAccess(s.db, userID, pizzeriaID); err != nil {
		return nil, err
	}
	var sales []models.Sale
	err := s.db.Preload("Items").
		Where("pizzeria_id = ?", pizzeriaID).
		Order("fecha desc").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *saleService) GetSale(userID, pizzeriaID, saleID uint) (*models.Sale, error) {
	if err := requireReadAccess(s.db, userID, pizzeriaID); err != nil {
		return nil, err
	}
	var sale models.Sale
	err := s.db.Preload("Items").Where("pizzeria_id = ?", pizzeriaID).First(&sale, saleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFound("sale")
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// saleLocked reports whether fulfillment has progressed past order intake.
func saleLocked(tx *gorm.DB, saleID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.SaleStageEvent{}).
		Where("sale_id = ? AND stage IN ?", saleID, blockingStages).
		Count(&count).Error
	return count > 0, err
}

func (s *saleService) UpdateSale(userID, pizzeriaID, saleID uint, in UpdateSaleInput) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireWriteAccess(tx, userID, pizzeriaID); err != nil {
			return err
		}

		err := tx.Where("pizzeria_id = ?", pizzeriaID).First(&sale, saleID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFound("sale")
		}
		if err != nil {
			return err
		}

		locked, err := saleLocked(tx, sale.ID)
		if err != nil {
			return err
		}
		if locked {
			return models.NewValidationError("sale can no longer be edited")
		}

		if in.Channel != nil {
			if !in.Channel.Valid() {
				return models.NewFieldError("channel", fmt.Sprintf("unknown channel %q", *in.Channel))
			}
			sale.Channel = *in.Channel
		}
		if in.PaymentMethod != nil {
			if !in.PaymentMethod.Valid() {
				return models.NewFieldError("payment_method", fmt.Sprintf("unknown payment method %q", *in.PaymentMethod))
			}
			sale.PaymentMethod = *in.PaymentMethod
		}

		if in.Items != nil {
			// Wholesale replacement: drop every line item, recreate from the
			// request, recompute the total. All inside this transaction.
			items, total, err := buildItems(tx, pizzeriaID, in.Items)
			if err != nil {
				return err
			}
			if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
				return err
			}
			for i := range items {
				items[i].SaleID = sale.ID
			}
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return err
				}
			}
			sale.Items = items
			sale.Total = total
		}

		return tx.Model(&models.Sale{}).Where("id = ?", sale.ID).
			Updates(map[string]interface{}{
				"channel":        sale.Channel,
				"payment_method": sale.PaymentMethod,
				"total":          sale.Total,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (s *saleService) DeleteSale(userID, pizzeriaID, saleID uint) error {
	if _, err := s.GetSale(userID, pizzeriaID, saleID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", saleID).Delete(&models.SaleStageEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sale_id = ?", saleID).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Sale{}, saleID).Error
	})
	if err != nil {
		// A protective relation elsewhere blocks the delete; surface it as a
		// conflict instead of a bare storage error.
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return models.NewConflict("sale is referenced and cannot be deleted")
		}
		return err
	}
	return nil
}
