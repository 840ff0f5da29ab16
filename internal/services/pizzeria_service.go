package services

import (
	"errors"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PizzeriaService provides ownership-scoped access to pizzerias. The creator
// of a pizzeria becomes its first owner; deleting one removes its products,
// sales, stage events and role assignments in a single transaction.
type PizzeriaService interface {
	// CreatePizzeria creates a pizzeria and assigns ownership to the creator.
	CreatePizzeria(userID uint, pizzeria *models.Pizzeria) error
	// ListPizzerias returns the caller's pizzerias, each annotated with the
	// sum of its sales' totals.
	ListPizzerias(userID uint) ([]models.PizzeriaSummary, error)
	// GetPizzeria returns one pizzeria if the caller owns it.
	GetPizzeria(userID, pizzeriaID uint) (*models.Pizzeria, error)
	// UpdatePizzeria updates name/address/phone of an owned pizzeria.
	UpdatePizzeria(userID uint, pizzeria *models.Pizzeria) error
	// DeletePizzeria removes an owned pizzeria and everything under it.
	DeletePizzeria(userID, pizzeriaID uint) error
}

type pizzeriaService struct {
	db *gorm.DB
}

// NewPizzeriaService creates a new instance of PizzeriaService
func NewPizzeriaService(db *gorm.DB) PizzeriaService {
	return &pizzeriaService{db: db}
}

func (s *pizzeriaService) CreatePizzeria(userID uint, pizzeria *models.Pizzeria) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pizzeria).Error; err != nil {
			return err
		}
		assignment := models.OwnerAssignment{UserID: userID, PizzeriaID: pizzeria.ID}
		return tx.Create(&assignment).Error
	})
}

func (s *pizzeriaService) ListPizzerias(userID uint) ([]models.PizzeriaSummary, error) {
	var pizzerias []models.Pizzeria
	err := s.db.
		Joins("JOIN owner_assignments ON owner_assignments.pizzeria_id = pizzeria.id").
		Where("owner_assignments.user_id = ?", userID).
		Find(&pizzerias).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]models.PizzeriaSummary, 0, len(pizzerias))
	for _, p := range pizzerias {
		var total float64
		err := s.db.Model(&models.Sale{}).
			Where("pizzeria_id = ?", p.ID).
			Select("COALESCE(SUM(total), 0)").
			Scan(&total).Error
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.PizzeriaSummary{Pizzeria: p, TotalSales: total})
	}
	return summaries, nil
}

func (s *pizzeriaService) GetPizzeria(userID, pizzeriaID uint) (*models.Pizzeria, error) {
	if err := requireOwnership(s.db, userID, pizzeriaID); err != nil {
		return nil, err
	}
	var pizzeria models.Pizzeria
	if err := s.db.First(&pizzeria, pizzeriaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound("pizzeria")
		}
		return nil, err
	}
	return &pizzeria, nil
}

func (s *pizzeriaService) UpdatePizzeria(userID uint, pizzeria *models.Pizzeria) error {
	if err := requireOwnership(s.db, userID, pizzeria.ID); err != nil {
		return err
	}
	return s.db.Model(&models.Pizzeria{ID: pizzeria.ID}).
		Updates(map[string]interface{}{
			"name":    pizzeria.Name,
			"address": pizzeria.Address,
			"phone":   pizzeria.Phone,
		}).Error
}

func (s *pizzeriaService) DeletePizzeria(userID, pizzeriaID uint) error {
	if err := requireOwnership(s.db, userID, pizzeriaID); err != nil {
		return err
	}

	// Explicit bottom-up cascade: sqlite does not always enforce FK actions,
	// and the order keeps the protective product relation satisfied.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		saleIDs := tx.Model(&models.Sale{}).Select("id").Where("pizzeria_id = ?", pizzeriaID)
		if err := tx.Where("sale_id IN (?)", saleIDs).Delete(&models.SaleStageEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sale_id IN (?)", saleIDs).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pizzeria_id = ?", pizzeriaID).Delete(&models.Sale{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pizzeria_id = ?", pizzeriaID).Delete(&models.Product{}).Error; err != nil {
			return err
		}

		// Recompute profile labels for users whose assignment disappears.
		var assignments []models.UserPizzeriaRole
		if err := tx.Where("pizzeria_id = ?", pizzeriaID).Find(&assignments).Error; err != nil {
			return err
		}
		if err := tx.Where("pizzeria_id = ?", pizzeriaID).Delete(&models.UserPizzeriaRole{}).Error; err != nil {
			return err
		}
		for _, a := range assignments {
			if err := syncProfileRole(tx, a.UserID); err != nil {
				return err
			}
		}

		if err := tx.Where("pizzeria_id = ?", pizzeriaID).Delete(&models.OwnerAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Pizzeria{}, pizzeriaID).Error
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"pizzeria": pizzeriaID, "user": userID}).Info("Pizzeria deleted")
	return nil
}
