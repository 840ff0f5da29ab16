package services

import (
	"errors"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"gorm.io/gorm"
)

// ProductService provides pizzeria-scoped product CRUD. Deleting a product
// that has already been sold is rejected with a conflict so line items of
// past sales never dangle.
type ProductService interface {
	CreateProduct(userID uint, product *models.Product) error
	ListProducts(userID, pizzeriaID uint) ([]models.Product, error)
	GetProduct(userID, pizzeriaID, productID uint) (*models.Product, error)
	UpdateProduct(userID uint, product *models.Product) error
	DeleteProduct(userID, pizzeriaID, productID uint) error
}

type productService struct {
	db *gorm.DB
}

// NewProductService creates a new instance of ProductService
func NewProductService(db *gorm.DB) ProductService {
	return &productService{db: db}
}

func (s *productService) CreateProduct(userID uint, product *models.Product) error {
	if err := requireOwnership(s.db, userID, product.PizzeriaID); err != nil {
		return err
	}
	if product.Name == "" {
		return models.NewFieldError("name", "name is required")
	}
	if product.Price < 0 {
		return models.NewFieldError("price", "price must not be negative")
	}
	return s.db.Create(product).Error
}

func (s *productService) ListProducts(userID, pizzeriaID uint) ([]models.Product, error) {
	if err := requireOwnership(s.db, userID, pizzeriaID); err != nil {
		return nil, err
	}
	var products []models.Product
	if err := s.db.Where("pizzeria_id = ?", pizzeriaID).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *productService) GetProduct(userID, pizzeriaID, productID uint) (*models.Product, error) {
	if err := requireOwnership(s.db, userID, pizzeriaID); err != nil {
		return nil, err
	}
	var product models.Product
	err := s.db.Where("pizzeria_id = ?", pizzeriaID).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFound("product")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *productService) UpdateProduct(userID uint, product *models.Product) error {
	existing, err := s.GetProduct(userID, product.PizzeriaID, product.ID)
	if err != nil {
		return err
	}
	if product.Name == "" {
		return models.NewFieldError("name", "name is required")
	}
	if product.Price < 0 {
		return models.NewFieldError("price", "price must not be negative")
	}
	// Deactivation is allowed; it only affects future sales, never past ones.
	return s.db.Model(existing).Updates(map[string]interface{}{
		"name":        product.Name,
		"price":       product.Price,
		"category":    product.Category,
		"description": product.Description,
		"active":      product.Active,
	}).Error
}

func (s *productService) DeleteProduct(userID, pizzeriaID, productID uint) error {
	if _, err := s.GetProduct(userID, pizzeriaID, productID); err != nil {
		return err
	}

	var sold int64
	if err := s.db.Model(&models.SaleItem{}).Where("product_id = ?", productID).Count(&sold).Error; err != nil {
		return err
	}
	if sold > 0 {
		return models.NewConflict("cannot delete a product that has already been sold")
	}
	return s.db.Delete(&models.Product{}, productID).Error
}
