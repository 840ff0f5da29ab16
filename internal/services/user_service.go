package services

import (
	"errors"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"gorm.io/gorm"
)

type UserService interface {
	// CreateUser registers a user and its profile row in one transaction.
	CreateUser(user *models.User) error
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) CreateUser(user *models.User) error {
	var existing models.User
	if err := s.db.Where("username = ?", user.Username).First(&existing).Error; err == nil {
		return errors.New("user_already_exists")
	}

	// The profile is created explicitly alongside the user rather than via a
	// storage hook, so a failure is visible and rolls the user back too.
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserProfile{UserID: user.ID, Role: models.RoleEmployee}).Error
	})
}

func (s *userService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
