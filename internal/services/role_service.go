package services

import (
	"errors"
	"fmt"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RoleService resolves permission levels per pizzeria and enforces the role
// hierarchy for user creation and role assignment. Per-pizzeria role rows are
// the source of truth; the global profile label is a cached projection kept
// in sync inside the same transaction as every assignment change.
type RoleService interface {
	// ResolveRole returns the user's role in the pizzeria, or empty string
	// when no role is assigned. Absence of a role is not an error.
	ResolveRole(userID, pizzeriaID uint) (models.Role, error)
	// RequireOwnership fails unless an owner assignment binds the user to
	// the pizzeria. Scope failures surface as not-found so callers outside
	// a pizzeria cannot probe for its existence.
	RequireOwnership(userID, pizzeriaID uint) error
	// AssignRole creates or updates the target user's role in a pizzeria,
	// subject to the principal's grantable-roles entitlement.
	AssignRole(principalID, pizzeriaID, targetUserID uint, role models.Role) (*models.UserPizzeriaRole, error)
	// RemoveRole deletes the target user's role in a pizzeria and recomputes
	// the target's global profile label.
	RemoveRole(principalID, pizzeriaID, targetUserID uint) error
	// CreateEmployee creates a new user account bound to the pizzeria with
	// the granted role, subject to the principal's entitlement.
	CreateEmployee(principalID, pizzeriaID uint, username, email, password string, role models.Role) (*models.User, error)
}

type roleService struct {
	db *gorm.DB
}

// NewRoleService creates a new instance of RoleService
func NewRoleService(db *gorm.DB) RoleService {
	return &roleService{db: db}
}

func (s *roleService) ResolveRole(userID, pizzeriaID uint) (models.Role, error) {
	return resolveRole(s.db, userID, pizzeriaID)
}

// resolveRole is the transaction-friendly form of ResolveRole. Owner
// assignments count as the owner role when no explicit role row exists.
func resolveRole(tx *gorm.DB, userID, pizzeriaID uint) (models.Role, error) {
	var assignment models.UserPizzeriaRole
	err := tx.Where("user_id = ? AND pizzeria_id = ?", userID, pizzeriaID).First(&assignment).Error
	if err == nil {
		return assignment.Role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var owner models.OwnerAssignment
	err = tx.Where("user_id = ? AND pizzeria_id = ?", userID, pizzeriaID).First(&owner).Error
	if err == nil {
		return models.RoleOwner, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return "", err
}

func (s *roleService) RequireOwnership(userID, pizzeriaID uint) error {
	return requireOwnership(s.db, userID, pizzeriaID)
}

func requireOwnership(tx *gorm.DB, userID, pizzeriaID uint) error {
	var owner models.OwnerAssignment
	err := tx.Where("user_id = ? AND pizzeria_id = ?", userID, pizzeriaID).First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFound("pizzeria")
	}
	return err
}

// grantingRole returns the role the principal acts with when granting roles
// in a pizzeria: a global admin profile wins, otherwise the per-pizzeria
// resolved role.
func (s *roleService) grantingRole(tx *gorm.DB, principalID, pizzeriaID uint) (models.Role, error) {
	var profile models.UserProfile
	err := tx.Where("user_id = ?", principalID).First(&profile).Error
	if err == nil && profile.Role == models.RoleAdmin {
		return models.RoleAdmin, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return resolveRole(tx, principalID, pizzeriaID)
}

// checkGrant validates that granter may hand out target, returning a
// permission error that lists the allowed target roles.
func checkGrant(granter, target models.Role) error {
	if granter.CanGrant(target) {
		return nil
	}
	allowed := models.GrantableRoles[granter]
	if len(allowed) == 0 {
		return models.NewPermissionDenied(fmt.Sprintf("role %q may not create or edit users", granter))
	}
	return models.NewPermissionDenied(fmt.Sprintf("role %q may only grant: %v", granter, allowed))
}

func (s *roleService) AssignRole(principalID, pizzeriaID, targetUserID uint, role models.Role) (*models.UserPizzeriaRole, error) {
	if !role.Valid() {
		return nil, models.NewFieldError("role", fmt.Sprintf("unknown role %q", role))
	}

	var assignment *models.UserPizzeriaRole
	err := s.db.Transaction(func(tx *gorm.DB) error {
		granter, err := s.grantingRole(tx, principalID, pizzeriaID)
		if err != nil {
			return err
		}
		if granter == "" {
			return models.NewNotFound("pizzeria")
		}
		if err := checkGrant(granter, role); err != nil {
			return err
		}

		var existing models.UserPizzeriaRole
		err = tx.Where("user_id = ? AND pizzeria_id = ?", targetUserID, pizzeriaID).First(&existing).Error
		switch {
		case err == nil:
			existing.Role = role
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			assignment = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			created := models.UserPizzeriaRole{UserID: targetUserID, PizzeriaID: pizzeriaID, Role: role}
			if err := tx.Create(&created).Error; err != nil {
				return err
			}
			assignment = &created
		default:
			return err
		}

		return syncProfileRole(tx, targetUserID)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"principal": principalID,
		"user":      targetUserID,
		"pizzeria":  pizzeriaID,
		"role":      role,
	}).Info("Role assigned")
	return assignment, nil
}

func (s *roleService) RemoveRole(principalID, pizzeriaID, targetUserID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		granter, err := s.grantingRole(tx, principalID, pizzeriaID)
		if err != nil {
			return err
		}
		if granter == "" {
			return models.NewNotFound("pizzeria")
		}

		var existing models.UserPizzeriaRole
		err = tx.Where("user_id = ? AND pizzeria_id = ?", targetUserID, pizzeriaID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFound("role assignment")
		}
		if err != nil {
			return err
		}
		if err := checkGrant(granter, existing.Role); err != nil {
			return err
		}
		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}

		return syncProfileRole(tx, targetUserID)
	})
}

func (s *roleService) CreateEmployee(principalID, pizzeriaID uint, username, email, password string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, models.NewFieldError("role", fmt.Sprintf("unknown role %q", role))
	}
	if username == "" {
		return nil, models.NewFieldError("username", "username is required")
	}

	user := &models.User{Username: username, Email: email, Password: password}
	if err := user.HashPassword(); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		granter, err := s.grantingRole(tx, principalID, pizzeriaID)
		if err != nil {
			return err
		}
		if granter == "" {
			return models.NewNotFound("pizzeria")
		}
		if err := checkGrant(granter, role); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return models.NewFieldError("username", fmt.Sprintf("username %q already exists", username))
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}
		assignment := models.UserPizzeriaRole{UserID: user.ID, PizzeriaID: pizzeriaID, Role: role}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}
		return syncProfileRole(tx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"principal": principalID,
		"pizzeria":  pizzeriaID,
		"username":  username,
		"role":      role,
	}).Info("Employee account created")
	return user, nil
}

// syncProfileRole recomputes the user's global profile label from the
// remaining role assignments: the lowest-id assignment wins, and a user with
// no assignments falls back to the neutral employee label. Runs inside the
// caller's transaction so a failed sync rolls the assignment change back.
func syncProfileRole(tx *gorm.DB, userID uint) error {
	role := models.RoleEmployee
	var first models.UserPizzeriaRole
	err := tx.Where("user_id = ?", userID).Order("id asc").First(&first).Error
	if err == nil {
		role = first.Role
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var profile models.UserProfile
	err = tx.Where("user_id = ?", userID).First(&profile).Error
	switch {
	case err == nil:
		profile.Role = role
		return tx.Save(&profile).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(&models.UserProfile{UserID: userID, Role: role}).Error
	default:
		return err
	}
}
