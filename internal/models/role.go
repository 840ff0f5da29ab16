package models

import "time"

// Role is a permission level a user holds within one pizzeria.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleOwner            Role = "owner"
	RoleManager          Role = "manager"
	RoleAssistantManager Role = "assistant-manager"
	RoleCashier          Role = "cashier"
	RoleEmployee         Role = "employee"
)

var Roles = []Role{RoleAdmin, RoleOwner, RoleManager, RoleAssistantManager, RoleCashier, RoleEmployee}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// GrantableRoles maps each role to the set of roles it may grant when
// creating or editing users in a pizzeria. Roles absent from the table may
// not grant anything.
var GrantableRoles = map[Role][]Role{
	RoleAdmin:            {RoleAdmin, RoleOwner, RoleManager, RoleAssistantManager, RoleEmployee, RoleCashier},
	RoleOwner:            {RoleManager, RoleAssistantManager, RoleEmployee, RoleCashier},
	RoleManager:          {RoleAssistantManager, RoleEmployee, RoleCashier},
	RoleAssistantManager: {RoleEmployee, RoleCashier},
}

// CanGrant reports whether r may grant target per the hierarchy table.
func (r Role) CanGrant(target Role) bool {
	for _, g := range GrantableRoles[r] {
		if g == target {
			return true
		}
	}
	return false
}

// UserPizzeriaRole binds a user to exactly one role per pizzeria. The
// composite unique index backs the one-role-per-pizzeria rule at the
// database level.
type UserPizzeriaRole struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	UserID     uint     `gorm:"not null;uniqueIndex:idx_user_pizzeria_role" json:"user_id"`
	User       User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PizzeriaID uint     `gorm:"not null;uniqueIndex:idx_user_pizzeria_role" json:"pizzeria_id"`
	Pizzeria   Pizzeria `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Role       Role     `gorm:"not null" json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
