package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/services"
	"github.com/gin-gonic/gin"
)

// UserController handles the current-user endpoint and role management
// within a pizzeria.
type UserController interface {
	// CurrentUser returns minimal info about the authenticated principal
	CurrentUser(c *gin.Context)
	// CreateEmployee creates a user account bound to a pizzeria with a role
	CreateEmployee(c *gin.Context)
	// AssignRole creates or updates an existing user's role in a pizzeria
	AssignRole(c *gin.Context)
	// RemoveRole removes a user's role from a pizzeria
	RemoveRole(c *gin.Context)
}

type userController struct {
	users services.UserService
	roles services.RoleService
}

// NewUserController creates a new instance of UserController
func NewUserController(users services.UserService, roles services.RoleService) UserController {
	return &userController{users: users, roles: roles}
}

// CurrentUser godoc
// @Summary Current user
// @Description Minimal information about the caller
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/user/ [get]
func (uc *userController) CurrentUser(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	user, err := uc.users.GetUserByID(userID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// CreateEmployee godoc
// @Summary Create an employee account
// @Description Create a user bound to the pizzeria with the granted role, subject to the caller's role hierarchy entitlement
// @Tags users
// @Accept json
// @Produce json
// @Param pizzeria_id path int true "Pizzeria ID"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/empleados/ [post]
func (uc *userController) CreateEmployee(ctx *gin.Context) {
	principalID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}

	var req struct {
		Username string      `json:"username" binding:"required"`
		Email    string      `json:"email"`
		Password string      `json:"password" binding:"required,min=6"`
		Role     models.Role `json:"role" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := uc.roles.CreateEmployee(principalID, pizzeriaID, req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     req.Role,
	})
}

// AssignRole godoc
// @Summary Assign a role
// @Description Create or update a user's role in the pizzeria, subject to the caller's entitlement
// @Tags users
// @Accept json
// @Produce json
// @Param pizzeria_id path int true "Pizzeria ID"
// @Success 200 {object} models.UserPizzeriaRole
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/roles/ [post]
func (uc *userController) AssignRole(ctx *gin.Context) {
	principalID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}

	var req struct {
		UserID uint        `json:"user_id" binding:"required"`
		Role   models.Role `json:"role" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	assignment, err := uc.roles.AssignRole(principalID, pizzeriaID, req.UserID, req.Role)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, assignment)
}

// RemoveRole godoc
// @Summary Remove a role
// @Description Remove a user's role from the pizzeria; the user's global label is recomputed from remaining assignments
// @Tags users
// @Param pizzeria_id path int true "Pizzeria ID"
// @Param user_id path int true "User ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/roles/{user_id} [delete]
func (uc *userController) RemoveRole(ctx *gin.Context) {
	principalID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}
	targetID, ok := paramID(ctx, "user_id")
	if !ok {
		return
	}

	if err := uc.roles.RemoveRole(principalID, pizzeriaID, targetID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
