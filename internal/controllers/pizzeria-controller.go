package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/services"
	"github.com/gin-gonic/gin"
)

// PizzeriaController handles HTTP requests related to pizzerias
type PizzeriaController interface {
	// ListPizzerias lists the caller's pizzerias with sales totals
	ListPizzerias(c *gin.Context)
	// GetPizzeria retrieves one owned pizzeria
	GetPizzeria(c *gin.Context)
	// CreatePizzeria creates a pizzeria owned by the caller
	CreatePizzeria(c *gin.Context)
	// UpdatePizzeria updates an owned pizzeria
	UpdatePizzeria(c *gin.Context)
	// DeletePizzeria deletes an owned pizzeria and everything under it
	DeletePizzeria(c *gin.Context)
}

type pizzeriaController struct {
	service services.PizzeriaService
}

// NewPizzeriaController creates a new instance of PizzeriaController
func NewPizzeriaController(service services.PizzeriaService) PizzeriaController {
	return &pizzeriaController{service: service}
}

type pizzeriaRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// ListPizzerias godoc
// @Summary List pizzerias
// @Description List the caller's pizzerias, each annotated with total_sales
// @Tags pizzerias
// @Produce json
// @Success 200 {array} models.PizzeriaSummary
// @Security BearerAuth
// @Router /api/pizzerias/ [get]
func (pc *pizzeriaController) ListPizzerias(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	summaries, err := pc.service.ListPizzerias(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summaries)
}

// GetPizzeria godoc
// @Summary Get a pizzeria
// @Tags pizzerias
// @Produce json
// @Param pizzeria_id path int true "Pizzeria ID"
// @Success 200 {object} models.Pizzeria
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/ [get]
func (pc *pizzeriaController) GetPizzeria(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}
	pizzeria, err := pc.service.GetPizzeria(userID, pizzeriaID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, pizzeria)
}

// CreatePizzeria godoc
// @Summary Create a pizzeria
// @Description Create a pizzeria; the caller becomes its first owner
// @Tags pizzerias
// @Accept json
// @Produce json
// @Success 201 {object} models.PizzeriaSummary
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/ [post]
func (pc *pizzeriaController) CreatePizzeria(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req pizzeriaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	pizzeria := models.Pizzeria{Name: req.Name, Address: req.Address, Phone: req.Phone}
	if err := pc.service.CreatePizzeria(userID, &pizzeria); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, models.PizzeriaSummary{Pizzeria: pizzeria, TotalSales: 0})
}

// UpdatePizzeria godoc
// @Summary Update a pizzeria
// @Tags pizzerias
// @Accept json
// @Produce json
// @Param pizzeria_id path int true "Pizzeria ID"
// @Success 200 {object} models.Pizzeria
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/ [put]
func (pc *pizzeriaController) UpdatePizzeria(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}

	var req pizzeriaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	pizzeria := models.Pizzeria{ID: pizzeriaID, Name: req.Name, Address: req.Address, Phone: req.Phone}
	if err := pc.service.UpdatePizzeria(userID, &pizzeria); err != nil {
		respondError(ctx, err)
		return
	}
	updated, err := pc.service.GetPizzeria(userID, pizzeriaID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// DeletePizzeria godoc
// @Summary Delete a pizzeria
// @Description Delete a pizzeria, cascading to products, sales and role assignments
// @Tags pizzerias
// @Param pizzeria_id path int true "Pizzeria ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/ [delete]
func (pc *pizzeriaController) DeletePizzeria(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}
	if err := pc.service.DeletePizzeria(userID, pizzeriaID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
