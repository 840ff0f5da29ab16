package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/services"
	"github.com/gin-gonic/gin"
)

// SaleController handles HTTP requests related to sales of a pizzeria
type SaleController interface {
	ListSales(c *gin.Context)
	GetSale(c *gin.Context)
	CreateSale(c *gin.Context)
	UpdateSale(c *gin.Context)
	DeleteSale(c *gin.Context)
}

type saleController struct {
	service services.SaleService
}

// NewSaleController creates a new instance of SaleController
func NewSaleController(service services.SaleService) SaleController {
	return &saleController{service: service}
}

// ListSales godoc
// @Summary List sales of a pizzeria
// @Description List sales newest-first with their line items
// @Tags sales
// @Produce json
// @Param pizzeria_id path int true "Pizzeria ID"
// @Success 200 {array} models.Sale
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/ventas/ [get]
func (sc *saleController) ListSales(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}
	sales, err := sc.service.ListSales(userID, pizzeriaID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sales)
}

// GetSale godoc
// @Summary Get a sale
// @Tags sales
// @Produce json
// @Param pizzeria_id path int true "Pizzeria ID"
// @Param venta_id path int true "Sale ID"
// @Success 200 {object} models.Sale
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/ventas/{venta_id} [get]
func (sc *saleController) GetSale(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}
	saleID, ok := paramID(ctx, "venta_id")
	if !ok {
		return
	}
	sale, err := sc.service.GetSale(userID, pizzeriaID, saleID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

// CreateSale godoc
// @Summary Record a sale
// @Description Record a sale with its line items; the total is always computed server-side and an order-taking-start stage event is emitted automatically
// @Tags sales
// @Accept json
// @Produce json
// @Param pizzeria_id path int true "Pizzeria ID"
// @Success 201 {object} models.Sale
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/ventas/ [post]
func (sc *saleController) CreateSale(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}

	var in services.CreateSaleInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	// The HTTP surface always requires items; only programmatic callers may
	// open an empty sale for immediate stage tracking.
	in.AllowEmpty = false

	sale, err := sc.service.CreateSale(userID, pizzeriaID, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, sale)
}

// UpdateSale godoc
// @Summary Update a sale
// @Description Replace the sale's items and recompute the total; rejected once fulfillment has progressed past order intake
// @Tags sales
// @Accept json
// @Produce json
// @Param pizzeria_id path int true "Pizzeria ID"
// @Param venta_id path int true "Sale ID"
// @Success 200 {object} models.Sale
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/ventas/{venta_id} [put]
func (sc *saleController) UpdateSale(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}
	saleID, ok := paramID(ctx, "venta_id")
	if !ok {
		return
	}

	var in services.UpdateSaleInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sale, err := sc.service.UpdateSale(userID, pizzeriaID, saleID, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

// DeleteSale godoc
// @Summary Delete a sale
// @Description Delete a sale with its line items and stage events
// @Tags sales
// @Param pizzeria_id path int true "Pizzeria ID"
// @Param venta_id path int true "Sale ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/ventas/{venta_id} [delete]
func (sc *saleController) DeleteSale(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}
	saleID, ok := paramID(ctx, "venta_id")
	if !ok {
		return
	}
	if err := sc.service.DeleteSale(userID, pizzeriaID, saleID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
