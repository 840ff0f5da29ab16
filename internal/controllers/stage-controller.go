package controllers

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/services"
	"github.com/gin-gonic/gin"
)

// StageController handles HTTP requests related to sale fulfillment stages
type StageController interface {
	// RecordStage records a fulfillment stage for a sale
	RecordStage(c *gin.Context)
	// ListStages lists a sale's stage events ordered by timestamp
	ListStages(c *gin.Context)
	// Durations returns the inter-stage timing breakdown of a sale
	Durations(c *gin.Context)
	// CurrentState returns the sale's latest stage or the no-stages sentinel
	CurrentState(c *gin.Context)
}

type stageController struct {
	service services.StageService
}

// NewStageController creates a new instance of StageController
func NewStageController(service services.StageService) StageController {
	return &stageController{service: service}
}

// RecordStage godoc
// @Summary Record a fulfillment stage
// @Description Record a stage for a sale; each stage may be recorded once, paid and canceled exclude each other, and delivery stages require a delivery-capable channel
// @Tags stages
// @Accept json
// @Produce json
// @Success 201 {object} models.SaleStageEvent
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/ventas/etapas/ [post]
func (tc *stageController) RecordStage(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req struct {
		SaleID    uint         `json:"venta" binding:"required"`
		Stage     models.Stage `json:"etapa" binding:"required"`
		Timestamp *time.Time   `json:"timestamp"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	event, err := tc.service.RecordStage(userID, req.SaleID, req.Stage, req.Timestamp)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, event)
}

// ListStages godoc
// @Summary List a sale's stage events
// @Tags stages
// @Produce json
// @Param venta_id path int true "Sale ID"
// @Success 200 {array} models.SaleStageEvent
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/ventas/{venta_id}/etapas/ [get]
func (tc *stageController) ListStages(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	saleID, ok := paramID(ctx, "venta_id")
	if !ok {
		return
	}
	events, err := tc.service.ListStages(userID, saleID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, events)
}

// Durations godoc
// @Summary Inter-stage durations
// @Description Durations between chronologically adjacent stage events plus the first-to-last elapsed time
// @Tags stages
// @Produce json
// @Param venta_id path int true "Sale ID"
// @Success 200 {object} services.DurationsReport
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/ventas/{venta_id}/etapas/tiempos/ [get]
func (tc *stageController) Durations(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	saleID, ok := paramID(ctx, "venta_id")
	if !ok {
		return
	}
	report, err := tc.service.Durations(userID, saleID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// CurrentState godoc
// @Summary Current fulfillment state
// @Tags stages
// @Produce json
// @Param venta_id path int true "Sale ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/ventas/{venta_id}/estado/ [get]
func (tc *stageController) CurrentState(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	saleID, ok := paramID(ctx, "venta_id")
	if !ok {
		return
	}
	state, event, err := tc.service.CurrentState(userID, saleID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if event == nil {
		ctx.JSON(http.StatusOK, gin.H{"estado": state})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"estado": state, "timestamp": event.Timestamp})
}
