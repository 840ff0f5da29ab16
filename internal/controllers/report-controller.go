package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ReportController handles HTTP requests for sales aggregates
type ReportController interface {
	// Summary sums the caller's sales over a named or custom date range
	Summary(c *gin.Context)
	// Timeseries returns zero-filled bucketed series of totals or counts
	Timeseries(c *gin.Context)
}

type reportController struct {
	service services.ReportService
}

// NewReportController creates a new instance of ReportController
func NewReportController(service services.ReportService) ReportController {
	return &reportController{service: service}
}

// Summary godoc
// @Summary Sales summary over a range
// @Description Sum of sale totals over today, yesterday, the Monday-to-Sunday week, or a custom range
// @Tags reports
// @Produce json
// @Param rango query string false "today|yesterday|week|custom"
// @Param inicio query string false "custom range start (YYYY-MM-DD)"
// @Param fin query string false "custom range end (YYYY-MM-DD)"
// @Success 200 {object} services.SummaryReport
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/ventas/resumen/ [get]
func (rc *reportController) Summary(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	report, err := rc.service.Summary(userID,
		ctx.Query("rango"), ctx.Query("inicio"), ctx.Query("fin"))
	if err != nil {
		if models.IsValidation(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// Timeseries godoc
// @Summary Bucketed sales series
// @Description Totals or counts bucketed by weekday, month or year; empty buckets appear as zero
// @Tags reports
// @Produce json
// @Param rango query string false "week|year|5years"
// @Param tipo query string false "total|count"
// @Success 200 {array} services.TimeseriesPoint
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/ventas-por-dia/ [get]
func (rc *reportController) Timeseries(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	points, err := rc.service.Timeseries(userID, ctx.Query("rango"), ctx.Query("tipo"))
	if err != nil {
		if models.IsValidation(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, points)
}
