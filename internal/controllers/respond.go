package controllers

import (
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondError maps the domain error taxonomy to HTTP. Validation failures
// and protective-relation conflicts both answer 400 by convention of this
// API; scope failures answer 404 rather than 403.
func respondError(ctx *gin.Context, err error) {
	switch {
	case models.IsValidation(err):
		ve := err.(*models.ValidationError)
		if ve.Field != "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{ve.Field: ve.Message}})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": ve.Message})
	case models.IsConflict(err):
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case models.IsPermissionDenied(err):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case models.IsNotFound(err):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("Unhandled service error")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentUserID pulls the authenticated principal set by the JWT middleware.
func currentUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get("userID")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	id, ok := value.(uint)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return 0, false
	}
	return id, true
}

// paramID parses a numeric path parameter, answering 400 on bad input.
func paramID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}
