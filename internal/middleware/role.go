package middleware

import (
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/services"
	"github.com/gin-gonic/gin"
)

// safeMethods are the HTTP-safe methods a plain employee may use on
// pizzeria-scoped resources.
var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// EmployeeReadOnly restricts plain employees to read-only access on routes
// carrying a :pizzeria_id parameter. Any authenticated principal may read;
// writes require a resolvable non-employee role in that pizzeria. The
// fine-grained ownership checks stay in the services.
func EmployeeReadOnly(roles services.RoleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if safeMethods[c.Request.Method] {
			c.Next()
			return
		}

		userID, ok := CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		pizzeriaParam := c.Param("pizzeria_id")
		if pizzeriaParam == "" {
			// No pizzeria in the URL: deny writes outright rather than guess.
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}
		pizzeriaID, err := strconv.ParseUint(pizzeriaParam, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pizzeria ID format"})
			c.Abort()
			return
		}

		role, err := roles.ResolveRole(userID, uint(pizzeriaID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
			c.Abort()
			return
		}
		if role == models.RoleEmployee {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Employees have read-only access to this pizzeria",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
