package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var jwtSecret []byte

// SetJWTSecret configures the secret used to validate bearer tokens.
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// RequestID attaches a UUID to every request, echoing it in the X-Request-ID
// header and on the request's log entries.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("requestID", id)
		c.Header("X-Request-ID", id)
		log.WithFields(log.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		}).Debug("Request received")
		c.Next()
	}
}

// JWTAuth validates the Bearer JWT on the request and loads the principal's
// user id and global role label into the Gin context. Tokens follow RFC 6750
// for transport and RFC 7519 for claims.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondWithAuthError(c, http.StatusUnauthorized, "authorization_required",
				"Missing Authorization header. A valid Bearer token is required.")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondWithAuthError(c, http.StatusUnauthorized, "invalid_request",
				"Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			respondWithAuthError(c, http.StatusUnauthorized, "invalid_token",
				"Bearer token is empty")
			return
		}

		claims, err := parseAndValidateJWT(tokenString, jwtSecret)
		if err != nil {
			respondWithAuthError(c, http.StatusUnauthorized, "invalid_token", err.Error())
			return
		}

		if err := extractAndSetClaims(c, claims); err != nil {
			respondWithAuthError(c, http.StatusUnauthorized, "invalid_token", err.Error())
			return
		}

		c.Next()
	}
}

// respondWithAuthError responds with RFC 6750 compliant error format
func respondWithAuthError(c *gin.Context, status int, errorCode, description string) {
	c.JSON(status, gin.H{
		"error":             errorCode,
		"error_description": description,
	})
	c.Abort()
}

// parseJWTToken validates and parses a JWT token using HMAC signing method
func parseJWTToken(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method to prevent algorithm confusion attacks
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v. Expected HMAC", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims format")
	}
	return claims, nil
}

// parseAndValidateJWT parses the JWT and performs strict validation of the
// exp, nbf and iat claims.
func parseAndValidateJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	claims, err := parseJWTToken(tokenString, secret)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil && exp.Before(now) {
		return nil, fmt.Errorf("token has expired")
	}

	nbf, err := claims.GetNotBefore()
	if err != nil {
		return nil, fmt.Errorf("invalid nbf claim: %w", err)
	}
	if nbf != nil && nbf.After(now) {
		return nil, fmt.Errorf("token not yet valid")
	}

	iat, err := claims.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("invalid iat claim: %w", err)
	}
	if iat != nil && iat.After(now) {
		return nil, fmt.Errorf("token issued in the future")
	}

	return claims, nil
}

// extractAndSetClaims loads the principal's identity into the Gin context.
// The role claim is the cached global label only; pizzeria-scoped decisions
// always re-resolve the per-pizzeria role from storage.
func extractAndSetClaims(c *gin.Context, claims jwt.MapClaims) error {
	userID, err := extractUserID(claims)
	if err != nil {
		return err
	}
	if userID == 0 {
		return fmt.Errorf("invalid user identifier: cannot be zero")
	}
	c.Set("userID", userID)

	role, err := extractRole(claims)
	if err != nil {
		return err
	}
	c.Set("userRole", role)

	return nil
}

// extractUserID extracts and validates the user ID from the "uid" claim.
func extractUserID(claims jwt.MapClaims) (uint, error) {
	if uid, ok := claims["uid"].(float64); ok {
		if uid <= 0 {
			return 0, fmt.Errorf("invalid uid claim: must be positive, got: %f", uid)
		}
		return uint(uid), nil
	}
	return 0, fmt.Errorf("token missing required 'uid' claim. This token is not valid for this API")
}

// extractRole extracts and validates the global role label from JWT claims.
func extractRole(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", fmt.Errorf("token missing required 'role' claim. Tokens must explicitly specify user roles")
	}
	if !models.Role(role).Valid() {
		return "", fmt.Errorf("invalid role %q", role)
	}
	return role, nil
}

// CurrentUserID returns the authenticated principal's id from the context.
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
