package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/auth"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	userService services.UserService
	issuer      *auth.TokenIssuer
}

func NewAuthController(userService services.UserService, issuer *auth.TokenIssuer) *AuthController {
	return &AuthController{
		userService: userService,
		issuer:      issuer,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Create a user account; the account starts without pizzeria roles
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	if err := user.HashPassword(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password_hashing_failed"})
		return
	}

	if err := ac.userService.CreateUser(user); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user_already_exists"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user_created"})
}

// Login godoc
// @Summary Obtain a token pair
// @Description Exchange username/password for JWT access and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} auth.TokenPair
// @Failure 401 {object} map[string]string
// @Router /api/auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.userService.GetUserByUsername(req.Username)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	pair, err := ac.issuer.Issue(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_generation_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    pair.TokenType,
		"expires_in":    pair.ExpiresIn,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Refresh godoc
// @Summary Refresh a token pair
// @Description Exchange a refresh token for a fresh access/refresh pair
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} auth.TokenPair
// @Failure 401 {object} map[string]string
// @Router /api/auth/refresh [post]
func (ac *AuthController) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := ac.issuer.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_refresh_token"})
		return
	}

	c.JSON(http.StatusOK, pair)
}
