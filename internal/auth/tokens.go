package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// TokenPair is an access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenIssuer generates JWT access/refresh pairs with custom claims
// including the user id and the user's global role label.
type TokenIssuer struct {
	SignedKey    []byte
	SignedMethod jwt.SigningMethod
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	DB           *gorm.DB // fetches the profile role at issuance time
}

// NewTokenIssuer creates a new token issuer signing with HS256.
func NewTokenIssuer(key []byte, accessTTL time.Duration, db *gorm.DB) *TokenIssuer {
	return &TokenIssuer{
		SignedKey:    key,
		SignedMethod: jwt.SigningMethodHS256,
		AccessTTL:    accessTTL,
		RefreshTTL:   7 * 24 * time.Hour,
		DB:           db,
	}
}

// Issue generates a token pair for the user. The role claim is read from the
// user's profile at issuance time so a stale client cannot keep an escalated
// role after reassignment.
func (g *TokenIssuer) Issue(userID uint) (*TokenPair, error) {
	role, err := g.getProfileRole(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"uid":  float64(userID),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(g.AccessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(g.SignedMethod, claims).SignedString(g.SignedKey)
	if err != nil {
		return nil, err
	}

	refreshClaims := jwt.MapClaims{
		"uid": float64(userID),
		"typ": "refresh",
		"iat": now.Unix(),
		"exp": now.Add(g.RefreshTTL).Unix(),
	}
	refresh, err := jwt.NewWithClaims(g.SignedMethod, refreshClaims).SignedString(g.SignedKey)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(g.AccessTTL.Seconds()),
	}, nil
}

// Refresh validates a refresh token and issues a fresh pair.
func (g *TokenIssuer) Refresh(refreshToken string) (*TokenPair, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v. Expected HMAC", token.Header["alg"])
		}
		return g.SignedKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid refresh token claims")
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return nil, errors.New("token is not a refresh token")
	}
	uid, ok := claims["uid"].(float64)
	if !ok || uid <= 0 {
		return nil, errors.New("refresh token missing uid claim")
	}

	return g.Issue(uint(uid))
}

// getProfileRole fetches the user's global role label, falling back to the
// neutral employee label when no profile row exists yet.
func (g *TokenIssuer) getProfileRole(userID uint) (models.Role, error) {
	var profile models.UserProfile
	err := g.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RoleEmployee, nil
	}
	if err != nil {
		return "", fmt.Errorf("database error: %w", err)
	}
	return profile.Role, nil
}
