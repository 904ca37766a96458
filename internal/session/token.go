package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/tuiter-stars/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

// Tokens issues and verifies HS256 bearer tokens carrying the profile
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a Tokens
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for user
func (t *Tokens) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse verifies tokenString and returns the profile it carries
func (t *Tokens) Parse(tokenString string) (*models.Profile, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return &models.Profile{ID: claims.UserID, Username: claims.Username}, nil
}
