package utils

import (
	"errors"
	"time"

	"goldnest/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig holds the signing parameters for bearer tokens.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// GenerateToken signs an HS256 token for the account, valid for cfg.TTL from now.
func GenerateToken(cfg TokenConfig, account *models.Account, now time.Time) (string, error) {
	if cfg.Secret == "" {
		return "", errors.New("JWT secret not configured")
	}

	claims := models.AccountClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
			Subject:   account.ID,
		},
		AccountID:    account.ID,
		Email:        account.Email,
		TokenVersion: account.TokenVersion,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ParseToken parses and validates a JWT token string.
// It returns the claims if valid, or an error if something is wrong.
func ParseToken(cfg TokenConfig, tokenStr string, now time.Time) (*models.AccountClaims, error) {
	if cfg.Secret == "" {
		return nil, errors.New("JWT secret not configured")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.AccountClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithTimeFunc(func() time.Time { return now }), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.AccountClaims)
	if !ok || !token.Valid || claims.AccountID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
