package models

import "github.com/golang-jwt/jwt/v5"

// AccountClaims are the bearer token claims.
type AccountClaims struct {
	jwt.RegisteredClaims
	AccountID    string `json:"id"`
	Email        string `json:"email"`
	TokenVersion int    `json:"token_version"`
}
