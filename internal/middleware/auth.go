// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"strings"

	apperrors "goldnest/internal/errors"
	"goldnest/internal/logging"
	"goldnest/internal/services/auth"
	"goldnest/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const bearerPrefix = "Bearer "

// AuthMiddleware validates bearer tokens and stores the account claims in the
// request context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Handler rejects the request with 401 when the token is missing, malformed,
// expired or issued before the last password reset, and with 404 when the
// account no longer exists.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return utils.Error(c, apperrors.ErrMissingToken, "Not authorized")
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	if tokenString == "" {
		return utils.Error(c, apperrors.ErrMissingToken, "Not authorized")
	}

	claims, err := m.authService.VerifyToken(c.UserContext(), tokenString)
	if err != nil {
		if de, ok := apperrors.As(err); ok && de.Kind != apperrors.KindInternal {
			logging.Log.WithField("code", de.Code).Debug("bearer token rejected")
		}
		return utils.Error(c, err, "Not authorized, token failed")
	}

	c.Locals("claims", claims)
	c.Locals("accountID", claims.AccountID)
	return c.Next()
}
