package handlers

import (
	"errors"

	apperrors "goldnest/internal/errors"
	"goldnest/internal/logging"
	"goldnest/internal/models"
	"goldnest/internal/services/auth"
	"goldnest/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const forgotPasswordMessage = "If an account exists for that email, a reset token has been generated."

type AuthHandler struct {
	authService    auth.Service
	echoResetToken bool
}

// NewAuthHandler creates the auth endpoints. With echoResetToken set the raw reset
// token is returned by forgot-password, for demo setups without email delivery.
func NewAuthHandler(authService auth.Service, echoResetToken bool) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		echoResetToken: echoResetToken,
	}
}

func accountResponse(account *models.Account, token string) fiber.Map {
	return fiber.Map{
		"_id":              account.ID,
		"name":             account.Name,
		"email":            account.Email,
		"phone":            account.Phone,
		"nic":              account.NIC,
		"address":          account.Address,
		"city":             account.City,
		"goldBalanceGrams": account.GoldBalanceGrams,
		"token":            token,
	}
}

// Register creates an account and signs it in.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input auth.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	account, token, err := h.authService.Register(c.UserContext(), input)
	if err != nil {
		return utils.Error(c, err, "Server error during registration")
	}
	return utils.Created(c, accountResponse(account, token))
}

// Login exchanges email and password for a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Please provide email and password")
	}

	account, token, err := h.authService.Authenticate(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return utils.Error(c, err, "Server error during login")
	}
	return utils.Success(c, accountResponse(account, token))
}

// ForgotPassword answers identically whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Email == "" {
		return utils.BadRequest(c, "Please provide an email address")
	}

	token, err := h.authService.RequestPasswordReset(c.UserContext(), input.Email)
	if err != nil && !errors.Is(err, apperrors.ErrAccountNotFound) {
		logging.Log.WithError(err).Error("password reset request failed")
	}

	body := fiber.Map{"message": forgotPasswordMessage}
	if h.echoResetToken && err == nil {
		body["resetToken"] = token
	}
	return utils.Success(c, body)
}

// ResetPassword consumes the token from the path and sets the new password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	if _, err := h.authService.ResetPassword(c.UserContext(), c.Params("resettoken"), input.Password); err != nil {
		return utils.Error(c, err, "Server error during password reset")
	}
	return utils.Message(c, fiber.StatusOK, "Password reset successful.")
}
