package handlers

import (
	"math"

	"goldnest/internal/models"
	"goldnest/internal/services/account"
	"goldnest/internal/services/ledger"
	"goldnest/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type InvestmentHandler struct {
	ledgerService  ledger.Service
	accountService account.Service
}

func NewInvestmentHandler(ledgerService ledger.Service, accountService account.Service) *InvestmentHandler {
	return &InvestmentHandler{ledgerService: ledgerService, accountService: accountService}
}

type investRequest struct {
	AmountLKR  models.FlexibleAmount `json:"amountLKR"`
	SaveAsAuto bool                  `json:"saveAsAuto"`
	Frequency  string                `json:"frequency"`
}

// Invest buys gold for the signed-in account.
func (h *InvestmentHandler) Invest(c *fiber.Ctx) error {
	claims, err := utils.GetAccountClaims(c)
	if err != nil {
		return utils.Error(c, err, "Not authorized")
	}

	// a missing amount is rejected like a non-numeric one
	input := investRequest{AmountLKR: models.FlexibleAmount(math.NaN())}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	result, err := h.ledgerService.Invest(c.UserContext(), claims.AccountID, ledger.InvestRequest{
		AmountLKR:  input.AmountLKR.Float64(),
		SaveAsAuto: input.SaveAsAuto,
		Frequency:  input.Frequency,
	})
	if err != nil {
		return utils.Error(c, err, "Server error during investment")
	}

	return utils.Success(c, fiber.Map{
		"message":             result.Message,
		"newGoldBalanceGrams": result.NewGoldBalanceGrams,
		"transaction":         result.Transaction,
		"autoPaymentCreated":  result.AutoPaymentCreated,
		"earnedBadgeIds":      result.EarnedBadgeIDs,
		"updatedUserInfo":     h.accountService.Project(result.Account),
	})
}
