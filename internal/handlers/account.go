package handlers

import (
	"goldnest/internal/services/account"
	"goldnest/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AccountHandler struct {
	accountService account.Service
}

func NewAccountHandler(accountService account.Service) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// GetMe returns the signed-in account's profile, portfolio and gamification state.
func (h *AccountHandler) GetMe(c *fiber.Ctx) error {
	claims, err := utils.GetAccountClaims(c)
	if err != nil {
		return utils.Error(c, err, "Not authorized")
	}

	profile, err := h.accountService.GetProfile(c.UserContext(), claims.AccountID)
	if err != nil {
		return utils.Error(c, err, "Server error fetching profile")
	}
	return utils.Success(c, profile)
}

// GetTransactions lists the signed-in account's transactions, newest first.
func (h *AccountHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := utils.GetAccountClaims(c)
	if err != nil {
		return utils.Error(c, err, "Not authorized")
	}

	p := utils.GetPagination(c, account.DefaultPage, account.DefaultLimit, account.MaxLimit)
	transactions, total, err := h.accountService.ListTransactions(c.UserContext(), claims.AccountID, c.Query("type"), p.Page, p.Limit)
	if err != nil {
		return utils.Error(c, err, "Server error fetching transactions")
	}

	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(transactions, p))
}
