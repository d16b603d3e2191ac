package ledger

import (
	"time"

	"goldnest/internal/models"
)

// Config holds the conversion parameters for investments.
type Config struct {
	PricePerGramLKR  float64
	MinInvestmentLKR float64
	// Now is the clock used for transaction dates. Defaults to time.Now.
	Now func() time.Time
}

// InvestRequest is a request to buy gold for AmountLKR.
type InvestRequest struct {
	AmountLKR  float64
	SaveAsAuto bool
	Frequency  string
}

// InvestResult is the outcome of an applied investment.
type InvestResult struct {
	NewGoldBalanceGrams float64
	Transaction         models.Transaction
	AutoPaymentCreated  bool
	EarnedBadgeIDs      []string
	Message             string
	Account             *models.Account
}
