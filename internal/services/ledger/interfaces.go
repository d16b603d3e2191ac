package ledger

import "context"

// Service defines the ledger update operations
type Service interface {
	Invest(ctx context.Context, accountID string, req InvestRequest) (*InvestResult, error)
}

// MetricsCollector receives the outcome of every investment request
type MetricsCollector interface {
	RecordInvestment(amountLKR, grams float64)
	RecordFailure(reason string)
}
