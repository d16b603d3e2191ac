package ledger

// Default configuration values
const (
	DefaultPricePerGramLKR  = 11000.0
	DefaultMinInvestmentLKR = 100.0
)

// Messages
const (
	MessageInvestSuccess = "Investment successful!"
)

// Failure reasons reported to metrics
const (
	ReasonInvalidAmount    = "invalid_amount"
	ReasonInvalidFrequency = "invalid_frequency"
	ReasonNotFound         = "account_not_found"
	ReasonStore            = "store_error"
)
