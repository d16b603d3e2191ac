package errors

var (
	ErrInvalidAmount = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_AMOUNT",
		Message: "Invalid investment amount (min Rs. 100).",
	}
	ErrInvalidFrequency = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_FREQUENCY",
		Message: "Invalid frequency selected for automatic payment.",
	}
	ErrConcurrentUpdate = &DomainError{
		Kind:    KindInternal,
		Code:    "CONCURRENT_UPDATE",
		Message: "Account was modified concurrently, please retry.",
	}
)
