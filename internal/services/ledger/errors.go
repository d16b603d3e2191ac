package ledger

import (
	apperrors "goldnest/internal/errors"
)

// Service errors
var (
	ErrInvalidAmount    = apperrors.ErrInvalidAmount
	ErrInvalidFrequency = apperrors.ErrInvalidFrequency
	ErrAccountNotFound  = apperrors.ErrAccountNotFound
)
