package repositories

import (
	"context"
	"errors"
	"reflect"
	"time"

	apperrors "goldnest/internal/errors"
	"goldnest/internal/models"
)

var (
	ErrAccountNotFound  = apperrors.ErrAccountNotFound
	ErrDuplicateEmail   = apperrors.ErrDuplicateEmail
	ErrConcurrentUpdate = apperrors.ErrConcurrentUpdate

	// ErrAppendOnly is returned when a MutateFunc removes or edits an existing
	// transaction or automatic payment.
	ErrAppendOnly = errors.New("account collections are append-only")
)

// MutateFunc edits an account in place. Returning an error discards every change.
// Transactions and AutomaticPayments may only be appended to.
type MutateFunc func(account *models.Account) error

// AccountRepository is the account store.
type AccountRepository interface {
	// Create stores a new account. The email must not be taken (case-insensitive).
	Create(ctx context.Context, account *models.Account) error

	// GetByID returns the account with its transactions (chronological) and auto payments.
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// GetByEmail looks an account up by normalized email.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetByResetToken returns the account holding hashedToken with an expiry after now.
	GetByResetToken(ctx context.Context, hashedToken string, now time.Time) (*models.Account, error)

	// Mutate applies fn to the account as one atomic unit, serialized against every
	// other Mutate on the same account, and returns the committed state.
	Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Account, error)

	// ListTransactions returns a page of the account's transactions, newest first.
	ListTransactions(ctx context.Context, accountID, txType string, limit, offset int) ([]models.Transaction, int64, error)
}

// checkAppendOnly verifies that after starts with every transaction and automatic
// payment of before, unchanged.
func checkAppendOnly(before, after *models.Account) error {
	if len(after.Transactions) < len(before.Transactions) ||
		len(after.AutomaticPayments) < len(before.AutomaticPayments) {
		return ErrAppendOnly
	}
	for i := range before.Transactions {
		if !reflect.DeepEqual(before.Transactions[i], after.Transactions[i]) {
			return ErrAppendOnly
		}
	}
	for i := range before.AutomaticPayments {
		if !reflect.DeepEqual(before.AutomaticPayments[i], after.AutomaticPayments[i]) {
			return ErrAppendOnly
		}
	}
	return nil
}
