package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"goldnest/internal/models"

	"github.com/google/uuid"
)

// memoryAccountRepository keeps accounts in process memory. Writes to one account are
// serialized by a per-account mutex; reads return deep copies.
type memoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
	byEmail  map[string]string
	locks    map[string]*sync.Mutex
}

// NewMemoryAccountRepository creates an in-memory AccountRepository.
func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{
		accounts: make(map[string]*models.Account),
		byEmail:  make(map[string]string),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (r *memoryAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := models.NormalizeEmail(account.Email)
	if _, taken := r.byEmail[email]; taken {
		return ErrDuplicateEmail
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now()
	account.Email = email
	account.CreatedAt = now
	account.UpdatedAt = now
	if account.TokenVersion == 0 {
		account.TokenVersion = 1
	}
	if account.ChallengeProgress == nil {
		account.ChallengeProgress = models.ProgressMap{}
	}

	r.accounts[account.ID] = account.Clone()
	r.byEmail[email] = account.ID
	r.locks[account.ID] = &sync.Mutex{}
	return nil
}

func (r *memoryAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account.Clone(), nil
}

func (r *memoryAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	id, ok := r.byEmail[models.NormalizeEmail(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrAccountNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *memoryAccountRepository) GetByResetToken(ctx context.Context, hashedToken string, now time.Time) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if account.ResetPasswordToken == nil || account.ResetPasswordExpire == nil {
			continue
		}
		if *account.ResetPasswordToken == hashedToken && account.ResetPasswordExpire.After(now) {
			return account.Clone(), nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *memoryAccountRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Account, error) {
	r.mu.RLock()
	lock, ok := r.locks[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrAccountNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	current := r.accounts[id]
	r.mu.RUnlock()

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	if err := checkAppendOnly(current, working); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.accounts[id].Version != current.Version {
		return nil, ErrConcurrentUpdate
	}

	// identity fields are immutable
	working.ID = current.ID
	working.Email = current.Email
	working.CreatedAt = current.CreatedAt
	working.Version = current.Version + 1
	working.UpdatedAt = time.Now()

	r.accounts[id] = working
	return working.Clone(), nil
}

func (r *memoryAccountRepository) ListTransactions(ctx context.Context, accountID, txType string, limit, offset int) ([]models.Transaction, int64, error) {
	account, err := r.GetByID(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]models.Transaction, 0, len(account.Transactions))
	for _, t := range account.Transactions {
		if txType == "" || t.Type == txType {
			filtered = append(filtered, t)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Seq > filtered[j].Seq })

	total := int64(len(filtered))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(filtered) {
		return []models.Transaction{}, total, nil
	}
	end := len(filtered)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return filtered[offset:end], total, nil
}
