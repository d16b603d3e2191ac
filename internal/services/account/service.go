// Package account serves read-only views of an account: the profile projection
// used by the dashboard, the portfolio summary and the transaction history.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "goldnest/internal/errors"
	"goldnest/internal/logging"
	"goldnest/internal/models"
	"goldnest/internal/repositories"
	"goldnest/internal/services/gamification"
	"goldnest/internal/utils"
	cachekeys "goldnest/internal/utils/cache"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

var ErrInvalidTransactionType = apperrors.Validation("INVALID_TRANSACTION_TYPE", "Invalid transaction type.")

type Service interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
	Project(account *models.Account) *Profile
	Portfolio(account *models.Account) Portfolio
	ListTransactions(ctx context.Context, id, txType string, page, limit int) ([]models.Transaction, int64, error)
}

type Config struct {
	PricePerGramLKR float64
}

// Profile is the account as shown to its owner.
type Profile struct {
	ID                string                   `json:"_id"`
	Name              string                   `json:"name"`
	Email             string                   `json:"email"`
	Phone             string                   `json:"phone"`
	NIC               string                   `json:"nic"`
	Address           string                   `json:"address"`
	City              string                   `json:"city"`
	GoldBalanceGrams  float64                  `json:"goldBalanceGrams"`
	Transactions      []models.Transaction     `json:"transactions"`
	AutomaticPayments []models.AutoPayment     `json:"automaticPayments"`
	EarnedBadgeIDs    []string                 `json:"earnedBadgeIds"`
	ChallengeProgress models.ProgressMap       `json:"challengeProgress"`
	ChallengePercent  map[string]float64       `json:"challengePercent"`
	Gamification      gamification.Definitions `json:"gamification"`
	Portfolio         Portfolio                `json:"portfolio"`
	CreatedAt         time.Time                `json:"createdAt"`
}

type service struct {
	repo   repositories.AccountRepository
	cache  repositories.CacheRepository
	config Config
}

func NewService(repo repositories.AccountRepository, cache repositories.CacheRepository, config Config) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if config.PricePerGramLKR <= 0 {
		config.PricePerGramLKR = 11000
	}
	return &service{repo: repo, cache: cache, config: config}
}

func (s *service) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	key := cachekeys.AccountProfileKey(id)

	// Try cache first
	var cached Profile
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		logging.WithAccount(id).WithError(err).Warn("profile cache read failed")
	} else if hit {
		return &cached, nil
	}

	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := s.Project(account)

	// skipped when an investment or reset committed after the load
	stored, err := s.cache.SetVersioned(ctx, key, cachekeys.AccountVersionKey(id), account.Version, profile)
	if err != nil {
		logging.WithAccount(id).WithError(err).Warn("profile cache write failed")
	} else if !stored {
		logging.WithAccount(id).Debug("profile snapshot superseded, not cached")
	}
	return profile, nil
}

func (s *service) Portfolio(account *models.Account) Portfolio {
	return ComputePortfolio(account, s.config.PricePerGramLKR)
}

func (s *service) ListTransactions(ctx context.Context, id, txType string, page, limit int) ([]models.Transaction, int64, error) {
	if txType != "" && !models.IsValidTransactionType(txType) {
		return nil, 0, ErrInvalidTransactionType
	}
	p := utils.NewPagination(page, limit, DefaultPage, DefaultLimit, MaxLimit)

	transactions, total, err := s.repo.ListTransactions(ctx, id, txType, p.Limit, p.Offset())
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, 0, apperrors.ErrAccountNotFound
		}
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, total, nil
}

// Project builds the display projection of a, without touching the cache.
func (s *service) Project(a *models.Account) *Profile {
	p := &Profile{
		ID:                a.ID,
		Name:              a.Name,
		Email:             a.Email,
		Phone:             a.Phone,
		NIC:               a.NIC,
		Address:           a.Address,
		City:              a.City,
		GoldBalanceGrams:  a.GoldBalanceGrams,
		Transactions:      a.Transactions,
		AutomaticPayments: a.AutomaticPayments,
		EarnedBadgeIDs:    []string(a.EarnedBadgeIDs),
		ChallengeProgress: a.ChallengeProgress,
		Gamification:      gamification.GetDefinitions(),
		Portfolio:         s.Portfolio(a),
		CreatedAt:         a.CreatedAt,
	}
	if p.Transactions == nil {
		p.Transactions = []models.Transaction{}
	}
	if p.AutomaticPayments == nil {
		p.AutomaticPayments = []models.AutoPayment{}
	}
	if p.EarnedBadgeIDs == nil {
		p.EarnedBadgeIDs = []string{}
	}
	if p.ChallengeProgress == nil {
		p.ChallengeProgress = models.ProgressMap{}
	}
	p.ChallengePercent = make(map[string]float64, len(p.Gamification.Challenges))
	for _, c := range p.Gamification.Challenges {
		p.ChallengePercent[c.ID] = gamification.ChallengePercent(p.ChallengeProgress[c.ID], c.Goal)
	}
	return p
}
