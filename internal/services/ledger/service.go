package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"goldnest/internal/logging"
	"goldnest/internal/models"
	"goldnest/internal/repositories"
	"goldnest/internal/services/gamification"
	cachekeys "goldnest/internal/utils/cache"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type service struct {
	repo    repositories.AccountRepository
	cache   repositories.CacheRepository
	config  Config
	metrics MetricsCollector
}

// NewService creates a new ledger service
func NewService(
	repo repositories.AccountRepository,
	cache repositories.CacheRepository,
	config Config,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}

	if config.PricePerGramLKR <= 0 {
		config.PricePerGramLKR = DefaultPricePerGramLKR
	}
	if config.MinInvestmentLKR <= 0 {
		config.MinInvestmentLKR = DefaultMinInvestmentLKR
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if metrics == nil {
		metrics = PrometheusMetrics{}
	}

	return &service{
		repo:    repo,
		cache:   cache,
		config:  config,
		metrics: metrics,
	}
}

func (s *service) Invest(ctx context.Context, accountID string, req InvestRequest) (*InvestResult, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	grams := req.AmountLKR / s.config.PricePerGramLKR

	var (
		appended models.Transaction
		created  bool
		earned   []string
	)
	account, err := s.repo.Mutate(ctx, accountID, func(a *models.Account) error {
		now := s.config.Now()

		a.GoldBalanceGrams += grams
		appended = models.Transaction{
			ID:          uuid.NewString(),
			AccountID:   a.ID,
			Seq:         nextSeq(a),
			Type:        models.TransactionTypeInvestment,
			AmountGrams: grams,
			AmountLKR:   req.AmountLKR,
			Date:        now,
			Description: fmt.Sprintf("Invested Rs. %.2f", req.AmountLKR),
		}
		a.Transactions = append(a.Transactions, appended)

		created = false
		if req.SaveAsAuto && a.FindAutoPayment(req.Frequency, req.AmountLKR) == nil {
			a.AutomaticPayments = append(a.AutomaticPayments, models.AutoPayment{
				ID:        uuid.NewString(),
				AccountID: a.ID,
				Frequency: req.Frequency,
				AmountLKR: req.AmountLKR,
				CreatedAt: now,
			})
			created = true
		}

		earned = gamification.Apply(a, now)
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			s.metrics.RecordFailure(ReasonNotFound)
			return nil, ErrAccountNotFound
		}
		s.metrics.RecordFailure(ReasonStore)
		return nil, fmt.Errorf("failed to apply investment: %w", err)
	}

	s.metrics.RecordInvestment(req.AmountLKR, grams)
	s.invalidate(ctx, account)

	logging.WithAccount(accountID).WithFields(logrus.Fields{
		"amount_lkr":   req.AmountLKR,
		"grams":        grams,
		"auto_payment": created,
		"badges":       earned,
	}).Info("investment applied")

	message := MessageInvestSuccess
	if req.SaveAsAuto {
		message += fmt.Sprintf(" Automatic %s payment saved.", req.Frequency)
	}

	return &InvestResult{
		NewGoldBalanceGrams: account.GoldBalanceGrams,
		Transaction:         appended,
		AutoPaymentCreated:  created,
		EarnedBadgeIDs:      earned,
		Message:             message,
		Account:             account,
	}, nil
}

func (s *service) validate(req InvestRequest) error {
	amount := req.AmountLKR
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 || amount < s.config.MinInvestmentLKR {
		s.metrics.RecordFailure(ReasonInvalidAmount)
		return ErrInvalidAmount
	}
	if req.SaveAsAuto && !models.IsValidFrequency(req.Frequency) {
		s.metrics.RecordFailure(ReasonInvalidFrequency)
		return ErrInvalidFrequency
	}
	if req.SaveAsAuto && amount < models.MinAutoPaymentLKR {
		s.metrics.RecordFailure(ReasonInvalidAmount)
		return ErrInvalidAmount
	}
	return nil
}

// invalidate drops the cached views of the committed account and records its
// version, so a reader holding an older snapshot cannot cache it afterwards.
func (s *service) invalidate(ctx context.Context, account *models.Account) {
	versionKey := cachekeys.AccountVersionKey(account.ID)
	if err := s.cache.Invalidate(ctx, versionKey, account.Version, cachekeys.InvalidateAccountKeys(account.ID)...); err != nil {
		logging.WithAccount(account.ID).WithError(err).Warn("failed to invalidate account cache")
	}
}

func nextSeq(a *models.Account) int {
	if n := len(a.Transactions); n > 0 {
		return a.Transactions[n-1].Seq + 1
	}
	return 1
}
