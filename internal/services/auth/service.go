package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "goldnest/internal/errors"
	"goldnest/internal/logging"
	"goldnest/internal/metrics"
	"goldnest/internal/models"
	"goldnest/internal/repositories"
	"goldnest/internal/utils"
	cachekeys "goldnest/internal/utils/cache"
	"goldnest/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// Service verifies credentials and manages bearer tokens and password resets.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Account, string, error)
	Authenticate(ctx context.Context, email, password string) (*models.Account, string, error)
	IssueToken(account *models.Account) (string, error)
	VerifyToken(ctx context.Context, raw string) (*models.AccountClaims, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, rawToken, newPassword string) (*models.Account, error)
}

// Config holds token and hashing parameters.
type Config struct {
	Token         utils.TokenConfig
	ResetTokenTTL time.Duration
	BcryptCost    int
	Now           func() time.Time
}

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone" validate:"max=255"`
	NIC      string `json:"nic" validate:"max=255"`
	Address  string `json:"address" validate:"max=255"`
	City     string `json:"city" validate:"max=255"`
}

const (
	DefaultTokenTTL      = 30 * 24 * time.Hour
	DefaultResetTokenTTL = 10 * time.Minute
)

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
	if config.Token.TTL <= 0 {
		config.Token.TTL = DefaultTokenTTL
	}
	if config.ResetTokenTTL <= 0 {
		config.ResetTokenTTL = DefaultResetTokenTTL
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &service{repo: repo, cache: cache, config: config}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Account, string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = models.NormalizeEmail(input.Email)

	v := validation.New()
	v.Struct(input)
	v.Password("password", input.Password)
	if !v.Valid() {
		metrics.RecordAuthEvent("register", "invalid")
		return nil, "", apperrors.Validation("VALIDATION_ERROR", v.First())
	}

	_, err := s.repo.GetByEmail(ctx, input.Email)
	switch {
	case err == nil:
		metrics.RecordAuthEvent("register", "duplicate")
		return nil, "", apperrors.ErrDuplicateEmail
	case !errors.Is(err, repositories.ErrAccountNotFound):
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.config.BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Name:              input.Name,
		Email:             input.Email,
		Password:          string(hashed),
		Phone:             strings.TrimSpace(input.Phone),
		NIC:               strings.TrimSpace(input.NIC),
		Address:           strings.TrimSpace(input.Address),
		City:              strings.TrimSpace(input.City),
		TokenVersion:      1,
		ChallengeProgress: models.ProgressMap{},
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			metrics.RecordAuthEvent("register", "duplicate")
			return nil, "", apperrors.ErrDuplicateEmail
		}
		return nil, "", err
	}

	token, err := s.IssueToken(account)
	if err != nil {
		return nil, "", err
	}

	metrics.RecordAuthEvent("register", "success")
	logging.WithAccount(account.ID).Info("account registered")
	return account, token, nil
}

// Authenticate fails with ErrInvalidCredentials for an unknown email and for a
// wrong password alike.
func (s *service) Authenticate(ctx context.Context, email, password string) (*models.Account, string, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			metrics.RecordAuthEvent("login", "failure")
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		metrics.RecordAuthEvent("login", "failure")
		logging.WithAccount(account.ID).Info("login failed: incorrect password")
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.IssueToken(account)
	if err != nil {
		return nil, "", err
	}
	metrics.RecordAuthEvent("login", "success")
	return account, token, nil
}

func (s *service) IssueToken(account *models.Account) (string, error) {
	token, err := utils.GenerateToken(s.config.Token, account, s.config.Now())
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (s *service) VerifyToken(ctx context.Context, raw string) (*models.AccountClaims, error) {
	claims, err := utils.ParseToken(s.config.Token, raw, s.config.Now())
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	account, err := s.repo.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account.TokenVersion != claims.TokenVersion {
		return nil, apperrors.ErrSessionExpired
	}
	return claims, nil
}

// RequestPasswordReset stores the digest of a fresh reset token and returns the raw
// token. Any earlier pending token is replaced.
func (s *service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			metrics.RecordAuthEvent("forgot_password", "unknown_email")
			return "", apperrors.ErrAccountNotFound
		}
		return "", fmt.Errorf("failed to load account: %w", err)
	}

	raw, hashed, err := utils.GenerateResetToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	expire := s.config.Now().Add(s.config.ResetTokenTTL)

	_, err = s.repo.Mutate(ctx, account.ID, func(a *models.Account) error {
		a.ResetPasswordToken = &hashed
		a.ResetPasswordExpire = &expire
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	metrics.RecordAuthEvent("forgot_password", "issued")
	logging.WithAccount(account.ID).Info("password reset token issued")
	return raw, nil
}

// ResetPassword consumes a reset token. Wrong, expired and already used tokens all
// fail with ErrInvalidResetToken. Existing bearer tokens stop verifying.
func (s *service) ResetPassword(ctx context.Context, rawToken, newPassword string) (*models.Account, error) {
	v := validation.New()
	v.Password("password", newPassword)
	if !v.Valid() {
		return nil, apperrors.Validation(apperrors.ErrWeakPassword.Code, v.First())
	}

	now := s.config.Now()
	hashedToken := utils.HashToken(rawToken)

	found, err := s.repo.GetByResetToken(ctx, hashedToken, now)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			metrics.RecordAuthEvent("reset_password", "invalid_token")
			return nil, apperrors.ErrInvalidResetToken
		}
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// the token is re-checked under the account lock so it can be consumed once
	account, err := s.repo.Mutate(ctx, found.ID, func(a *models.Account) error {
		if a.ResetPasswordToken == nil || *a.ResetPasswordToken != hashedToken ||
			a.ResetPasswordExpire == nil || !a.ResetPasswordExpire.After(now) {
			return apperrors.ErrInvalidResetToken
		}
		a.Password = string(hashedPassword)
		a.ClearResetToken()
		a.TokenVersion++
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidResetToken) || errors.Is(err, repositories.ErrAccountNotFound) {
			metrics.RecordAuthEvent("reset_password", "invalid_token")
			return nil, apperrors.ErrInvalidResetToken
		}
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}

	versionKey := cachekeys.AccountVersionKey(account.ID)
	if err := s.cache.Invalidate(ctx, versionKey, account.Version, cachekeys.InvalidateAccountKeys(account.ID)...); err != nil {
		logging.WithAccount(account.ID).WithError(err).Warn("failed to invalidate account cache")
	}

	metrics.RecordAuthEvent("reset_password", "success")
	logging.WithAccount(account.ID).Info("password reset")
	return account, nil
}
