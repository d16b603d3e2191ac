package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goldnest/internal/logging"
	"goldnest/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a postgres-backed AccountRepository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	account.Email = models.NormalizeEmail(account.Email)
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", result.Error)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findOne(r.db.WithContext(ctx), "id = ?", id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(r.db.WithContext(ctx), "email = ?", models.NormalizeEmail(email))
}

func (r *accountRepository) GetByResetToken(ctx context.Context, hashedToken string, now time.Time) (*models.Account, error) {
	return r.findOne(r.db.WithContext(ctx),
		"reset_password_token = ? AND reset_password_expire > ?", hashedToken, now)
}

func (r *accountRepository) findOne(db *gorm.DB, query string, args ...interface{}) (*models.Account, error) {
	var account models.Account
	if err := db.Where(query, args...).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if err := loadCollections(db, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func loadCollections(db *gorm.DB, account *models.Account) error {
	if err := db.Where("account_id = ?", account.ID).Order("seq ASC").Find(&account.Transactions).Error; err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	if err := db.Where("account_id = ?", account.ID).Order("created_at ASC").Find(&account.AutomaticPayments).Error; err != nil {
		return fmt.Errorf("failed to load automatic payments: %w", err)
	}
	return nil
}

// Mutate locks the account row for the duration of a DB transaction, applies fn,
// inserts the appended child rows and writes the scalar fields guarded by the
// version column.
func (r *accountRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Account, error) {
	var committed *models.Account

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.Account
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&account).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("failed to lock account: %w", err)
		}
		if err := loadCollections(tx, &account); err != nil {
			return err
		}

		before := account.Clone()
		txCount := len(account.Transactions)
		apCount := len(account.AutomaticPayments)
		version := account.Version

		if err := fn(&account); err != nil {
			return err
		}
		if err := checkAppendOnly(before, &account); err != nil {
			return err
		}

		if added := account.Transactions[txCount:]; len(added) > 0 {
			if err := tx.Create(&added).Error; err != nil {
				return fmt.Errorf("failed to append transactions: %w", err)
			}
		}
		if added := account.AutomaticPayments[apCount:]; len(added) > 0 {
			if err := tx.Create(&added).Error; err != nil {
				return fmt.Errorf("failed to append automatic payments: %w", err)
			}
		}

		now := time.Now()
		result := tx.Model(&models.Account{}).
			Where("id = ? AND version = ?", account.ID, version).
			Updates(map[string]interface{}{
				"name":                  account.Name,
				"phone":                 account.Phone,
				"nic":                   account.NIC,
				"address":               account.Address,
				"city":                  account.City,
				"password":              account.Password,
				"gold_balance_grams":    account.GoldBalanceGrams,
				"reset_password_token":  account.ResetPasswordToken,
				"reset_password_expire": account.ResetPasswordExpire,
				"earned_badge_ids":      account.EarnedBadgeIDs,
				"challenge_progress":    account.ChallengeProgress,
				"token_version":         account.TokenVersion,
				"version":               version + 1,
				"updated_at":            now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update account: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			logging.WithAccount(account.ID).Warn("version check failed during account update")
			return ErrConcurrentUpdate
		}

		account.Version = version + 1
		account.UpdatedAt = now
		committed = &account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

func (r *accountRepository) ListTransactions(ctx context.Context, accountID, txType string, limit, offset int) ([]models.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("account_id = ?", accountID)
	if txType != "" {
		query = query.Where("type = ?", txType)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var transactions []models.Transaction
	if err := query.Session(&gorm.Session{}).Order("seq DESC").Limit(limit).Offset(offset).Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, total, nil
}
