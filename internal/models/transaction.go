package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction types
const (
	TransactionTypeInvestment = "investment"
	TransactionTypeRedemption = "redemption" // reserved, no debit path yet
	TransactionTypeBonus      = "bonus"
	TransactionTypeFee        = "fee"
)

// IsValidTransactionType reports whether t is a known ledger entry kind.
func IsValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeInvestment, TransactionTypeRedemption, TransactionTypeBonus, TransactionTypeFee:
		return true
	}
	return false
}

// Transaction is an immutable ledger entry on an account.
type Transaction struct {
	ID                  string    `gorm:"type:uuid;primaryKey" json:"_id"`
	AccountID           string    `gorm:"type:uuid;index:idx_account_seq,unique;not null" json:"-"`
	Seq                 int       `gorm:"index:idx_account_seq,unique;not null" json:"seq"`
	Type                string    `gorm:"not null" json:"type"`
	AmountGrams         float64   `gorm:"not null" json:"amountGrams"`
	AmountLKR           float64   `gorm:"column:amount_lkr;not null" json:"amountLKR"`
	Date                time.Time `gorm:"not null" json:"date"`
	Description         string    `json:"description,omitempty"`
	RelatedRedemptionID *string   `gorm:"type:uuid" json:"relatedRedemptionId,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	return nil
}
