package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auto payment frequencies
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// MinAutoPaymentLKR is the smallest recurring amount accepted.
const MinAutoPaymentLKR = 100.0

// IsValidFrequency reports whether f is one of the recognized frequencies.
func IsValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// AutoPayment is a recurring investment instruction, unique per (frequency, amount).
type AutoPayment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"_id"`
	AccountID string    `gorm:"type:uuid;uniqueIndex:idx_autopay_rule;not null" json:"-"`
	Frequency string    `gorm:"uniqueIndex:idx_autopay_rule;not null" json:"frequency"`
	AmountLKR float64   `gorm:"column:amount_lkr;uniqueIndex:idx_autopay_rule;not null;check:amount_lkr >= 100" json:"amountLKR"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *AutoPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
