package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Account is a registered user with their gold holding and ledger.
type Account struct {
	ID                  string         `gorm:"type:uuid;primaryKey" json:"_id"`
	Name                string         `gorm:"not null" json:"name"`
	Email               string         `gorm:"uniqueIndex;not null" json:"email"`
	Password            string         `gorm:"not null" json:"-"`
	Phone               string         `json:"phone,omitempty"`
	NIC                 string         `gorm:"column:nic" json:"nic,omitempty"`
	Address             string         `json:"address,omitempty"`
	City                string         `json:"city,omitempty"`
	GoldBalanceGrams    float64        `gorm:"not null;default:0" json:"goldBalanceGrams"`
	Transactions        []Transaction  `gorm:"foreignKey:AccountID" json:"transactions"`
	AutomaticPayments   []AutoPayment  `gorm:"foreignKey:AccountID" json:"automaticPayments"`
	ResetPasswordToken  *string        `gorm:"index" json:"-"`
	ResetPasswordExpire *time.Time     `json:"-"`
	EarnedBadgeIDs      pq.StringArray `gorm:"type:text[]" json:"earnedBadgeIds"`
	ChallengeProgress   ProgressMap    `gorm:"type:jsonb" json:"challengeProgress"`
	TokenVersion        int            `gorm:"not null;default:1" json:"-"`
	Version             int64          `gorm:"not null;default:0" json:"-"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Email = NormalizeEmail(a.Email)
	return nil
}

// NormalizeEmail returns the canonical (trimmed, lowercase) form of an email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasBadge reports whether the badge id was already earned.
func (a *Account) HasBadge(id string) bool {
	for _, b := range a.EarnedBadgeIDs {
		if b == id {
			return true
		}
	}
	return false
}

// FindAutoPayment returns the rule with the same frequency and amount, if any.
func (a *Account) FindAutoPayment(frequency string, amountLKR float64) *AutoPayment {
	for i := range a.AutomaticPayments {
		p := &a.AutomaticPayments[i]
		if p.Frequency == frequency && p.AmountLKR == amountLKR {
			return p
		}
	}
	return nil
}

// ClearResetToken drops any pending password reset.
func (a *Account) ClearResetToken() {
	a.ResetPasswordToken = nil
	a.ResetPasswordExpire = nil
}

// Clone returns a deep copy, safe to mutate independently of the original.
func (a *Account) Clone() *Account {
	c := *a
	c.Transactions = append([]Transaction(nil), a.Transactions...)
	c.AutomaticPayments = append([]AutoPayment(nil), a.AutomaticPayments...)
	c.EarnedBadgeIDs = append(pq.StringArray(nil), a.EarnedBadgeIDs...)
	c.ChallengeProgress = a.ChallengeProgress.Clone()
	if a.ResetPasswordToken != nil {
		t := *a.ResetPasswordToken
		c.ResetPasswordToken = &t
	}
	if a.ResetPasswordExpire != nil {
		e := *a.ResetPasswordExpire
		c.ResetPasswordExpire = &e
	}
	for i := range c.Transactions {
		if ref := c.Transactions[i].RelatedRedemptionID; ref != nil {
			r := *ref
			c.Transactions[i].RelatedRedemptionID = &r
		}
	}
	return &c
}
