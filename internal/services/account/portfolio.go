package account

import (
	"math"

	"goldnest/internal/models"
)

// RedemptionThresholdsGrams are the physical gold sizes a holding can be redeemed for.
var RedemptionThresholdsGrams = []float64{1, 5, 10}

type RedemptionProgress struct {
	ThresholdGrams float64 `json:"thresholdGrams"`
	Percent        float64 `json:"percent"`
	CanRedeem      bool    `json:"canRedeem"`
}

// Portfolio summarizes an account's holding at a given gold price.
type Portfolio struct {
	PricePerGramLKR      float64              `json:"pricePerGramLKR"`
	TotalInvestedLKR     float64              `json:"totalInvestedLKR"`
	TotalInvestedGrams   float64              `json:"totalInvestedGrams"`
	CurrentValueLKR      float64              `json:"currentValueLKR"`
	UnrealizedGainLKR    float64              `json:"unrealizedGainLKR"`
	GainPercentage       float64              `json:"gainPercentage"`
	AveragePurchasePrice float64              `json:"averagePurchasePrice"`
	Redemption           []RedemptionProgress `json:"redemption"`
	LastInvestment       *models.Transaction  `json:"lastInvestment"`
}

// ComputePortfolio derives the portfolio figures from the balance and the
// investment transactions.
func ComputePortfolio(account *models.Account, pricePerGramLKR float64) Portfolio {
	p := Portfolio{PricePerGramLKR: pricePerGramLKR}

	for i := range account.Transactions {
		t := &account.Transactions[i]
		if t.Type != models.TransactionTypeInvestment {
			continue
		}
		p.TotalInvestedLKR += t.AmountLKR
		p.TotalInvestedGrams += t.AmountGrams
		if p.LastInvestment == nil || t.Seq > p.LastInvestment.Seq {
			last := *t
			p.LastInvestment = &last
		}
	}

	balance := account.GoldBalanceGrams
	p.CurrentValueLKR = balance * pricePerGramLKR
	p.UnrealizedGainLKR = p.CurrentValueLKR - p.TotalInvestedLKR
	if p.TotalInvestedLKR > 0 {
		p.GainPercentage = p.UnrealizedGainLKR / p.TotalInvestedLKR * 100
	}
	if p.TotalInvestedGrams > 0 {
		p.AveragePurchasePrice = p.TotalInvestedLKR / p.TotalInvestedGrams
	}

	p.Redemption = make([]RedemptionProgress, 0, len(RedemptionThresholdsGrams))
	for _, threshold := range RedemptionThresholdsGrams {
		progress := RedemptionProgress{ThresholdGrams: threshold, CanRedeem: balance >= threshold}
		if balance > 0 {
			progress.Percent = math.Min(100, balance/threshold*100)
		}
		p.Redemption = append(p.Redemption, progress)
	}
	return p
}
