package gamification

import (
	"math"
	"sort"
	"time"

	"goldnest/internal/models"
)

const dayLayout = "2006-01-02"

// Apply recomputes the account's challenge progress from its transactions and awards
// any newly reached badges. Earned badges are never removed. It returns the ids of
// badges earned by this call.
func Apply(account *models.Account, now time.Time) []string {
	investments := make([]models.Transaction, 0, len(account.Transactions))
	for _, t := range account.Transactions {
		if t.Type == models.TransactionTypeInvestment {
			investments = append(investments, t)
		}
	}

	progress := models.ProgressMap{}
	for _, c := range challenges {
		var value float64
		switch c.Type {
		case ChallengeTotalAmount:
			value = totalLKR(investments)
		case ChallengeMonthlyAmount:
			value = monthLKR(investments, now)
		case ChallengeDailyStreak:
			value = float64(longestStreak(investments, now.Location()))
		}
		progress[c.ID] = math.Min(value, c.Goal)
	}
	account.ChallengeProgress = progress

	var earned []string
	award := func(id string, ok bool) {
		if ok && !account.HasBadge(id) {
			account.EarnedBadgeIDs = append(account.EarnedBadgeIDs, id)
			earned = append(earned, id)
		}
	}

	award(BadgeFirstInvestment, len(investments) > 0)
	award(BadgeFirstGram, account.GoldBalanceGrams >= 1)
	award(BadgeFiveGrams, account.GoldBalanceGrams >= 5)
	award(BadgeAutoSaver, len(account.AutomaticPayments) > 0)
	for _, c := range challenges {
		award(ChallengeBadgeID(c.ID), progress[c.ID] >= c.Goal)
	}
	return earned
}

// ChallengePercent returns progress towards a challenge goal, capped at 100.
func ChallengePercent(progress, goal float64) float64 {
	if goal <= 0 || progress <= 0 {
		return 0
	}
	return math.Min(100, progress/goal*100)
}

func totalLKR(investments []models.Transaction) float64 {
	var sum float64
	for _, t := range investments {
		sum += t.AmountLKR
	}
	return sum
}

func monthLKR(investments []models.Transaction, now time.Time) float64 {
	var sum float64
	for _, t := range investments {
		d := t.Date.In(now.Location())
		if d.Year() == now.Year() && d.Month() == now.Month() {
			sum += t.AmountLKR
		}
	}
	return sum
}

// longestStreak counts the longest run of consecutive calendar days on which at
// least StreakDailyMinimumLKR was invested.
func longestStreak(investments []models.Transaction, loc *time.Location) int {
	perDay := map[string]float64{}
	for _, t := range investments {
		perDay[t.Date.In(loc).Format(dayLayout)] += t.AmountLKR
	}

	days := make([]time.Time, 0, len(perDay))
	for key, amount := range perDay {
		if amount < StreakDailyMinimumLKR {
			continue
		}
		d, err := time.ParseInLocation(dayLayout, key, loc)
		if err == nil {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && nextDay(days[i-1]).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func nextDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, d.Location())
}
