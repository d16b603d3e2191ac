// Package gamification holds the badge and challenge catalogue and recomputes an
// account's persisted progress from its ledger.
package gamification

// Challenge types
const (
	ChallengeTotalAmount   = "investment_amount_total"
	ChallengeDailyStreak   = "investment_streak_daily"
	ChallengeMonthlyAmount = "investment_amount_monthly"
)

// Units
const (
	UnitRupees = "Rs"
	UnitDays   = "days"
)

// Badge ids
const (
	BadgeFirstInvestment = "first_investment"
	BadgeFirstGram       = "first_gram"
	BadgeFiveGrams       = "five_grams"
	BadgeAutoSaver       = "auto_saver"

	challengeBadgePrefix = "challenge_"
)

// StreakDailyMinimumLKR is the daily amount that counts a day towards a streak.
const StreakDailyMinimumLKR = 500.0

type Challenge struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Type string  `json:"type"`
	Unit string  `json:"unit"`
	Goal float64 `json:"goal"`
}

type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Definitions struct {
	Badges     []Badge     `json:"badges"`
	Challenges []Challenge `json:"challenges"`
}

var challenges = []Challenge{
	{ID: "c1", Name: "Invest a total of Rs 5,000", Type: ChallengeTotalAmount, Unit: UnitRupees, Goal: 5000},
	{ID: "c2", Name: "Invest a total of Rs 10,000", Type: ChallengeTotalAmount, Unit: UnitRupees, Goal: 10000},
	{ID: "c3", Name: "Invest Daily 500 for 10 consecutive days", Type: ChallengeDailyStreak, Unit: UnitDays, Goal: 10},
	{ID: "c4", Name: "Invest a total of Rs 50,000 in 1 month", Type: ChallengeMonthlyAmount, Unit: UnitRupees, Goal: 50000},
}

var badges = []Badge{
	{ID: BadgeFirstInvestment, Name: "First Step", Description: "Made your first gold investment", Icon: "fas fa-seedling"},
	{ID: BadgeFirstGram, Name: "One Gram Club", Description: "Hold at least 1g of gold", Icon: "fas fa-coins"},
	{ID: BadgeFiveGrams, Name: "Five Gram Saver", Description: "Hold at least 5g of gold", Icon: "fas fa-gem"},
	{ID: BadgeAutoSaver, Name: "Auto Saver", Description: "Set up an automatic payment", Icon: "fas fa-sync"},
}

// ChallengeBadgeID is the badge awarded for completing a challenge.
func ChallengeBadgeID(challengeID string) string {
	return challengeBadgePrefix + challengeID
}

// GetDefinitions returns the full catalogue, including one badge per challenge.
func GetDefinitions() Definitions {
	defs := Definitions{
		Badges:     make([]Badge, 0, len(badges)+len(challenges)),
		Challenges: append([]Challenge(nil), challenges...),
	}
	defs.Badges = append(defs.Badges, badges...)
	for _, c := range challenges {
		defs.Badges = append(defs.Badges, Badge{
			ID:          ChallengeBadgeID(c.ID),
			Name:        "Challenge complete",
			Description: c.Name,
			Icon:        "fas fa-trophy",
		})
	}
	return defs
}
