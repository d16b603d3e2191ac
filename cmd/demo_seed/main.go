// Command demo_seed creates a demo account with a short investment history.
package main

import (
	"context"
	"errors"
	"os"

	"goldnest/internal/config"
	apperrors "goldnest/internal/errors"
	"goldnest/internal/logging"
	"goldnest/internal/models"
	"goldnest/internal/repositories"
	"goldnest/internal/repositories/cache"
	"goldnest/internal/services/auth"
	"goldnest/internal/services/ledger"
	"goldnest/internal/utils"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()
	logging.Configure(cfg.LogLevel, cfg.Env == "production")

	email := config.GetEnv("DEMO_EMAIL", "demo@goldnest.lk")
	password := os.Getenv("DEMO_PASSWORD")
	if password == "" {
		logging.Log.Fatal("DEMO_PASSWORD must be set in environment")
	}

	db, err := repositories.InitDB(cfg.DB)
	if err != nil {
		logging.Log.Fatalf("Failed to initialize database: %v", err)
	}
	defer repositories.Close(db)

	ctx := context.Background()
	accounts := repositories.NewAccountRepository(db)

	authService := auth.NewService(accounts, cache.NoopCache{}, auth.Config{
		Token:      utils.TokenConfig{Secret: cfg.Auth.JWTSecret, Issuer: cfg.Auth.Issuer, TTL: cfg.Auth.TokenTTL},
		BcryptCost: cfg.Auth.BcryptCost,
	})
	account, _, err := authService.Register(ctx, auth.RegisterInput{
		Name:     config.GetEnv("DEMO_NAME", "Demo Investor"),
		Email:    email,
		Password: password,
		City:     "Colombo",
	})
	if errors.Is(err, apperrors.ErrDuplicateEmail) {
		logging.Log.Info("Demo account already exists")
		return
	}
	if err != nil {
		logging.Log.Fatalf("Failed to create demo account: %v", err)
	}

	ledgerService := ledger.NewService(accounts, cache.NoopCache{}, ledger.Config{
		PricePerGramLKR:  cfg.Ledger.PricePerGramLKR,
		MinInvestmentLKR: cfg.Ledger.MinInvestmentLKR,
	}, ledger.NoopMetricsCollector{})

	seed := []ledger.InvestRequest{
		{AmountLKR: 5000},
		{AmountLKR: 2500, SaveAsAuto: true, Frequency: models.FrequencyMonthly},
		{AmountLKR: 11000},
	}
	for _, req := range seed {
		if _, err := ledgerService.Invest(ctx, account.ID, req); err != nil {
			logging.Log.Fatalf("Failed to seed investment: %v", err)
		}
	}

	logging.WithAccount(account.ID).Infof("Demo account %s created", email)
}
