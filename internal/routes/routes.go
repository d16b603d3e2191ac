// Package routes builds the fiber application and its API routing.
package routes

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"goldnest/internal/config"
	"goldnest/internal/handlers"
	"goldnest/internal/logging"
	"goldnest/internal/metrics"
	"goldnest/internal/middleware"
	"goldnest/internal/repositories"
	"goldnest/internal/repositories/cache"
	"goldnest/internal/services/account"
	"goldnest/internal/services/auth"
	"goldnest/internal/services/ledger"
	"goldnest/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const Version = "1.0.0"

// Dependencies are the stores and settings the routes are built from.
type Dependencies struct {
	Config       config.Config
	Accounts     repositories.AccountRepository
	Cache        repositories.CacheRepository
	HealthChecks map[string]handlers.HealthCheck
	// DisableAccessLog turns off the request logger, e.g. in tests.
	DisableAccessLog bool
}

// NewApp creates the fiber app with the global middleware and every route.
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "GoldNest API",
		ErrorHandler: errorHandler,
	})

	// a panicking handler answers 500 instead of taking the process down
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logging.Log.WithField("path", c.Path()).Errorf("panic recovered: %v", e)
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	if !deps.DisableAccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(metrics.Middleware())

	SetupRoutes(app, deps)
	return app
}

// SetupRoutes wires services and handlers and registers the routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	cfg := deps.Config
	store := deps.Cache
	if store == nil {
		store = cache.NoopCache{}
	}

	authService := auth.NewService(deps.Accounts, store, auth.Config{
		Token: utils.TokenConfig{
			Secret: cfg.Auth.JWTSecret,
			Issuer: cfg.Auth.Issuer,
			TTL:    cfg.Auth.TokenTTL,
		},
		ResetTokenTTL: cfg.Auth.ResetTokenTTL,
		BcryptCost:    cfg.Auth.BcryptCost,
	})
	ledgerService := ledger.NewService(deps.Accounts, store, ledger.Config{
		PricePerGramLKR:  cfg.Ledger.PricePerGramLKR,
		MinInvestmentLKR: cfg.Ledger.MinInvestmentLKR,
	}, nil)
	accountService := account.NewService(deps.Accounts, store, account.Config{
		PricePerGramLKR: cfg.Ledger.PricePerGramLKR,
	})

	authHandler := handlers.NewAuthHandler(authService, cfg.Auth.ResetTokenEcho)
	investmentHandler := handlers.NewInvestmentHandler(ledgerService, accountService)
	accountHandler := handlers.NewAccountHandler(accountService)
	healthHandler := handlers.NewHealthHandler(Version, deps.HealthChecks)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	app.Get("/", handlers.Welcome)
	app.Get("/health", healthHandler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", rateLimit(cfg.Auth.RateLimit), authHandler.Register)
	authRoutes.Post("/login", rateLimit(cfg.Auth.RateLimit), authHandler.Login)
	authRoutes.Post("/forgot-password", rateLimit(cfg.Auth.RateLimit), authHandler.ForgotPassword)
	authRoutes.Put("/reset-password/:resettoken", authHandler.ResetPassword)

	investments := api.Group("/investments", authMiddleware.Handler)
	investments.Post("/invest", investmentHandler.Invest)

	users := api.Group("/users", authMiddleware.Handler)
	users.Get("/me", accountHandler.GetMe)
	users.Get("/me/transactions", accountHandler.GetTransactions)
}

// rateLimit allows maxRequests requests per client IP per minute. A non-positive max
// disables limiting.
func rateLimit(maxRequests int) fiber.Handler {
	if maxRequests <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests. Please try again later.",
				"code":    "RATE_LIMITED",
			})
		},
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := strings.ToUpper(strings.ReplaceAll(http.StatusText(fe.Code), " ", "_"))
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message, "code": code})
	}
	return utils.Error(c, err, "Server error")
}
