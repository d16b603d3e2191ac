package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetFloatEnv returns a float environment variable or a default value.
func GetFloatEnv(key string, defaultVal float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable (e.g. "720h") or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type AuthConfig struct {
	JWTSecret      string
	Issuer         string
	TokenTTL       time.Duration
	ResetTokenTTL  time.Duration
	ResetTokenEcho bool
	BcryptCost     int
	RateLimit      int
}

type LedgerConfig struct {
	PricePerGramLKR  float64
	MinInvestmentLKR float64
}

// Config is the full application configuration, read once at startup.
type Config struct {
	Env         string
	Port        string
	LogLevel    string
	CORSOrigins string
	StoreDriver string
	DB          DBConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Ledger      LedgerConfig
}

// Load builds a Config from the environment.
func Load() Config {
	env := GetEnv("ENV", "development")

	return Config{
		Env:         env,
		Port:        GetEnv("PORT", "5001"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		CORSOrigins: GetEnv("CORS_ORIGINS", "http://localhost:3000"),
		StoreDriver: strings.ToLower(GetEnv("STORE_DRIVER", StoreDriverPostgres)),
		DB: DBConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "goldnest"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  GetBoolEnv("REDIS_ENABLED", true),
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
			TTL:      GetDurationEnv("CACHE_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:      GetEnv("JWT_SECRET", "goldnest-dev-secret"),
			Issuer:         GetEnv("JWT_ISSUER", "goldnest-api"),
			TokenTTL:       GetDurationEnv("TOKEN_TTL", 30*24*time.Hour),
			ResetTokenTTL:  GetDurationEnv("RESET_TOKEN_TTL", 10*time.Minute),
			ResetTokenEcho: GetBoolEnv("RESET_TOKEN_ECHO", env != "production"),
			BcryptCost:     GetIntEnv("BCRYPT_COST", 10),
			RateLimit:      GetIntEnv("AUTH_RATE_LIMIT", 5),
		},
		Ledger: LedgerConfig{
			PricePerGramLKR:  GetFloatEnv("GOLD_PRICE_PER_GRAM_LKR", 11000),
			MinInvestmentLKR: GetFloatEnv("MIN_INVESTMENT_LKR", 100),
		},
	}
}
