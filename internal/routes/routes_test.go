package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"goldnest/internal/config"
	"goldnest/internal/models"
	"goldnest/internal/repositories"
	"goldnest/internal/repositories/cache"
	"goldnest/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "routes-test-secret"

func testConfig() config.Config {
	return config.Config{
		Env:         "test",
		CORSOrigins: "http://localhost:3000",
		Auth: config.AuthConfig{
			JWTSecret:      testSecret,
			Issuer:         "goldnest-test",
			TokenTTL:       time.Hour,
			ResetTokenTTL:  10 * time.Minute,
			ResetTokenEcho: true,
			BcryptCost:     bcrypt.MinCost,
		},
		Ledger: config.LedgerConfig{PricePerGramLKR: 11000, MinInvestmentLKR: 100},
	}
}

func newTestApp(t *testing.T, cfg config.Config) *fiber.App {
	t.Helper()
	return NewApp(Dependencies{
		Config:           cfg,
		Accounts:         repositories.NewMemoryAccountRepository(),
		Cache:            cache.NewMemoryCache(time.Minute),
		DisableAccessLog: true,
	})
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]interface{}{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func registerAccount(t *testing.T, app *fiber.App, email string) map[string]interface{} {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Kasun Silva",
		"email":    email,
		"password": "goldnest123",
		"phone":    "0711111111",
		"nic":      "199012345678",
		"address":  "12 Galle Road",
		"city":     "Colombo",
	})
	require.Equal(t, http.StatusCreated, status, body)
	return body
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t, testConfig())

	body := registerAccount(t, app, "Kasun@Example.com")
	for _, field := range []string{"_id", "name", "email", "phone", "nic", "address", "city", "goldBalanceGrams", "token"} {
		assert.Contains(t, body, field)
	}
	assert.Equal(t, "kasun@example.com", body["email"])
	assert.Equal(t, 0.0, body["goldBalanceGrams"])
	assert.NotContains(t, body, "password")

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Other", "email": "KASUN@example.com", "password": "goldnest123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "USER_EXISTS", body["code"])

	status, body = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "kasun@example.com", "password": "goldnest123",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
}

func TestLoginFailuresLookAlike(t *testing.T) {
	app := newTestApp(t, testConfig())
	registerAccount(t, app, "kasun@example.com")

	wrongStatus, wrongBody := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "kasun@example.com", "password": "not-the-password",
	})
	unknownStatus, unknownBody := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ghost@example.com", "password": "goldnest123",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongStatus)
	assert.Equal(t, wrongStatus, unknownStatus)
	assert.Equal(t, wrongBody, unknownBody)
	assert.Equal(t, "Invalid email or password", wrongBody["message"])
	assert.Equal(t, "INVALID_CREDENTIALS", wrongBody["code"])
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t, testConfig())

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Short", "email": "short@example.com", "password": "1234",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Password must be at least 8 characters long.", body["message"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/register", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestInvestFlow(t *testing.T) {
	app := newTestApp(t, testConfig())
	token := registerAccount(t, app, "kasun@example.com")["token"].(string)

	status, body := doJSON(t, app, http.MethodPost, "/api/investments/invest", "", map[string]interface{}{"amountLKR": 1100})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "NO_TOKEN", body["code"])

	status, body = doJSON(t, app, http.MethodPost, "/api/investments/invest", "garbage", map[string]interface{}{"amountLKR": 1100})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", body["code"])

	status, body = doJSON(t, app, http.MethodPost, "/api/investments/invest", token, map[string]interface{}{
		"amountLKR": "1100", "saveAsAuto": true, "frequency": "weekly",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.InDelta(t, 0.1, body["newGoldBalanceGrams"], 1e-9)
	assert.Equal(t, "Investment successful! Automatic weekly payment saved.", body["message"])
	tx := body["transaction"].(map[string]interface{})
	assert.Equal(t, "investment", tx["type"])
	assert.Equal(t, "Invested Rs. 1100.00", tx["description"])
	updated := body["updatedUserInfo"].(map[string]interface{})
	assert.Len(t, updated["automaticPayments"], 1)
	assert.Contains(t, updated, "challengePercent")
	assert.Contains(t, updated["earnedBadgeIds"], "auto_saver")
	assert.NotContains(t, updated, "password")
	assert.NotContains(t, updated, "updatedAt")

	for _, amount := range []interface{}{50, "abc", nil, true} {
		status, body = doJSON(t, app, http.MethodPost, "/api/investments/invest", token, map[string]interface{}{"amountLKR": amount})
		assert.Equal(t, http.StatusBadRequest, status, amount)
		assert.Equal(t, "INVALID_AMOUNT", body["code"], amount)
	}

	status, body = doJSON(t, app, http.MethodPost, "/api/investments/invest", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_AMOUNT", body["code"])

	status, body = doJSON(t, app, http.MethodPost, "/api/investments/invest", token, map[string]interface{}{
		"amountLKR": 500, "saveAsAuto": true, "frequency": "hourly",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_FREQUENCY", body["code"])

	status, body = doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 0.1, body["goldBalanceGrams"], 1e-9)
	assert.Len(t, body["transactions"], 1)
	assert.Contains(t, body["earnedBadgeIds"], "first_investment")
	portfolio := body["portfolio"].(map[string]interface{})
	assert.Equal(t, 1100.0, portfolio["totalInvestedLKR"])
	assert.Contains(t, body, "gamification")

	status, body = doJSON(t, app, http.MethodGet, "/api/users/me/transactions?type=investment&page=1&limit=10", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, 1.0, pagination["total"])

	status, body = doJSON(t, app, http.MethodGet, "/api/users/me/transactions?type=gift", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_TRANSACTION_TYPE", body["code"])

	// the cached profile follows later investments
	status, _ = doJSON(t, app, http.MethodPost, "/api/investments/invest", token, map[string]interface{}{"amountLKR": 2200})
	require.Equal(t, http.StatusOK, status)
	status, body = doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 0.3, body["goldBalanceGrams"], 1e-9)
	assert.Len(t, body["transactions"], 2)
}

func TestTransactionsHugePage(t *testing.T) {
	app := newTestApp(t, testConfig())
	token := registerAccount(t, app, "nuwan@example.com")["token"].(string)

	status, _ := doJSON(t, app, http.MethodPost, "/api/investments/invest", token, map[string]interface{}{"amountLKR": 1100})
	require.Equal(t, http.StatusOK, status)

	for _, query := range []string{
		"?page=92233720368547760&limit=100",
		"?page=9223372036854775807&limit=1",
		"?page=99999999999999999999999",
	} {
		status, body := doJSON(t, app, http.MethodGet, "/api/users/me/transactions"+query, token, nil)
		require.Equal(t, http.StatusOK, status, query)
		assert.NotNil(t, body["data"], query)
	}

	status, body := doJSON(t, app, http.MethodGet, "/api/users/me/transactions?page=92233720368547760&limit=100", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["data"])
	assert.Equal(t, 1.0, body["pagination"].(map[string]interface{})["total"])
}

func TestPanicIsRecovered(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("handler bug")
	})

	status, body := doJSON(t, app, http.MethodGet, "/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "SERVER_ERROR", body["code"])

	status, _ = doJSON(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestTokenForMissingAccount(t *testing.T) {
	cfg := testConfig()
	app := newTestApp(t, cfg)

	token, err := utils.GenerateToken(utils.TokenConfig{Secret: testSecret, TTL: time.Hour},
		&models.Account{ID: "9b0f7c1e-0000-4000-8000-000000000000", TokenVersion: 1}, time.Now())
	require.NoError(t, err)

	status, body := doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", body["code"])
}

func TestPasswordResetFlow(t *testing.T) {
	app := newTestApp(t, testConfig())
	oldToken := registerAccount(t, app, "kasun@example.com")["token"].(string)

	status, unknown := doJSON(t, app, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "If an account exists for that email, a reset token has been generated.", unknown["message"])
	assert.NotContains(t, unknown, "resetToken")

	status, known := doJSON(t, app, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "kasun@example.com"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, unknown["message"], known["message"])
	resetToken, ok := known["resetToken"].(string)
	require.True(t, ok)

	status, body := doJSON(t, app, http.MethodPut, "/api/auth/reset-password/"+resetToken, "", map[string]string{"password": "short"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "WEAK_PASSWORD", body["code"])

	status, body = doJSON(t, app, http.MethodPut, "/api/auth/reset-password/"+resetToken, "", map[string]string{"password": "brand-new-pass"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Password reset successful.", body["message"])

	status, body = doJSON(t, app, http.MethodPut, "/api/auth/reset-password/"+resetToken, "", map[string]string{"password": "another-pass"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_RESET_TOKEN", body["code"])

	status, body = doJSON(t, app, http.MethodGet, "/api/users/me", oldToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "SESSION_EXPIRED", body["code"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "kasun@example.com", "password": "brand-new-pass",
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestResetTokenNotEchoedWhenDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.ResetTokenEcho = false
	app := newTestApp(t, cfg)
	registerAccount(t, app, "kasun@example.com")

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "kasun@example.com"})
	assert.Equal(t, http.StatusOK, status)
	assert.NotContains(t, body, "resetToken")
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.RateLimit = 2
	app := newTestApp(t, cfg)

	creds := map[string]string{"email": "ghost@example.com", "password": "whatever-pass"}
	for i := 0; i < 2; i++ {
		status, _ := doJSON(t, app, http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, status)
	}
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMITED", body["code"])
}

func TestPublicEndpoints(t *testing.T) {
	app := newTestApp(t, testConfig())

	status, body := doJSON(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = doJSON(t, app, http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "goldnest_http_requests_total")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
