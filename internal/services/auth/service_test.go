package auth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "goldnest/internal/errors"
	"goldnest/internal/repositories"
	"goldnest/internal/repositories/cache"
	"goldnest/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T) (Service, repositories.AccountRepository, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC)}
	repo := repositories.NewMemoryAccountRepository()
	svc := NewService(repo, cache.NoopCache{}, Config{
		Token:         utils.TokenConfig{Secret: "test-secret", Issuer: "goldnest-test", TTL: 30 * 24 * time.Hour},
		ResetTokenTTL: 10 * time.Minute,
		BcryptCost:    bcrypt.MinCost,
		Now:           clock.Now,
	})
	return svc, repo, clock
}

func register(t *testing.T, svc Service, email, password string) string {
	t.Helper()
	account, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Amaya Perera",
		Email:    email,
		Password: password,
		City:     "Colombo",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return account.ID
}

func TestRegister(t *testing.T) {
	svc, repo, _ := newTestService(t)

	account, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "  Amaya Perera ",
		Email:    " Amaya@Example.COM ",
		Password: "goldnest123",
		Phone:    "0771234567",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "amaya@example.com", account.Email)
	assert.Equal(t, "Amaya Perera", account.Name)
	assert.Zero(t, account.GoldBalanceGrams)
	assert.NotEqual(t, "goldnest123", account.Password)

	stored, err := repo.GetByEmail(context.Background(), "amaya@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, stored.ID)
	assert.Empty(t, stored.Transactions)
	assert.Empty(t, stored.AutomaticPayments)
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "amaya@example.com", "goldnest123")

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Someone Else",
		Email:    "AMAYA@example.com",
		Password: "another-pass",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input RegisterInput
	}{
		{name: "missing name", input: RegisterInput{Email: "a@example.com", Password: "goldnest123"}},
		{name: "bad email", input: RegisterInput{Name: "A", Email: "not-an-email", Password: "goldnest123"}},
		{name: "short password", input: RegisterInput{Name: "A", Email: "a@example.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			_, _, err := svc.Register(context.Background(), tt.input)
			require.Error(t, err)

			de, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.KindValidation, de.Kind)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newTestService(t)
	id := register(t, svc, "amaya@example.com", "goldnest123")

	account, token, err := svc.Authenticate(context.Background(), "Amaya@example.com", "goldnest123")
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)

	claims, err := svc.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.AccountID)
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "amaya@example.com", "goldnest123")

	_, _, wrongPassword := svc.Authenticate(context.Background(), "amaya@example.com", "wrong-password")
	_, _, unknownEmail := svc.Authenticate(context.Background(), "nobody@example.com", "goldnest123")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.Equal(t, "Invalid email or password", wrongPassword.Error())
}

func TestVerifyToken(t *testing.T) {
	svc, repo, clock := newTestService(t)
	id := register(t, svc, "amaya@example.com", "goldnest123")
	account, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.VerifyToken(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := utils.GenerateToken(utils.TokenConfig{Secret: "other", TTL: time.Hour}, account, clock.Now())
		require.NoError(t, err)
		_, err = svc.VerifyToken(context.Background(), token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.IssueToken(account)
		require.NoError(t, err)
		clock.Advance(31 * 24 * time.Hour)
		defer clock.Advance(-31 * 24 * time.Hour)

		_, err = svc.VerifyToken(context.Background(), token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestPasswordReset(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "amaya@example.com", "goldnest123")

	_, oldToken, err := svc.Authenticate(context.Background(), "amaya@example.com", "goldnest123")
	require.NoError(t, err)

	raw, err := svc.RequestPasswordReset(context.Background(), "amaya@example.com")
	require.NoError(t, err)
	assert.Len(t, raw, 40)

	_, err = svc.ResetPassword(context.Background(), raw, "new-password-1")
	require.NoError(t, err)

	// token is single use
	_, err = svc.ResetPassword(context.Background(), raw, "new-password-2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)

	_, _, err = svc.Authenticate(context.Background(), "amaya@example.com", "goldnest123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, _, err = svc.Authenticate(context.Background(), "amaya@example.com", "new-password-1")
	assert.NoError(t, err)

	_, err = svc.VerifyToken(context.Background(), oldToken)
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
}

func TestPasswordReset_Expired(t *testing.T) {
	svc, _, clock := newTestService(t)
	register(t, svc, "amaya@example.com", "goldnest123")

	raw, err := svc.RequestPasswordReset(context.Background(), "amaya@example.com")
	require.NoError(t, err)

	clock.Advance(10*time.Minute + time.Second)
	_, err = svc.ResetPassword(context.Background(), raw, "new-password-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestPasswordReset_NewRequestReplacesOldToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "amaya@example.com", "goldnest123")

	first, err := svc.RequestPasswordReset(context.Background(), "amaya@example.com")
	require.NoError(t, err)
	second, err := svc.RequestPasswordReset(context.Background(), "amaya@example.com")
	require.NoError(t, err)

	_, err = svc.ResetPassword(context.Background(), first, "new-password-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
	_, err = svc.ResetPassword(context.Background(), second, "new-password-1")
	assert.NoError(t, err)
}

func TestPasswordReset_WeakPasswordCheckedFirst(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ResetPassword(context.Background(), "does-not-exist", "short")
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestPasswordReset_ConcurrentConsumeSucceedsOnce(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "amaya@example.com", "goldnest123")

	raw, err := svc.RequestPasswordReset(context.Background(), "amaya@example.com")
	require.NoError(t, err)

	var succeeded int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ResetPassword(context.Background(), raw, "new-password-1"); err == nil {
				atomic.AddInt32(&succeeded, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded)
}

func TestPasswordReset_InvalidatesCachedProfile(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC)}
	repo := repositories.NewMemoryAccountRepository()
	store := cache.NewMemoryCache(time.Minute)
	svc := NewService(repo, store, Config{
		Token:         utils.TokenConfig{Secret: "test-secret", Issuer: "goldnest-test", TTL: time.Hour},
		ResetTokenTTL: 10 * time.Minute,
		BcryptCost:    bcrypt.MinCost,
		Now:           clock.Now,
	})

	id := register(t, svc, "amaya@example.com", "goldnest123")
	before, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	stored, err := store.SetVersioned(ctx, "account:profile:"+id, "account:version:"+id, before.Version, map[string]string{"name": "old"})
	require.NoError(t, err)
	require.True(t, stored)

	raw, err := svc.RequestPasswordReset(ctx, "amaya@example.com")
	require.NoError(t, err)
	_, err = svc.ResetPassword(ctx, raw, "newpassword1")
	require.NoError(t, err)

	hit, err := store.Get(ctx, "account:profile:"+id, &map[string]string{})
	require.NoError(t, err)
	assert.False(t, hit)

	// a reader that loaded the account before the reset cannot repopulate the cache
	stored, err = store.SetVersioned(ctx, "account:profile:"+id, "account:version:"+id, before.Version, map[string]string{"name": "old"})
	require.NoError(t, err)
	assert.False(t, stored)
}
