package auth

import (
	"context"
	"testing"

	"github.com/paymenu/grouppay/internal/cache"
	"github.com/paymenu/grouppay/internal/config"
	"github.com/paymenu/grouppay/internal/domain/account"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/testutil"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, accounts account.Repository) *Service {
	t.Helper()
	cfg := config.GetDefaultConfig()
	log, err := logger.NewLogger(cfg)
	require.NoError(t, err)
	return NewService(cfg, accounts, cache.NewInMemoryCache(), log)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, testutil.NewInMemoryAccountStore())

	token, err := svc.IssueToken(context.Background(), "acc_1")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "acc_1", claims.AccountID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(t, testutil.NewInMemoryAccountStore())

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.True(t, ierr.IsPermissionDenied(err))
}

func TestAuthenticateAPIKeyFromConfig(t *testing.T) {
	svc := newTestService(t, testutil.NewInMemoryAccountStore())
	rawKey := GenerateAPIKey()
	svc.cfg.Auth.APIKeys = map[string]config.APIKeyDetails{
		HashAPIKey(rawKey): {AccountID: "acc_cfg", Name: "test", IsActive: true},
	}

	accountID, err := svc.AuthenticateAPIKey(context.Background(), rawKey)
	require.NoError(t, err)
	assert.Equal(t, "acc_cfg", accountID)
}

func TestAuthenticateAPIKeyInactiveConfigKey(t *testing.T) {
	svc := newTestService(t, testutil.NewInMemoryAccountStore())
	rawKey := GenerateAPIKey()
	svc.cfg.Auth.APIKeys = map[string]config.APIKeyDetails{
		HashAPIKey(rawKey): {AccountID: "acc_cfg", IsActive: false},
	}

	_, err := svc.AuthenticateAPIKey(context.Background(), rawKey)
	assert.True(t, ierr.IsPermissionDenied(err))
}

func TestAuthenticateAPIKeyFromAccountRow(t *testing.T) {
	store := testutil.NewInMemoryAccountStore()
	rawKey := GenerateAPIKey()
	hash, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.MinCost)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Create(ctx, &account.Account{
		ID:         "acc_row",
		Name:       "row account",
		APIKeyHash: string(hash),
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}))

	svc := newTestService(t, store)

	accountID, err := svc.AuthenticateAPIKey(ctx, rawKey)
	require.NoError(t, err)
	assert.Equal(t, "acc_row", accountID)

	// second lookup resolves from cache
	accountID, err = svc.AuthenticateAPIKey(ctx, rawKey)
	require.NoError(t, err)
	assert.Equal(t, "acc_row", accountID)
}

func TestAuthenticateAPIKeyUnknown(t *testing.T) {
	svc := newTestService(t, testutil.NewInMemoryAccountStore())

	_, err := svc.AuthenticateAPIKey(context.Background(), GenerateAPIKey())
	assert.True(t, ierr.IsPermissionDenied(err))
}
