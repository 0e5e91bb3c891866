package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/paymenu/grouppay/internal/cache"
	"github.com/paymenu/grouppay/internal/config"
	"github.com/paymenu/grouppay/internal/domain/account"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTTL          = 24 * time.Hour
	apiKeyCacheTTL    = 5 * time.Minute
	cachePrefixAPIKey = "auth:apikey"
)

// Claims carries the authenticated account through a JWT
type Claims struct {
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}

// Service resolves credentials to accounts. API keys are checked first
// against the static config, then against the account table where each
// account stores a bcrypt hash of its key.
type Service struct {
	cfg      *config.Configuration
	accounts account.Repository
	cache    cache.Cache
	logger   *logger.Logger
}

func NewService(
	cfg *config.Configuration,
	accounts account.Repository,
	c cache.Cache,
	log *logger.Logger,
) *Service {
	return &Service{
		cfg:      cfg,
		accounts: accounts,
		cache:    c,
		logger:   log,
	}
}

// IssueToken signs a session JWT for the given account
func (s *Service) IssueToken(_ context.Context, accountID string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Auth.Secret))
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to sign session token").
			Mark(ierr.ErrSystem)
	}
	return signed, nil
}

// ValidateToken parses and verifies a session JWT
func (s *Service) ValidateToken(_ context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.Auth.Secret), nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid or expired session token").
			Mark(ierr.ErrPermissionDenied)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.AccountID == "" {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid or expired session token").
			Mark(ierr.ErrPermissionDenied)
	}
	return claims, nil
}

// AuthenticateAPIKey resolves an API key to the owning account ID
func (s *Service) AuthenticateAPIKey(ctx context.Context, key string) (string, error) {
	if accountID, ok := ValidateConfigAPIKey(s.cfg, key); ok {
		return accountID, nil
	}

	cacheKey := cache.GenerateKey(cachePrefixAPIKey, HashAPIKey(key))
	if cached, found := s.cache.Get(ctx, cacheKey); found {
		if accountID, ok := cached.(string); ok {
			return accountID, nil
		}
	}

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return "", err
	}
	for _, acc := range accounts {
		if acc.APIKeyHash == "" {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(acc.APIKeyHash), []byte(key)) == nil {
			s.cache.Set(ctx, cacheKey, acc.ID, apiKeyCacheTTL)
			return acc.ID, nil
		}
	}

	return "", ierr.NewError("unknown api key").
		WithHint("Invalid API key").
		Mark(ierr.ErrPermissionDenied)
}
