package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/paymenu/grouppay/internal/config"
)

// HashAPIKey creates a SHA-256 hash of the API key
func HashAPIKey(key string) string {
	hasher := sha256.New()
	hasher.Write([]byte(key))
	return hex.EncodeToString(hasher.Sum(nil))
}

// GenerateAPIKey generates a new API key.
// The key is returned in its raw form, it should be hashed before storing.
func GenerateAPIKey() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	return hex.EncodeToString(key)
}

// ValidateConfigAPIKey validates an API key against the static configuration.
// Returns the account ID if the key is known and active.
func ValidateConfigAPIKey(cfg *config.Configuration, key string) (string, bool) {
	hashedKey := HashAPIKey(key)
	if details, exists := cfg.Auth.APIKeys[hashedKey]; exists && details.IsActive {
		return details.AccountID, true
	}
	return "", false
}
