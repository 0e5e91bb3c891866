package internal

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paymenu/grouppay/internal/auth"
	"github.com/paymenu/grouppay/internal/config"
)

// GenerateNewAPIKey generates a new API key and prints the config entry
// that activates it
func GenerateNewAPIKey() error {
	rawKey := auth.GenerateAPIKey()
	hashedKey := auth.HashAPIKey(rawKey)

	accountID := os.Getenv("ACCOUNT_ID")
	if accountID == "" {
		accountID = "00000000-0000-0000-0000-000000000000"
	}

	details := config.APIKeyDetails{
		AccountID: accountID,
		Name:      "Dev API Key",
		IsActive:  true,
	}

	keysMap := map[string]config.APIKeyDetails{
		hashedKey: details,
	}
	jsonBytes, err := json.Marshal(keysMap)
	if err != nil {
		return err
	}

	fmt.Printf("\nNew API Key Generated:\n")
	fmt.Printf("Raw Key (give this to your customer): %s\n", rawKey)
	fmt.Printf("\nAdd this to your config.yaml under auth.api_keys:\n")
	fmt.Printf("%s:\n", hashedKey)
	fmt.Printf("  account_id: %s\n", details.AccountID)
	fmt.Printf("  name: %s\n", details.Name)
	fmt.Printf("  is_active: %v\n", details.IsActive)
	fmt.Printf("\nOr set this environment variable:\n")
	fmt.Printf("GROUPPAY_AUTH_API_KEYS='%s'\n", string(jsonBytes))
	return nil
}
