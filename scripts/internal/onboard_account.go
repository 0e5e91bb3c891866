package internal

import (
	"context"
	"fmt"
	"os"

	"github.com/paymenu/grouppay/internal/auth"
	"github.com/paymenu/grouppay/internal/config"
	"github.com/paymenu/grouppay/internal/domain/account"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/postgres"
	"github.com/paymenu/grouppay/internal/repository"
	"github.com/paymenu/grouppay/internal/types"
	"golang.org/x/crypto/bcrypt"
)

// OnboardNewAccount creates an account row with a fresh API key and
// prints the raw key once
func OnboardNewAccount() error {
	name := os.Getenv("ACCOUNT_NAME")
	if name == "" {
		return fmt.Errorf("ACCOUNT_NAME is required")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return err
	}
	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	rawKey := auth.GenerateAPIKey()
	hash, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	acc := &account.Account{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ACCOUNT),
		Name:       name,
		Email:      os.Getenv("ACCOUNT_EMAIL"),
		APIKeyHash: string(hash),
		BaseModel:  types.GetDefaultBaseModel(context.Background()),
	}
	acc.AccountID = acc.ID

	repo := repository.NewAccountRepository(db, log)
	if err := repo.Create(context.Background(), acc); err != nil {
		return err
	}

	fmt.Printf("\nAccount created:\n")
	fmt.Printf("  ID:      %s\n", acc.ID)
	fmt.Printf("  Name:    %s\n", acc.Name)
	fmt.Printf("  API Key: %s\n", rawKey)
	fmt.Printf("\nThe key is not stored in clear anywhere, save it now.\n")
	return nil
}
