package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/paymenu/grouppay/internal/domain/account"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/postgres"
	"github.com/paymenu/grouppay/internal/types"
)

type accountRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewAccountRepository(db postgres.IClient, logger *logger.Logger) account.Repository {
	return &accountRepository{db: db, logger: logger}
}

func (r *accountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (
			id, name, corporate_name, email, document_number,
			api_key_hash, gateway_recipient_id,
			account_id, status, created_at, updated_at
		) VALUES (
			:id, :name, :corporate_name, :email, :document_number,
			:api_key_hash, :gateway_recipient_id,
			:account_id, :status, :created_at, :updated_at
		)`

	r.logger.Debugw("creating account", "account_id", acc.ID)

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, acc); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create account").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	var acc account.Account
	query := `SELECT * FROM accounts WHERE id = $1 AND status != $2`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &acc, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("Account not found").
				WithReportableDetails(map[string]any{"account_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get account").
			Mark(ierr.ErrDatabase)
	}
	return &acc, nil
}

func (r *accountRepository) Update(ctx context.Context, acc *account.Account) error {
	acc.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE accounts SET
			name = :name,
			corporate_name = :corporate_name,
			email = :email,
			document_number = :document_number,
			api_key_hash = :api_key_hash,
			gateway_recipient_id = :gateway_recipient_id,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id`

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, acc); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update account").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *accountRepository) List(ctx context.Context) ([]*account.Account, error) {
	var accounts []*account.Account
	query := `SELECT * FROM accounts WHERE status = $1 ORDER BY created_at`

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &accounts, query, types.StatusPublished)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list accounts").
			Mark(ierr.ErrDatabase)
	}
	return accounts, nil
}
