package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/paymenu/grouppay/internal/domain/charge"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/postgres"
	"github.com/paymenu/grouppay/internal/types"
)

type chargeRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewChargeRepository(db postgres.IClient, logger *logger.Logger) charge.Repository {
	return &chargeRepository{db: db, logger: logger}
}

func (r *chargeRepository) Create(ctx context.Context, ch *charge.Charge) error {
	query := `
		INSERT INTO charges (
			id, recurrence_id, end_user_id, schedule_pointer,
			next_expiration, current_invoice_id,
			account_id, status, created_at, updated_at
		) VALUES (
			:id, :recurrence_id, :end_user_id, :schedule_pointer,
			:next_expiration, :current_invoice_id,
			:account_id, :status, :created_at, :updated_at
		)`

	r.logger.Debugw("creating charge",
		"charge_id", ch.ID,
		"recurrence_id", ch.RecurrenceID,
		"end_user_id", ch.EndUserID,
	)

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, ch); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create charge").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *chargeRepository) Get(ctx context.Context, id string) (*charge.Charge, error) {
	var ch charge.Charge
	query := `SELECT * FROM charges WHERE id = $1 AND account_id = $2 AND status != $3`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &ch, query, id, types.GetAccountID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("Charge not found").
				WithReportableDetails(map[string]any{"charge_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get charge").
			Mark(ierr.ErrDatabase)
	}
	return &ch, nil
}

func (r *chargeRepository) Update(ctx context.Context, ch *charge.Charge) error {
	ch.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE charges SET
			schedule_pointer = :schedule_pointer,
			next_expiration = :next_expiration,
			current_invoice_id = :current_invoice_id,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id AND account_id = :account_id`

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, ch); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update charge").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *chargeRepository) GetByEndUserAndRecurrence(ctx context.Context, endUserID, recurrenceID string) (*charge.Charge, error) {
	var ch charge.Charge
	query := `
		SELECT * FROM charges
		WHERE end_user_id = $1 AND recurrence_id = $2 AND account_id = $3 AND status != $4`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &ch, query,
		endUserID, recurrenceID, types.GetAccountID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("Charge not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get charge").
			Mark(ierr.ErrDatabase)
	}
	return &ch, nil
}

func (r *chargeRepository) ListByEndUser(ctx context.Context, endUserID string) ([]*charge.Charge, error) {
	query := `
		SELECT * FROM charges
		WHERE end_user_id = $1 AND account_id = $2 AND status = $3
		ORDER BY created_at`

	var charges []*charge.Charge
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &charges, query,
		endUserID, types.GetAccountID(ctx), types.StatusPublished)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list charges").
			Mark(ierr.ErrDatabase)
	}
	return charges, nil
}

func (r *chargeRepository) ListByRecurrence(ctx context.Context, recurrenceID string) ([]*charge.Charge, error) {
	query := `
		SELECT * FROM charges
		WHERE recurrence_id = $1 AND status = $2
		ORDER BY created_at`

	var charges []*charge.Charge
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &charges, query,
		recurrenceID, types.StatusPublished)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list charges").
			Mark(ierr.ErrDatabase)
	}
	return charges, nil
}

func (r *chargeRepository) ListDue(ctx context.Context, before time.Time) ([]*charge.Charge, error) {
	// The sweep crosses accounts, the closed sentinel never matches
	query := `
		SELECT * FROM charges
		WHERE schedule_pointer != $1
		  AND next_expiration IS NOT NULL
		  AND next_expiration <= $2
		  AND status = $3
		ORDER BY next_expiration`

	var charges []*charge.Charge
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &charges, query,
		charge.ClosedPointer, before, types.StatusPublished)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list due charges").
			Mark(ierr.ErrDatabase)
	}
	return charges, nil
}
