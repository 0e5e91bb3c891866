package postgres

import (
	"context"
	"time"

	"github.com/paymenu/grouppay/internal/domain/holiday"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/postgres"
	"github.com/paymenu/grouppay/internal/types"
)

type holidayRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewHolidayRepository(db postgres.IClient, logger *logger.Logger) holiday.Repository {
	return &holidayRepository{db: db, logger: logger}
}

func (r *holidayRepository) Create(ctx context.Context, h *holiday.Holiday) error {
	query := `
		INSERT INTO holidays (
			id, name, date,
			account_id, status, created_at, updated_at
		) VALUES (
			:id, :name, :date,
			:account_id, :status, :created_at, :updated_at
		)`

	r.logger.Debugw("creating holiday", "holiday_id", h.ID, "date", h.Date)

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, h); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create holiday").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *holidayRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE holidays SET status = $1, updated_at = $2 WHERE id = $3`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, time.Now().UTC(), id)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete holiday").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *holidayRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*holiday.Holiday, error) {
	query := `
		SELECT * FROM holidays
		WHERE date >= $1 AND date < $2 AND status = $3
		ORDER BY date`

	var holidays []*holiday.Holiday
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &holidays, query, from, to, types.StatusPublished)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list holidays").
			Mark(ierr.ErrDatabase)
	}
	return holidays, nil
}

func (r *holidayRepository) List(ctx context.Context) ([]*holiday.Holiday, error) {
	query := `SELECT * FROM holidays WHERE status = $1 ORDER BY date`

	var holidays []*holiday.Holiday
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &holidays, query, types.StatusPublished)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list holidays").
			Mark(ierr.ErrDatabase)
	}
	return holidays, nil
}
