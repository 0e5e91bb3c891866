package postgres

import (
	"context"
	"time"

	"github.com/paymenu/grouppay/internal/domain/notification"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/postgres"
	"github.com/paymenu/grouppay/internal/types"
)

type notificationRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewNotificationRepository(db postgres.IClient, logger *logger.Logger) notification.Repository {
	return &notificationRepository{db: db, logger: logger}
}

func (r *notificationRepository) Create(ctx context.Context, setting *notification.Setting) error {
	query := `
		INSERT INTO notification_settings (
			id, recurrence_id, type, days_from_expiration, subject, body,
			account_id, status, created_at, updated_at
		) VALUES (
			:id, :recurrence_id, :type, :days_from_expiration, :subject, :body,
			:account_id, :status, :created_at, :updated_at
		)`

	r.logger.Debugw("creating notification setting",
		"setting_id", setting.ID,
		"recurrence_id", setting.RecurrenceID,
	)

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, setting); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create notification setting").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE notification_settings SET status = $1, updated_at = $2 WHERE id = $3`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, time.Now().UTC(), id)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete notification setting").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *notificationRepository) ListByRecurrence(ctx context.Context, recurrenceID string) ([]*notification.Setting, error) {
	query := `
		SELECT * FROM notification_settings
		WHERE recurrence_id = $1 AND status = $2
		ORDER BY days_from_expiration`

	var settings []*notification.Setting
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &settings, query,
		recurrenceID, types.StatusPublished)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list notification settings").
			Mark(ierr.ErrDatabase)
	}
	return settings, nil
}

func (r *notificationRepository) ListAll(ctx context.Context) ([]*notification.Setting, error) {
	query := `
		SELECT * FROM notification_settings
		WHERE status = $1
		ORDER BY days_from_expiration`

	var settings []*notification.Setting
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &settings, query, types.StatusPublished)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list notification settings").
			Mark(ierr.ErrDatabase)
	}
	return settings, nil
}
