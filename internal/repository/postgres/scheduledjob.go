package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/paymenu/grouppay/internal/domain/scheduledjob"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/postgres"
)

type scheduledJobRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewScheduledJobRepository(db postgres.IClient, logger *logger.Logger) scheduledjob.Repository {
	return &scheduledJobRepository{db: db, logger: logger}
}

func (r *scheduledJobRepository) Create(ctx context.Context, job *scheduledjob.ScheduledJob) error {
	query := `
		INSERT INTO scheduled_jobs (
			id, kind, run_at, job_status, completed_at, error,
			account_id, status, created_at, updated_at
		) VALUES (
			:id, :kind, :run_at, :job_status, :completed_at, :error,
			:account_id, :status, :created_at, :updated_at
		)`

	r.logger.Debugw("recording scheduled job", "job_id", job.ID, "kind", job.Kind)

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, job); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to record scheduled job").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *scheduledJobRepository) Update(ctx context.Context, job *scheduledjob.ScheduledJob) error {
	job.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE scheduled_jobs SET
			job_status = :job_status,
			completed_at = :completed_at,
			error = :error,
			updated_at = :updated_at
		WHERE id = :id`

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, job); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update scheduled job").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *scheduledJobRepository) GetPending(ctx context.Context, kind scheduledjob.JobKind, after time.Time) (*scheduledjob.ScheduledJob, error) {
	var job scheduledjob.ScheduledJob
	query := `
		SELECT * FROM scheduled_jobs
		WHERE kind = $1 AND job_status = $2 AND run_at >= $3
		ORDER BY run_at DESC
		LIMIT 1`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &job, query,
		kind, scheduledjob.JobStatusPending, after)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("No pending run").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get pending job").
			Mark(ierr.ErrDatabase)
	}
	return &job, nil
}

func (r *scheduledJobRepository) DeletePending(ctx context.Context, kind scheduledjob.JobKind) error {
	query := `DELETE FROM scheduled_jobs WHERE kind = $1 AND job_status = $2`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, kind, scheduledjob.JobStatusPending)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete pending jobs").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *scheduledJobRepository) ListRecent(ctx context.Context, kind scheduledjob.JobKind, limit int) ([]*scheduledjob.ScheduledJob, error) {
	query := `
		SELECT * FROM scheduled_jobs
		WHERE kind = $1
		ORDER BY run_at DESC
		LIMIT $2`

	var jobs []*scheduledjob.ScheduledJob
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &jobs, query, kind, limit)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list recent jobs").
			Mark(ierr.ErrDatabase)
	}
	return jobs, nil
}
