package testutil

import (
	"context"
	"time"

	"github.com/paymenu/grouppay/internal/domain/scheduledjob"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/samber/lo"
)

// InMemoryScheduledJobStore implements scheduledjob.Repository
type InMemoryScheduledJobStore struct {
	*InMemoryStore[*scheduledjob.ScheduledJob]
}

// NewInMemoryScheduledJobStore creates a new in-memory scheduled job store
func NewInMemoryScheduledJobStore() *InMemoryScheduledJobStore {
	return &InMemoryScheduledJobStore{
		InMemoryStore: NewInMemoryStore[*scheduledjob.ScheduledJob](),
	}
}

func copyJob(job *scheduledjob.ScheduledJob) *scheduledjob.ScheduledJob {
	if job == nil {
		return nil
	}
	copied := *job
	copied.CompletedAt = copyPtr(job.CompletedAt)
	copied.Error = copyPtr(job.Error)
	return &copied
}

func (s *InMemoryScheduledJobStore) Create(ctx context.Context, job *scheduledjob.ScheduledJob) error {
	if job == nil {
		return ierr.NewError("scheduled job cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, job.ID, copyJob(job))
}

func (s *InMemoryScheduledJobStore) Update(ctx context.Context, job *scheduledjob.ScheduledJob) error {
	if err := s.InMemoryStore.Update(ctx, job.ID, copyJob(job)); err != nil {
		return ierr.NewError("scheduled job not found").
			WithReportableDetails(map[string]any{"id": job.ID}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryScheduledJobStore) GetPending(ctx context.Context, kind scheduledjob.JobKind, after time.Time) (*scheduledjob.ScheduledJob, error) {
	jobs, err := s.listWhere(ctx, func(job *scheduledjob.ScheduledJob) bool {
		return job.Kind == kind && job.Status == scheduledjob.JobStatusPending && !job.RunAt.Before(after)
	})
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, ierr.NewError("no pending run scheduled").
			WithReportableDetails(map[string]any{"kind": kind}).
			Mark(ierr.ErrNotFound)
	}
	return jobs[0], nil
}

func (s *InMemoryScheduledJobStore) DeletePending(ctx context.Context, kind scheduledjob.JobKind) error {
	jobs, err := s.listWhere(ctx, func(job *scheduledjob.ScheduledJob) bool {
		return job.Kind == kind && job.Status == scheduledjob.JobStatusPending
	})
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if err := s.InMemoryStore.Delete(ctx, job.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryScheduledJobStore) ListRecent(ctx context.Context, kind scheduledjob.JobKind, limit int) ([]*scheduledjob.ScheduledJob, error) {
	jobs, err := s.listWhere(ctx, func(job *scheduledjob.ScheduledJob) bool {
		return job.Kind == kind
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (s *InMemoryScheduledJobStore) listWhere(ctx context.Context, match func(*scheduledjob.ScheduledJob) bool) ([]*scheduledjob.ScheduledJob, error) {
	jobs, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, job *scheduledjob.ScheduledJob, _ interface{}) bool {
		return match(job)
	}, func(i, j *scheduledjob.ScheduledJob) bool {
		return i.RunAt.After(j.RunAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(jobs, func(job *scheduledjob.ScheduledJob, _ int) *scheduledjob.ScheduledJob {
		return copyJob(job)
	}), nil
}
