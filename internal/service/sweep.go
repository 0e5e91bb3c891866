package service

import (
	"context"
	"time"

	"github.com/paymenu/grouppay/internal/billing"
	"github.com/paymenu/grouppay/internal/domain/charge"
	"github.com/paymenu/grouppay/internal/domain/invoice"
	"github.com/paymenu/grouppay/internal/domain/scheduledjob"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
)

// SweepService runs the daily background passes over all charges
type SweepService interface {
	// UpdateChargeExpirations opens catch-up cycles for charges whose
	// resolved invoices left the schedule behind the clock
	UpdateChargeExpirations(ctx context.Context) error
	// SendExpirationNotifications delivers reminders whose configured lead
	// time matches today
	SendExpirationNotifications(ctx context.Context) error
}

type sweepService struct {
	ServiceParams
	notifier Notifier
}

// NewSweepService creates a new sweep service
func NewSweepService(params ServiceParams, notifier Notifier) SweepService {
	return &sweepService{ServiceParams: params, notifier: notifier}
}

func (s *sweepService) UpdateChargeExpirations(ctx context.Context) error {
	return s.runGuarded(ctx, scheduledjob.JobKindExpirationSweep, s.sweepExpirations)
}

func (s *sweepService) SendExpirationNotifications(ctx context.Context) error {
	return s.runGuarded(ctx, scheduledjob.JobKindNotificationSweep, s.sweepNotifications)
}

// runGuarded wraps one sweep run in the scheduled job ledger: a pending
// run already recorded for today means another runner claimed the sweep,
// so this one skips. The job row records the outcome either way.
func (s *sweepService) runGuarded(ctx context.Context, kind scheduledjob.JobKind, fn func(ctx context.Context, now time.Time) error) error {
	now := time.Now().UTC()
	dayStart := startOfDay(now)

	if pending, err := s.JobRepo.GetPending(ctx, kind, dayStart); err == nil && pending != nil {
		s.Logger.Infow("sweep already claimed, skipping",
			"kind", kind,
			"job_id", pending.ID,
			"run_at", pending.RunAt,
		)
		return nil
	} else if err != nil && !ierr.IsNotFound(err) {
		return err
	}

	job := &scheduledjob.ScheduledJob{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SCHEDULED_JOB),
		Kind:      kind,
		RunAt:     now,
		Status:    scheduledjob.JobStatusPending,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	if err := s.JobRepo.Create(ctx, job); err != nil {
		return err
	}

	runErr := fn(ctx, now)

	job.CompletedAt = lo.ToPtr(time.Now().UTC())
	if runErr != nil {
		job.Status = scheduledjob.JobStatusFailed
		job.Error = lo.ToPtr(runErr.Error())
	} else {
		job.Status = scheduledjob.JobStatusCompleted
	}
	if err := s.JobRepo.Update(ctx, job); err != nil {
		s.Logger.Errorw("failed to record sweep outcome", "kind", kind, "job_id", job.ID, "error", err)
	}
	return runErr
}

func (s *sweepService) sweepExpirations(ctx context.Context, now time.Time) error {
	charges, err := s.ChargeRepo.ListDue(ctx, now)
	if err != nil {
		return err
	}
	if len(charges) == 0 {
		return nil
	}

	holidays, err := loadHolidays(ctx, s.HolidayRepo, now)
	if err != nil {
		return err
	}

	s.Logger.Infow("expiration sweep started", "due_charges", len(charges))

	p := pool.New().WithMaxGoroutines(s.Config.Sweep.GetBatchSize())
	for _, ch := range charges {
		p.Go(func() {
			if err := s.advanceCharge(ctx, ch, holidays, now); err != nil {
				// one stuck charge must not stop the sweep
				s.Logger.Errorw("failed to advance charge", "charge_id", ch.ID, "error", err)
			}
		})
	}
	p.Wait()
	return nil
}

// advanceCharge opens cycles until the charge's schedule catches up with
// the clock. An unresolved open invoice ends the catch-up, by design the
// schedule waits for it.
func (s *sweepService) advanceCharge(ctx context.Context, ch *charge.Charge, holidays billing.HolidaySet, now time.Time) error {
	rec, err := s.RecurrenceRepo.Get(ctx, ch.RecurrenceID)
	if err != nil {
		return err
	}

	return s.DB.WithTx(ctx, func(ctx context.Context) error {
		advanced := false
		for !ch.IsClosed() && ch.NextExpiration != nil && !ch.NextExpiration.After(now) {
			var current *invoice.Invoice
			if ch.CurrentInvoiceID != nil {
				inv, err := s.InvoiceRepo.Get(ctx, *ch.CurrentInvoiceID)
				if err != nil {
					return err
				}
				current = inv
			}

			next, err := billing.Advance(ch, rec, current, holidays, now)
			if err != nil {
				if ierr.IsInvalidStatus(err) {
					// current cycle still open and unpaid
					break
				}
				return err
			}
			if err := s.InvoiceRepo.Create(ctx, next); err != nil {
				return err
			}
			advanced = true
		}

		if advanced {
			return s.ChargeRepo.Update(ctx, ch)
		}
		return nil
	})
}

func (s *sweepService) sweepNotifications(ctx context.Context, now time.Time) error {
	settings, err := s.NotificationRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(settings) == 0 {
		return nil
	}

	today := startOfDay(now)
	sent := 0
	for _, setting := range settings {
		// a setting matches charges due exactly its lead time from today
		target := today.AddDate(0, 0, setting.DaysFromExpiration)

		charges, err := s.ChargeRepo.ListByRecurrence(ctx, setting.RecurrenceID)
		if err != nil {
			return err
		}
		for _, ch := range charges {
			if ch.IsClosed() || ch.NextExpiration == nil || !startOfDay(*ch.NextExpiration).Equal(target) {
				continue
			}
			if ch.CurrentInvoiceID == nil {
				continue
			}
			inv, err := s.InvoiceRepo.Get(ctx, *ch.CurrentInvoiceID)
			if err != nil {
				return err
			}
			if inv.IsSettled() {
				continue
			}
			user, err := s.EndUserRepo.Get(ctx, ch.EndUserID)
			if err != nil {
				return err
			}

			if err := s.notifier.Send(ctx, Notification{
				Type:       setting.Type,
				Recipient:  user,
				Subject:    setting.Subject,
				Body:       setting.Body,
				InvoiceID:  inv.ID,
				Expiration: inv.Expiration,
			}); err != nil {
				s.Logger.Errorw("failed to send notification",
					"setting_id", setting.ID,
					"invoice_id", inv.ID,
					"error", err,
				)
				continue
			}
			sent++
		}
	}

	s.Logger.Infow("notification sweep finished", "sent", sent)
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
