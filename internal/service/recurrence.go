package service

import (
	"context"
	"time"

	"github.com/paymenu/grouppay/internal/api/dto"
	"github.com/paymenu/grouppay/internal/billing"
	"github.com/paymenu/grouppay/internal/domain/invoice"
	"github.com/paymenu/grouppay/internal/domain/recurrence"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/paymenu/grouppay/internal/validator"
)

// RecurrenceService defines the interface for recurrence operations
type RecurrenceService interface {
	CreateRecurrence(ctx context.Context, req dto.CreateRecurrenceRequest) (*dto.CreateRecurrenceResponse, error)
	GetRecurrence(ctx context.Context, id string) (*dto.RecurrenceResponse, error)
	UpdateRecurrence(ctx context.Context, id string, req dto.UpdateRecurrenceRequest) (*dto.RecurrenceResponse, error)
	ListRecurrences(ctx context.Context, filter *types.RecurrenceFilter) (*dto.ListRecurrencesResponse, error)
}

type recurrenceService struct {
	ServiceParams
}

// NewRecurrenceService creates a new recurrence service
func NewRecurrenceService(params ServiceParams) RecurrenceService {
	return &recurrenceService{ServiceParams: params}
}

func (s *recurrenceService) CreateRecurrence(ctx context.Context, req dto.CreateRecurrenceRequest) (*dto.CreateRecurrenceResponse, error) {
	if err := validator.ValidateRequest(&req); err != nil {
		return nil, err
	}

	rec := req.ToRecurrence(ctx)
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	preview, err := s.previewSplits(ctx, rec)
	if err != nil {
		return nil, err
	}

	if err := s.RecurrenceRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.Logger.Infow("created recurrence",
		"recurrence_id", rec.ID,
		"amount", rec.Amount,
		"interval", rec.Interval,
		"interval_unit", rec.IntervalUnit,
	)
	return &dto.CreateRecurrenceResponse{
		RecurrenceResponse: &dto.RecurrenceResponse{Recurrence: rec},
		Preview:            preview,
	}, nil
}

// previewSplits dry-runs the allocation engine for the base amount, the
// best discount case and the one-day-overdue fine case. A recurrence whose
// rules can drive a recipient negative is rejected before it is saved.
func (s *recurrenceService) previewSplits(ctx context.Context, rec *recurrence.Recurrence) (*dto.SplitPreview, error) {
	now := time.Now().UTC()
	preview := &dto.SplitPreview{}

	// far-future due date: no discount qualifies, nothing is overdue
	farFuture := now.AddDate(10, 0, 0)
	base, err := billing.ComputeSplits(rec.Amount, rec, farFuture, now)
	if err != nil {
		return nil, err
	}
	preview.Base = base

	if len(rec.GetPaymentRules(types.PaymentRuleDiscountBeforeExpiration)) > 0 {
		// a due date beyond every discount window makes all of them qualify
		maxDays := 0
		for _, rule := range rec.GetPaymentRules(types.PaymentRuleDiscountBeforeExpiration) {
			if rule.Days > maxDays {
				maxDays = rule.Days
			}
		}
		expiration := now.AddDate(0, 0, maxDays+1)
		total := billing.FinalAmount(previewInvoice(rec, expiration), rec, now)
		discounted, err := billing.ComputeSplits(total, rec, expiration, now)
		if err != nil {
			return nil, err
		}
		preview.WithDiscounts = discounted
	}

	hasFines := rec.GetPaymentRule(types.PaymentRuleExpirationFine) != nil ||
		rec.GetPaymentRule(types.PaymentRuleDailyFine) != nil
	if hasFines && rec.AllowPaymentAfterExpiration {
		expiration := now.AddDate(0, 0, -1)
		total := billing.FinalAmount(previewInvoice(rec, expiration), rec, now)
		fined, err := billing.ComputeSplits(total, rec, expiration, now)
		if err != nil {
			return nil, err
		}
		preview.WithFines = fined
	}

	// validate fee absorption against the provider's current costs
	if err := s.previewFeeShares(ctx, rec, preview.Base); err != nil {
		return nil, err
	}

	return preview, nil
}

// previewInvoice is a throwaway invoice used to exercise the amount
// engine during validation
func previewInvoice(rec *recurrence.Recurrence, expiration time.Time) *invoice.Invoice {
	return &invoice.Invoice{
		ID:           "preview",
		RecurrenceID: rec.ID,
		Expiration:   expiration,
		Type:         types.InvoiceTypeOpen,
	}
}

func (s *recurrenceService) previewFeeShares(ctx context.Context, rec *recurrence.Recurrence, base []billing.Allocation) error {
	hasFeeBearer := false
	for _, sr := range rec.SplitRules {
		if sr.ChargeProcessingFee {
			hasFeeBearer = true
			break
		}
	}
	if !hasFeeBearer {
		return nil
	}

	for _, method := range rec.PaymentMethods {
		fees, err := s.Gateway.GetFees(ctx, method.String())
		if err != nil {
			return err
		}
		allocs := make([]billing.Allocation, len(base))
		copy(allocs, base)
		if err := billing.ApplyFeeShares(allocs, fees.Tax); err != nil {
			return err
		}
	}
	return nil
}

func (s *recurrenceService) GetRecurrence(ctx context.Context, id string) (*dto.RecurrenceResponse, error) {
	rec, err := s.RecurrenceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.RecurrenceResponse{Recurrence: rec}, nil
}

func (s *recurrenceService) UpdateRecurrence(ctx context.Context, id string, req dto.UpdateRecurrenceRequest) (*dto.RecurrenceResponse, error) {
	rec, err := s.RecurrenceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// editing while asynchronous instruments are outstanding would change
	// the terms of an instrument the end user already holds
	open, err := s.InvoiceRepo.ListOpenByRecurrence(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for _, inv := range open {
		if inv.HasOpenInstrument(now) {
			return nil, ierr.NewError("recurrence has unexpired boletos outstanding").
				WithHint("Wait for outstanding boletos to be paid or to expire before editing").
				WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
				Mark(ierr.ErrOpenBoleto)
		}
	}

	wasInactive := rec.RecurrenceStatus == types.RecurrenceStatusInactive

	if req.Name != nil {
		rec.Name = *req.Name
	}
	if req.Description != nil {
		rec.Description = *req.Description
	}
	if req.Amount != nil {
		rec.Amount = *req.Amount
	}
	if len(req.PaymentMethods) > 0 {
		rec.PaymentMethods = req.PaymentMethods
	}
	if req.RecurrenceStatus != nil {
		rec.RecurrenceStatus = *req.RecurrenceStatus
	}
	if len(req.SplitRules) > 0 {
		rec.SplitRules = nil
		for _, sr := range req.SplitRules {
			rec.SplitRules = append(rec.SplitRules, recurrence.SplitRule{
				ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SPLIT_RULE),
				RecurrenceID:        rec.ID,
				RecipientID:         sr.RecipientID,
				Amount:              sr.Amount,
				Liable:              sr.Liable,
				ChargeProcessingFee: sr.ChargeProcessingFee,
				ApplyPaymentRules:   sr.ApplyPaymentRules,
				BaseModel:           types.GetDefaultBaseModel(ctx),
			})
		}
	}
	if len(req.PaymentRules) > 0 {
		rec.PaymentRules = nil
		for _, pr := range req.PaymentRules {
			rec.PaymentRules = append(rec.PaymentRules, recurrence.PaymentRule{
				ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_RULE),
				RecurrenceID: rec.ID,
				Type:         pr.Type,
				Amount:       pr.Amount,
				Percentage:   pr.Percentage,
				Days:         pr.Days,
				BaseModel:    types.GetDefaultBaseModel(ctx),
			})
		}
	}

	// reactivation restarts the activation clock
	if wasInactive && rec.RecurrenceStatus == types.RecurrenceStatusActive {
		rec.ActivationDate = now
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.previewSplits(ctx, rec); err != nil {
		return nil, err
	}

	rec.UpdatedAt = now
	if err := s.RecurrenceRepo.Update(ctx, rec); err != nil {
		return nil, err
	}

	return &dto.RecurrenceResponse{Recurrence: rec}, nil
}

func (s *recurrenceService) ListRecurrences(ctx context.Context, filter *types.RecurrenceFilter) (*dto.ListRecurrencesResponse, error) {
	if filter == nil {
		filter = &types.RecurrenceFilter{}
	}

	recs, err := s.RecurrenceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.RecurrenceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.RecurrenceResponse, len(recs))
	for i, rec := range recs {
		items[i] = &dto.RecurrenceResponse{Recurrence: rec}
	}

	resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}
