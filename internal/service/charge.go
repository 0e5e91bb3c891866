package service

import (
	"context"
	"time"

	"github.com/paymenu/grouppay/internal/api/dto"
	"github.com/paymenu/grouppay/internal/billing"
	"github.com/paymenu/grouppay/internal/domain/charge"
	"github.com/paymenu/grouppay/internal/domain/holiday"
	"github.com/paymenu/grouppay/internal/domain/invoice"
	"github.com/paymenu/grouppay/internal/domain/recurrence"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/paymenu/grouppay/internal/validator"
)

// ChargeService defines the interface for charge operations
type ChargeService interface {
	CreateCharge(ctx context.Context, req dto.CreateChargeRequest) (*dto.ChargeResponse, error)
	GetCharge(ctx context.Context, id string) (*dto.ChargeResponse, error)
	ListChargesByEndUser(ctx context.Context, endUserID string) (*dto.ListChargesResponse, error)
	// ListChargesByEmail is the end-user facing lookup, keyed by email
	// because that is what the person being billed knows
	ListChargesByEmail(ctx context.Context, email string) (*dto.ListChargesResponse, error)
}

type chargeService struct {
	ServiceParams
}

// NewChargeService creates a new charge service
func NewChargeService(params ServiceParams) ChargeService {
	return &chargeService{ServiceParams: params}
}

func (s *chargeService) CreateCharge(ctx context.Context, req dto.CreateChargeRequest) (*dto.ChargeResponse, error) {
	if err := validator.ValidateRequest(&req); err != nil {
		return nil, err
	}

	rec, err := s.RecurrenceRepo.Get(ctx, req.RecurrenceID)
	if err != nil {
		return nil, err
	}
	if !rec.IsActive() {
		return nil, ierr.NewError("recurrence is not active").
			WithHint("Charges can only be created on active recurrences").
			WithReportableDetails(map[string]any{"recurrence_id": rec.ID}).
			Mark(ierr.ErrInvalidStatus)
	}
	if _, err := s.EndUserRepo.Get(ctx, req.EndUserID); err != nil {
		return nil, err
	}

	// one charge per end user and recurrence pairing
	existing, err := s.ChargeRepo.GetByEndUserAndRecurrence(ctx, req.EndUserID, req.RecurrenceID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ierr.NewError("end user already has a charge for this recurrence").
			WithReportableDetails(map[string]any{
				"charge_id":     existing.ID,
				"end_user_id":   req.EndUserID,
				"recurrence_id": req.RecurrenceID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	now := time.Now().UTC()
	ch := &charge.Charge{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHARGE),
		RecurrenceID: req.RecurrenceID,
		EndUserID:    req.EndUserID,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}

	holidays, err := loadHolidays(ctx, s.HolidayRepo, now)
	if err != nil {
		return nil, err
	}

	inv, err := billing.Advance(ch, rec, nil, holidays, now)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.ChargeRepo.Create(ctx, ch); err != nil {
			return err
		}
		return s.InvoiceRepo.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created charge",
		"charge_id", ch.ID,
		"recurrence_id", ch.RecurrenceID,
		"end_user_id", ch.EndUserID,
		"first_expiration", inv.Expiration,
	)
	return s.toChargeResponse(ch, rec, []*invoice.Invoice{inv}, now)
}

func (s *chargeService) GetCharge(ctx context.Context, id string) (*dto.ChargeResponse, error) {
	ch, err := s.ChargeRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.expandCharge(ctx, ch)
}

func (s *chargeService) ListChargesByEndUser(ctx context.Context, endUserID string) (*dto.ListChargesResponse, error) {
	charges, err := s.ChargeRepo.ListByEndUser(ctx, endUserID)
	if err != nil {
		return nil, err
	}
	return s.expandCharges(ctx, charges)
}

func (s *chargeService) ListChargesByEmail(ctx context.Context, email string) (*dto.ListChargesResponse, error) {
	user, err := s.EndUserRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.ListChargesByEndUser(ctx, user.ID)
}

func (s *chargeService) expandCharges(ctx context.Context, charges []*charge.Charge) (*dto.ListChargesResponse, error) {
	items := make([]*dto.ChargeResponse, len(charges))
	for i, ch := range charges {
		resp, err := s.expandCharge(ctx, ch)
		if err != nil {
			return nil, err
		}
		items[i] = resp
	}
	resp := types.NewListResponse(items, len(items), len(items), 0)
	return &resp, nil
}

func (s *chargeService) expandCharge(ctx context.Context, ch *charge.Charge) (*dto.ChargeResponse, error) {
	rec, err := s.RecurrenceRepo.Get(ctx, ch.RecurrenceID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.InvoiceRepo.ListByCharge(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	return s.toChargeResponse(ch, rec, invoices, time.Now().UTC())
}

func (s *chargeService) toChargeResponse(ch *charge.Charge, rec *recurrence.Recurrence, invoices []*invoice.Invoice, now time.Time) (*dto.ChargeResponse, error) {
	items := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp, err := newInvoiceResponse(inv, rec, now)
		if err != nil {
			return nil, err
		}
		items[i] = resp
	}
	return &dto.ChargeResponse{
		Charge:       ch,
		ChargeStatus: billing.ResolveChargeStatus(ch, invoices, rec, now),
		OpenAmount:   billing.TotalOpenAmount(invoices, rec, now),
		Invoices:     items,
	}, nil
}

// newInvoiceResponse decorates a stored invoice with its derived status,
// the amount currently payable and the per-recipient allocation
func newInvoiceResponse(inv *invoice.Invoice, rec *recurrence.Recurrence, now time.Time) (*dto.InvoiceResponse, error) {
	status := billing.ResolveStatus(inv, rec, now)
	final := billing.FinalAmount(inv, rec, now)

	resp := &dto.InvoiceResponse{
		Invoice:       inv,
		InvoiceStatus: status,
		FinalAmount:   final,
	}

	switch status {
	case types.InvoiceStatusSkipped, types.InvoiceStatusClosed:
		// resolved without payment, no money is split
	default:
		splits, err := billing.ComputeSplits(final, rec, inv.Expiration, now)
		if err != nil {
			return nil, err
		}
		resp.Splits = splits
	}
	return resp, nil
}

// loadHolidays builds the due-date roll set from the configured holidays
// around the scheduling window
func loadHolidays(ctx context.Context, repo holiday.Repository, around time.Time) (billing.HolidaySet, error) {
	from := around.AddDate(0, -1, 0)
	to := around.AddDate(2, 0, 0)
	holidays, err := repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, len(holidays))
	for i, h := range holidays {
		dates[i] = h.Date
	}
	return billing.NewHolidaySet(dates), nil
}
