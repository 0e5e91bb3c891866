package service

import (
	"context"
	"strings"
	"time"

	"github.com/paymenu/grouppay/internal/api/dto"
	"github.com/paymenu/grouppay/internal/billing"
	"github.com/paymenu/grouppay/internal/domain/charge"
	"github.com/paymenu/grouppay/internal/domain/enduser"
	"github.com/paymenu/grouppay/internal/domain/invoice"
	"github.com/paymenu/grouppay/internal/domain/recurrence"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/gateway"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/paymenu/grouppay/internal/validator"
	"github.com/samber/lo"
)

// InvoiceService defines the interface for invoice lifecycle operations
type InvoiceService interface {
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	PayInvoice(ctx context.Context, id string, req dto.PayInvoiceRequest) (*dto.InvoiceResponse, error)
	SkipInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ForceAmount(ctx context.Context, id string, req dto.ForceAmountRequest) (*dto.InvoiceResponse, error)
	CloseCharge(ctx context.Context, chargeID string) error
	// HandlePostback applies a provider status notification to the invoice
	// that owns the transaction
	HandlePostback(ctx context.Context, req dto.PostbackRequest) error
}

type invoiceService struct {
	ServiceParams
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

// resolveInvoice accepts either the internal id or the human-facing short
// reference and hydrates the pending payment instructions
func (s *invoiceService) resolveInvoice(ctx context.Context, id string) (*invoice.Invoice, error) {
	var inv *invoice.Invoice
	var err error
	if strings.HasPrefix(id, types.SHORT_ID_PREFIX_INVOICE) {
		inv, err = s.InvoiceRepo.GetByShortID(ctx, id)
	} else {
		inv, err = s.InvoiceRepo.Get(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	info, err := s.InvoiceRepo.GetPaymentInfo(ctx, inv.ID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	inv.PaymentInfo = info
	return inv, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.resolveInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	rec, err := s.RecurrenceRepo.Get(ctx, inv.RecurrenceID)
	if err != nil {
		return nil, err
	}
	return newInvoiceResponse(inv, rec, time.Now().UTC())
}

func (s *invoiceService) PayInvoice(ctx context.Context, id string, req dto.PayInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validator.ValidateRequest(&req); err != nil {
		return nil, err
	}

	inv, err := s.resolveInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	ch, err := s.ChargeRepo.Get(ctx, inv.ChargeID)
	if err != nil {
		return nil, err
	}
	rec, err := s.RecurrenceRepo.Get(ctx, inv.RecurrenceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	op := billing.Operation{Kind: types.InvoiceOpPay, Method: req.PaymentMethod, Amount: req.Amount}
	if err := billing.CheckOperation(op, ch, inv, rec, now); err != nil {
		return nil, err
	}

	user, err := s.EndUserRepo.Get(ctx, inv.EndUserID)
	if err != nil {
		return nil, err
	}
	cardID, err := s.resolveCard(ctx, user, req.PaymentMethod, req.Card)
	if err != nil {
		return nil, err
	}

	final := billing.FinalAmount(inv, rec, now)
	splits, err := billing.ComputeSplits(final, rec, inv.Expiration, now)
	if err != nil {
		return nil, err
	}

	tx, err := s.Gateway.CreateTransaction(ctx, gateway.TransactionRequest{
		Amount:         final,
		Method:         req.PaymentMethod,
		CustomerID:     lo.FromPtr(user.GatewayCustomerID),
		CardID:         cardID,
		SoftDescriptor: rec.SoftDescriptor,
		Expiration:     instrumentExpiration(inv.Expiration, now),
		Splits:         toSplitInstructions(splits),
	})
	if err != nil {
		return nil, err
	}

	advance, err := billing.Settle(inv, billing.TransactionResult{
		Status:                tx.Status,
		Method:                tx.Method,
		TransactionID:         tx.ID,
		SettledAmount:         tx.Amount,
		InstructionURL:        tx.InstructionURL,
		InstructionCode:       tx.InstructionCode,
		InstructionExpiration: tx.InstructionExpiration,
	}, now)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		if inv.PaymentInfo != nil && inv.PaymentInfo.CreatedAt.Equal(now) {
			if err := s.InvoiceRepo.CreatePaymentInfo(ctx, inv.PaymentInfo); err != nil {
				return err
			}
		}
		if advance {
			return s.openNextCycle(ctx, ch, rec, inv, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("payment processed",
		"invoice_id", inv.ID,
		"transaction_id", tx.ID,
		"transaction_status", tx.Status,
		"payment_method", req.PaymentMethod,
		"amount", final,
	)
	return newInvoiceResponse(inv, rec, now)
}

// resolveCard picks the card for a credit card payment: an inline card is
// stored at the provider for this payment, otherwise the user's saved card
// is used
func (s *invoiceService) resolveCard(ctx context.Context, user *enduser.EndUser, method types.PaymentMethod, card *dto.CardRequest) (string, error) {
	if method != types.PaymentMethodCreditCard {
		return "", nil
	}

	if card != nil {
		if user.GatewayCustomerID == nil {
			return "", ierr.NewError("end user has no provider customer").
				WithHint("The end user was never registered at the payment provider").
				WithReportableDetails(map[string]any{"end_user_id": user.ID}).
				Mark(ierr.ErrInvalidOperation)
		}
		created, err := s.Gateway.CreateCard(ctx, gateway.CardRequest{
			CustomerID:     *user.GatewayCustomerID,
			Number:         card.Number,
			HolderName:     card.HolderName,
			ExpirationDate: card.ExpirationDate,
			CVV:            card.CVV,
		})
		if err != nil {
			return "", err
		}
		return created.ID, nil
	}

	if !user.HasCard() {
		return "", ierr.NewError("end user has no card on file").
			WithHint("Provide card details or store a card before paying by credit card").
			WithReportableDetails(map[string]any{"end_user_id": user.ID}).
			Mark(ierr.ErrInvalidPaymentMethod)
	}
	return *user.GatewayCardID, nil
}

// instrumentExpiration bounds boleto and pix instruments: the due date when
// it is still ahead, a short window for late payments
func instrumentExpiration(expiration, now time.Time) time.Time {
	if expiration.After(now) {
		return expiration
	}
	return now.AddDate(0, 0, 3)
}

// toSplitInstructions converts computed allocations into provider routing
// instructions. Fee absorption is delegated to the provider via the
// charge_processing_fee flag.
func toSplitInstructions(allocs []billing.Allocation) []gateway.SplitInstruction {
	instructions := make([]gateway.SplitInstruction, len(allocs))
	for i, a := range allocs {
		instructions[i] = gateway.SplitInstruction{
			RecipientID:         a.RecipientID,
			Amount:              a.Amount,
			Liable:              a.Liable,
			ChargeProcessingFee: a.ChargeFee,
		}
	}
	return instructions
}

func (s *invoiceService) SkipInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.resolveInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	ch, err := s.ChargeRepo.Get(ctx, inv.ChargeID)
	if err != nil {
		return nil, err
	}
	rec, err := s.RecurrenceRepo.Get(ctx, inv.RecurrenceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := billing.CheckOperation(billing.Operation{Kind: types.InvoiceOpSkip}, ch, inv, rec, now); err != nil {
		return nil, err
	}

	billing.Skip(inv, now)

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		return s.openNextCycle(ctx, ch, rec, inv, now)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("skipped invoice", "invoice_id", inv.ID, "charge_id", ch.ID)
	return newInvoiceResponse(inv, rec, now)
}

func (s *invoiceService) ForceAmount(ctx context.Context, id string, req dto.ForceAmountRequest) (*dto.InvoiceResponse, error) {
	if err := validator.ValidateRequest(&req); err != nil {
		return nil, err
	}

	inv, err := s.resolveInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	ch, err := s.ChargeRepo.Get(ctx, inv.ChargeID)
	if err != nil {
		return nil, err
	}
	rec, err := s.RecurrenceRepo.Get(ctx, inv.RecurrenceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	op := billing.Operation{Kind: types.InvoiceOpForceAmount, Amount: req.Amount}
	if err := billing.CheckOperation(op, ch, inv, rec, now); err != nil {
		return nil, err
	}

	if req.Amount == 0 {
		inv.ForcedAmount = nil
	} else {
		inv.ForcedAmount = lo.ToPtr(req.Amount)
	}
	inv.UpdatedAt = now

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return newInvoiceResponse(inv, rec, now)
}

func (s *invoiceService) CloseCharge(ctx context.Context, chargeID string) error {
	ch, err := s.ChargeRepo.Get(ctx, chargeID)
	if err != nil {
		return err
	}
	if ch.IsClosed() {
		return nil
	}

	now := time.Now().UTC()
	currentID := lo.FromPtr(ch.CurrentInvoiceID)
	billing.Close(ch, now)

	return s.DB.WithTx(ctx, func(ctx context.Context) error {
		// an unresolved current cycle is closed with the charge
		if currentID != "" {
			inv, err := s.InvoiceRepo.Get(ctx, currentID)
			if err != nil {
				return err
			}
			if !inv.IsPaid() && inv.Type == types.InvoiceTypeOpen {
				inv.Type = types.InvoiceTypeClose
				inv.PaymentMethod = types.PaymentMethodNone
				inv.UpdatedAt = now
				if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
					return err
				}
			}
		}
		return s.ChargeRepo.Update(ctx, ch)
	})
}

func (s *invoiceService) HandlePostback(ctx context.Context, req dto.PostbackRequest) error {
	if err := validator.ValidateRequest(&req); err != nil {
		return err
	}
	if err := req.Status.Validate(); err != nil {
		return err
	}

	inv, err := s.InvoiceRepo.GetByTransactionID(ctx, req.TransactionID)
	if err != nil {
		return err
	}
	if inv.TransactionStatus != nil && *inv.TransactionStatus == req.Status {
		// duplicate notification
		return nil
	}

	ch, err := s.ChargeRepo.Get(ctx, inv.ChargeID)
	if err != nil {
		return err
	}
	rec, err := s.RecurrenceRepo.Get(ctx, inv.RecurrenceID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	advance := false
	if req.Status == types.TransactionStatusPaid {
		settled := req.SettledAmount
		if settled == 0 {
			settled = billing.FinalAmount(inv, rec, now)
		}
		advance, err = billing.Settle(inv, billing.TransactionResult{
			Status:        types.TransactionStatusPaid,
			Method:        inv.PaymentMethod,
			TransactionID: req.TransactionID,
			SettledAmount: settled,
		}, now)
		if err != nil {
			return err
		}
	} else {
		status := req.Status
		inv.TransactionStatus = &status
		inv.UpdatedAt = now
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		if advance && !ch.IsClosed() {
			return s.openNextCycle(ctx, ch, rec, inv, now)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Logger.Infow("applied payment postback",
		"invoice_id", inv.ID,
		"transaction_id", req.TransactionID,
		"transaction_status", req.Status,
	)
	return nil
}

// openNextCycle advances the schedule past a resolved invoice and persists
// the newly opened cycle
func (s *invoiceService) openNextCycle(ctx context.Context, ch *charge.Charge, rec *recurrence.Recurrence, current *invoice.Invoice, now time.Time) error {
	holidays, err := loadHolidays(ctx, s.HolidayRepo, now)
	if err != nil {
		return err
	}
	next, err := billing.Advance(ch, rec, current, holidays, now)
	if err != nil {
		return err
	}
	if err := s.InvoiceRepo.Create(ctx, next); err != nil {
		return err
	}
	return s.ChargeRepo.Update(ctx, ch)
}
