package testutil

import (
	"context"

	"github.com/paymenu/grouppay/internal/domain/invoice"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/samber/lo"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
	paymentInfo *InMemoryStore[*invoice.PaymentInfo]
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
		paymentInfo:   NewInMemoryStore[*invoice.PaymentInfo](),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	copied := *inv
	copied.TransactionStatus = copyPtr(inv.TransactionStatus)
	copied.TransactionID = copyPtr(inv.TransactionID)
	copied.ForcedAmount = copyPtr(inv.ForcedAmount)
	copied.PaidAmount = copyPtr(inv.PaidAmount)
	copied.PaymentInfo = copyPaymentInfo(inv.PaymentInfo)
	return &copied
}

func copyPaymentInfo(info *invoice.PaymentInfo) *invoice.PaymentInfo {
	if info == nil {
		return nil
	}
	copied := *info
	return &copied
}

func invoiceNotFound(key, value string) error {
	return ierr.NewError("invoice not found").
		WithReportableDetails(map[string]any{key: value}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, invoiceNotFound("id", id)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) GetByShortID(ctx context.Context, shortID string) (*invoice.Invoice, error) {
	invoices, err := s.listWhere(ctx, func(inv *invoice.Invoice) bool {
		return inv.ShortID == shortID
	})
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, invoiceNotFound("short_id", shortID)
	}
	return invoices[0], nil
}

func (s *InMemoryInvoiceStore) GetByTransactionID(ctx context.Context, transactionID string) (*invoice.Invoice, error) {
	invoices, err := s.listWhere(ctx, func(inv *invoice.Invoice) bool {
		return inv.TransactionID != nil && *inv.TransactionID == transactionID
	})
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, invoiceNotFound("transaction_id", transactionID)
	}
	return invoices[0], nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if err := s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return invoiceNotFound("id", inv.ID)
	}
	return nil
}

func (s *InMemoryInvoiceStore) ListByCharge(ctx context.Context, chargeID string) ([]*invoice.Invoice, error) {
	return s.listWhere(ctx, func(inv *invoice.Invoice) bool {
		return inv.ChargeID == chargeID
	})
}

func (s *InMemoryInvoiceStore) ListOpenByRecurrence(ctx context.Context, recurrenceID string) ([]*invoice.Invoice, error) {
	invoices, err := s.listWhere(ctx, func(inv *invoice.Invoice) bool {
		return inv.RecurrenceID == recurrenceID && !inv.IsPaid() &&
			inv.Type != types.InvoiceTypeSkip && inv.Type != types.InvoiceTypeClose
	})
	if err != nil {
		return nil, err
	}
	// the open-instrument check needs the payment info hydrated
	for _, inv := range invoices {
		if info, err := s.GetPaymentInfo(ctx, inv.ID); err == nil {
			inv.PaymentInfo = info
		}
	}
	return invoices, nil
}

func (s *InMemoryInvoiceStore) listWhere(ctx context.Context, match func(*invoice.Invoice) bool) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.Status == types.StatusPublished && match(inv)
	}, func(i, j *invoice.Invoice) bool {
		return i.Pointer < j.Pointer
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(inv)
	}), nil
}

func (s *InMemoryInvoiceStore) CreatePaymentInfo(ctx context.Context, info *invoice.PaymentInfo) error {
	if info == nil {
		return ierr.NewError("payment info cannot be nil").
			Mark(ierr.ErrValidation)
	}
	// keyed by invoice, the newest instrument replaces the previous one
	if _, err := s.paymentInfo.Get(ctx, info.InvoiceID); err == nil {
		return s.paymentInfo.Update(ctx, info.InvoiceID, copyPaymentInfo(info))
	}
	return s.paymentInfo.Create(ctx, info.InvoiceID, copyPaymentInfo(info))
}

func (s *InMemoryInvoiceStore) GetPaymentInfo(ctx context.Context, invoiceID string) (*invoice.PaymentInfo, error) {
	info, err := s.paymentInfo.Get(ctx, invoiceID)
	if err != nil {
		return nil, ierr.NewError("payment info not found").
			WithReportableDetails(map[string]any{"invoice_id": invoiceID}).
			Mark(ierr.ErrNotFound)
	}
	return copyPaymentInfo(info), nil
}

func (s *InMemoryInvoiceStore) Clear() {
	s.InMemoryStore.Clear()
	s.paymentInfo.Clear()
}
