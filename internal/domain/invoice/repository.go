package invoice

import "context"

// Repository defines the interface for invoice persistence
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	GetByShortID(ctx context.Context, shortID string) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	ListByCharge(ctx context.Context, chargeID string) ([]*Invoice, error)
	// ListOpenByRecurrence returns unsettled invoices of a recurrence, used
	// to block edits while boletos are outstanding
	ListOpenByRecurrence(ctx context.Context, recurrenceID string) ([]*Invoice, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*Invoice, error)

	// Payment info operations
	CreatePaymentInfo(ctx context.Context, info *PaymentInfo) error
	GetPaymentInfo(ctx context.Context, invoiceID string) (*PaymentInfo, error)
}
