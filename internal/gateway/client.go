package gateway

import "context"

// Client is the outbound payment provider surface the billing services
// depend on. Implementations must be safe for concurrent use.
type Client interface {
	CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error)
	CreateCard(ctx context.Context, req CardRequest) (*Card, error)
	CreateTransaction(ctx context.Context, req TransactionRequest) (*Transaction, error)
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	// GetFees returns the provider's per-transaction cost for a method,
	// used when validating fee-bearing split configurations
	GetFees(ctx context.Context, method string) (*Fees, error)
	CreateRecipient(ctx context.Context, req Recipient) (*Recipient, error)
	ListRecipients(ctx context.Context) ([]Recipient, error)
}
