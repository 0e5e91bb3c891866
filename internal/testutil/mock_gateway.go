package testutil

import (
	"context"
	"sync"
	"time"

	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/gateway"
	"github.com/paymenu/grouppay/internal/types"
)

var _ gateway.Client = (*MockGatewayClient)(nil)

// MockGatewayClient is a configurable in-memory payment provider. By
// default credit card transactions settle as paid and asynchronous methods
// come back pending with instructions attached.
type MockGatewayClient struct {
	mu sync.Mutex

	// NextStatus overrides the status of the next created transaction
	NextStatus *types.TransactionStatus
	// Fees is the per-method transaction tax returned by GetFees
	Fees map[types.PaymentMethod]int64
	// Err fails every call when set
	Err error

	Transactions []gateway.TransactionRequest
	customers    int
	cards        int
	byID         map[string]*gateway.Transaction
	recipients   []gateway.Recipient
}

// NewMockGatewayClient creates a new mock gateway client
func NewMockGatewayClient() *MockGatewayClient {
	return &MockGatewayClient{
		Fees: make(map[types.PaymentMethod]int64),
		byID: make(map[string]*gateway.Transaction),
	}
}

func (m *MockGatewayClient) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NextStatus = nil
	m.Err = nil
	m.Fees = make(map[types.PaymentMethod]int64)
	m.Transactions = nil
	m.byID = make(map[string]*gateway.Transaction)
	m.recipients = nil
	m.customers = 0
	m.cards = 0
}

func (m *MockGatewayClient) CreateCustomer(_ context.Context, _ gateway.CustomerRequest) (*gateway.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.customers++
	return &gateway.Customer{ID: types.GenerateUUIDWithPrefix("cus")}, nil
}

func (m *MockGatewayClient) CreateCard(_ context.Context, _ gateway.CardRequest) (*gateway.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.cards++
	return &gateway.Card{ID: types.GenerateUUIDWithPrefix("card"), LastDigits: "4242", Brand: "visa"}, nil
}

func (m *MockGatewayClient) CreateTransaction(_ context.Context, req gateway.TransactionRequest) (*gateway.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.Transactions = append(m.Transactions, req)

	status := types.TransactionStatusPaid
	if req.Method.IsAsynchronous() {
		status = types.TransactionStatusWaitingPayment
	}
	if m.NextStatus != nil {
		status = *m.NextStatus
		m.NextStatus = nil
	}

	tx := &gateway.Transaction{
		ID:     types.GenerateUUIDWithPrefix("tx"),
		Status: status,
		Amount: req.Amount,
		Method: req.Method,
	}
	if req.Method.IsAsynchronous() && status == types.TransactionStatusWaitingPayment {
		tx.InstructionURL = "https://provider.test/" + tx.ID
		tx.InstructionCode = "00190500954014481606906809350314"
		tx.InstructionExpiration = req.Expiration
		if tx.InstructionExpiration.IsZero() {
			tx.InstructionExpiration = time.Now().UTC().AddDate(0, 0, 3)
		}
	}
	m.byID[tx.ID] = tx
	return tx, nil
}

func (m *MockGatewayClient) GetTransaction(_ context.Context, id string) (*gateway.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	tx, ok := m.byID[id]
	if !ok {
		return nil, ierr.NewError("transaction not found").
			WithReportableDetails(map[string]any{"transaction_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return tx, nil
}

func (m *MockGatewayClient) GetFees(_ context.Context, method string) (*gateway.Fees, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	pm := types.PaymentMethod(method)
	return &gateway.Fees{Method: pm, Tax: m.Fees[pm]}, nil
}

func (m *MockGatewayClient) CreateRecipient(_ context.Context, req gateway.Recipient) (*gateway.Recipient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	req.ID = types.GenerateUUIDWithPrefix("rcp")
	m.recipients = append(m.recipients, req)
	return &req, nil
}

func (m *MockGatewayClient) ListRecipients(_ context.Context) ([]gateway.Recipient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.recipients, nil
}
