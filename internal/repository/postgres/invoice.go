package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/paymenu/grouppay/internal/domain/invoice"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/postgres"
	"github.com/paymenu/grouppay/internal/types"
)

type invoiceRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewInvoiceRepository(db postgres.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, short_id, charge_id, recurrence_id, end_user_id, pointer,
			expiration, transaction_status, transaction_id, payment_method,
			type, forced_amount, paid_amount,
			account_id, status, created_at, updated_at
		) VALUES (
			:id, :short_id, :charge_id, :recurrence_id, :end_user_id, :pointer,
			:expiration, :transaction_status, :transaction_id, :payment_method,
			:type, :forced_amount, :paid_amount,
			:account_id, :status, :created_at, :updated_at
		)`

	r.logger.Debugw("creating invoice",
		"invoice_id", inv.ID,
		"charge_id", inv.ChargeID,
		"pointer", inv.Pointer,
	)

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, inv); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	return r.getByColumn(ctx, "id", id)
}

func (r *invoiceRepository) GetByShortID(ctx context.Context, shortID string) (*invoice.Invoice, error) {
	return r.getByColumn(ctx, "short_id", shortID)
}

func (r *invoiceRepository) GetByTransactionID(ctx context.Context, transactionID string) (*invoice.Invoice, error) {
	// Postbacks carry no credentials, the transaction ID is the lookup key
	var inv invoice.Invoice
	query := `SELECT * FROM invoices WHERE transaction_id = $1 AND status != $2`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &inv, query, transactionID, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("No invoice owns this transaction").
				WithReportableDetails(map[string]any{"transaction_id": transactionID}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) getByColumn(ctx context.Context, column, value string) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	query := fmt.Sprintf(
		`SELECT * FROM invoices WHERE %s = $1 AND account_id = $2 AND status != $3`, column)

	err := r.db.GetQuerier(ctx).GetContext(ctx, &inv, query,
		value, types.GetAccountID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("Invoice not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE invoices SET
			transaction_status = :transaction_status,
			transaction_id = :transaction_id,
			payment_method = :payment_method,
			type = :type,
			forced_amount = :forced_amount,
			paid_amount = :paid_amount,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id`

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, inv); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) ListByCharge(ctx context.Context, chargeID string) ([]*invoice.Invoice, error) {
	query := `
		SELECT * FROM invoices
		WHERE charge_id = $1 AND status = $2
		ORDER BY pointer`

	var invoices []*invoice.Invoice
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &invoices, query,
		chargeID, types.StatusPublished)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) ListOpenByRecurrence(ctx context.Context, recurrenceID string) ([]*invoice.Invoice, error) {
	query := `
		SELECT * FROM invoices
		WHERE recurrence_id = $1
		  AND status = $2
		  AND type = $3
		  AND (transaction_status IS NULL OR transaction_status != $4)
		ORDER BY pointer`

	var invoices []*invoice.Invoice
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &invoices, query,
		recurrenceID, types.StatusPublished, types.InvoiceTypeOpen, types.TransactionStatusPaid)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list open invoices").
			Mark(ierr.ErrDatabase)
	}

	for _, inv := range invoices {
		info, err := r.GetPaymentInfo(ctx, inv.ID)
		if err != nil {
			if ierr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		inv.PaymentInfo = info
	}
	return invoices, nil
}

func (r *invoiceRepository) CreatePaymentInfo(ctx context.Context, info *invoice.PaymentInfo) error {
	query := `
		INSERT INTO payment_infos (
			id, invoice_id, url, code, expiration,
			account_id, status, created_at, updated_at
		) VALUES (
			:id, :invoice_id, :url, :code, :expiration,
			:account_id, :status, :created_at, :updated_at
		)`

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, info); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to save payment instructions").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) GetPaymentInfo(ctx context.Context, invoiceID string) (*invoice.PaymentInfo, error) {
	// The newest instrument wins, older boletos are superseded
	var info invoice.PaymentInfo
	query := `
		SELECT * FROM payment_infos
		WHERE invoice_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &info, query, invoiceID, types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("No payment instructions for this invoice").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment instructions").
			Mark(ierr.ErrDatabase)
	}
	return &info, nil
}
