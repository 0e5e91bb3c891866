package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/paymenu/grouppay/internal/domain/recurrence"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/postgres"
	"github.com/paymenu/grouppay/internal/types"
)

type recurrenceRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewRecurrenceRepository(db postgres.IClient, logger *logger.Logger) recurrence.Repository {
	return &recurrenceRepository{db: db, logger: logger}
}

// recurrenceRow maps the recurrences table. Payment methods live in a
// text[] column, split and payment rules in their own tables.
type recurrenceRow struct {
	recurrence.Recurrence
	Methods pq.StringArray `db:"payment_methods"`
}

func toRecurrenceRow(rec *recurrence.Recurrence) *recurrenceRow {
	row := &recurrenceRow{Recurrence: *rec}
	for _, m := range rec.PaymentMethods {
		row.Methods = append(row.Methods, string(m))
	}
	return row
}

func (row *recurrenceRow) toDomain() *recurrence.Recurrence {
	rec := row.Recurrence
	for _, m := range row.Methods {
		rec.PaymentMethods = append(rec.PaymentMethods, types.PaymentMethod(m))
	}
	return &rec
}

func (r *recurrenceRepository) Create(ctx context.Context, rec *recurrence.Recurrence) error {
	r.logger.Debugw("creating recurrence", "recurrence_id", rec.ID, "name", rec.Name)

	return r.db.WithTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO recurrences (
				id, name, description, amount, "interval", interval_unit,
				start_after_days, allow_payment_after_expiration, payment_methods,
				recurrence_status, activation_date, group_id, soft_descriptor,
				account_id, status, created_at, updated_at
			) VALUES (
				:id, :name, :description, :amount, :interval, :interval_unit,
				:start_after_days, :allow_payment_after_expiration, :payment_methods,
				:recurrence_status, :activation_date, :group_id, :soft_descriptor,
				:account_id, :status, :created_at, :updated_at
			)`

		if _, err := r.db.GetQuerier(ctx).NamedExec(query, toRecurrenceRow(rec)); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create recurrence").
				Mark(ierr.ErrDatabase)
		}
		return r.insertRules(ctx, rec)
	})
}

func (r *recurrenceRepository) insertRules(ctx context.Context, rec *recurrence.Recurrence) error {
	q := r.db.GetQuerier(ctx)

	splitQuery := `
		INSERT INTO recurrence_split_rules (
			id, recurrence_id, recipient_id, amount, liable,
			charge_processing_fee, apply_payment_rules,
			account_id, status, created_at, updated_at
		) VALUES (
			:id, :recurrence_id, :recipient_id, :amount, :liable,
			:charge_processing_fee, :apply_payment_rules,
			:account_id, :status, :created_at, :updated_at
		)`
	for i := range rec.SplitRules {
		if _, err := q.NamedExec(splitQuery, &rec.SplitRules[i]); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to save split rule").
				Mark(ierr.ErrDatabase)
		}
	}

	paymentQuery := `
		INSERT INTO recurrence_payment_rules (
			id, recurrence_id, type, amount, percentage, days,
			account_id, status, created_at, updated_at
		) VALUES (
			:id, :recurrence_id, :type, :amount, :percentage, :days,
			:account_id, :status, :created_at, :updated_at
		)`
	for i := range rec.PaymentRules {
		if _, err := q.NamedExec(paymentQuery, &rec.PaymentRules[i]); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to save payment rule").
				Mark(ierr.ErrDatabase)
		}
	}
	return nil
}

func (r *recurrenceRepository) Get(ctx context.Context, id string) (*recurrence.Recurrence, error) {
	var row recurrenceRow
	query := `SELECT * FROM recurrences WHERE id = $1 AND account_id = $2 AND status != $3`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, id, types.GetAccountID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("Recurrence not found").
				WithReportableDetails(map[string]any{"recurrence_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get recurrence").
			Mark(ierr.ErrDatabase)
	}

	rec := row.toDomain()
	if err := r.loadRules(ctx, []*recurrence.Recurrence{rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *recurrenceRepository) Update(ctx context.Context, rec *recurrence.Recurrence) error {
	rec.UpdatedAt = time.Now().UTC()

	return r.db.WithTx(ctx, func(ctx context.Context) error {
		query := `
			UPDATE recurrences SET
				name = :name,
				description = :description,
				amount = :amount,
				payment_methods = :payment_methods,
				recurrence_status = :recurrence_status,
				activation_date = :activation_date,
				group_id = :group_id,
				soft_descriptor = :soft_descriptor,
				status = :status,
				updated_at = :updated_at
			WHERE id = :id AND account_id = :account_id`

		if _, err := r.db.GetQuerier(ctx).NamedExec(query, toRecurrenceRow(rec)); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to update recurrence").
				Mark(ierr.ErrDatabase)
		}

		// Rules are replaced wholesale, they have no identity of their own
		q := r.db.GetQuerier(ctx)
		for _, table := range []string{"recurrence_split_rules", "recurrence_payment_rules"} {
			if _, err := q.ExecContext(ctx,
				fmt.Sprintf("DELETE FROM %s WHERE recurrence_id = $1", table), rec.ID); err != nil {
				return ierr.WithError(err).
					WithHint("Failed to replace recurrence rules").
					Mark(ierr.ErrDatabase)
			}
		}
		return r.insertRules(ctx, rec)
	})
}

func (r *recurrenceRepository) List(ctx context.Context, filter *types.RecurrenceFilter) ([]*recurrence.Recurrence, error) {
	where, args := recurrenceFilterClause(ctx, filter)
	query := fmt.Sprintf(
		`SELECT * FROM recurrences WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		where, filter.GetLimit(), filter.GetOffset())

	var rows []*recurrenceRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list recurrences").
			Mark(ierr.ErrDatabase)
	}

	recs := make([]*recurrence.Recurrence, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.toDomain())
	}
	if err := r.loadRules(ctx, recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *recurrenceRepository) Count(ctx context.Context, filter *types.RecurrenceFilter) (int, error) {
	where, args := recurrenceFilterClause(ctx, filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM recurrences WHERE %s`, where)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count recurrences").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *recurrenceRepository) CountByGroup(ctx context.Context, groupID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM recurrences
		WHERE group_id = $1 AND account_id = $2 AND status = $3`

	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query,
		groupID, types.GetAccountID(ctx), types.StatusPublished)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count group recurrences").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *recurrenceRepository) ListActive(ctx context.Context) ([]*recurrence.Recurrence, error) {
	query := `
		SELECT * FROM recurrences
		WHERE recurrence_status = $1 AND status = $2`

	var rows []*recurrenceRow
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query,
		types.RecurrenceStatusActive, types.StatusPublished)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list active recurrences").
			Mark(ierr.ErrDatabase)
	}

	recs := make([]*recurrence.Recurrence, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.toDomain())
	}
	if err := r.loadRules(ctx, recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// loadRules hydrates split and payment rules for the given recurrences
func (r *recurrenceRepository) loadRules(ctx context.Context, recs []*recurrence.Recurrence) error {
	if len(recs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(recs))
	byID := make(map[string]*recurrence.Recurrence, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
		byID[rec.ID] = rec
	}

	q := r.db.GetQuerier(ctx)

	splitQuery, splitArgs, err := sqlx.In(
		`SELECT * FROM recurrence_split_rules WHERE recurrence_id IN (?) ORDER BY created_at`, ids)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	var splits []recurrence.SplitRule
	if err := q.SelectContext(ctx, &splits, sqlx.Rebind(sqlx.DOLLAR, splitQuery), splitArgs...); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to load split rules").
			Mark(ierr.ErrDatabase)
	}
	for _, s := range splits {
		if rec, ok := byID[s.RecurrenceID]; ok {
			rec.SplitRules = append(rec.SplitRules, s)
		}
	}

	paymentQuery, paymentArgs, err := sqlx.In(
		`SELECT * FROM recurrence_payment_rules WHERE recurrence_id IN (?) ORDER BY created_at`, ids)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	var payments []recurrence.PaymentRule
	if err := q.SelectContext(ctx, &payments, sqlx.Rebind(sqlx.DOLLAR, paymentQuery), paymentArgs...); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to load payment rules").
			Mark(ierr.ErrDatabase)
	}
	for _, p := range payments {
		if rec, ok := byID[p.RecurrenceID]; ok {
			rec.PaymentRules = append(rec.PaymentRules, p)
		}
	}
	return nil
}

func recurrenceFilterClause(ctx context.Context, filter *types.RecurrenceFilter) (string, []interface{}) {
	clauses := []string{"account_id = $1", "status = $2"}
	args := []interface{}{types.GetAccountID(ctx), filter.GetStatus()}

	if filter.RecurrenceID != nil {
		args = append(args, *filter.RecurrenceID)
		clauses = append(clauses, fmt.Sprintf("id = $%d", len(args)))
	}
	if filter.GroupID != nil {
		args = append(args, *filter.GroupID)
		clauses = append(clauses, fmt.Sprintf("group_id = $%d", len(args)))
	}
	if filter.Name != nil {
		args = append(args, "%"+*filter.Name+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.FilterInactive {
		args = append(args, types.RecurrenceStatusActive)
		clauses = append(clauses, fmt.Sprintf("recurrence_status = $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}
