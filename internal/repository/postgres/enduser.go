package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paymenu/grouppay/internal/domain/enduser"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/postgres"
	"github.com/paymenu/grouppay/internal/types"
)

type endUserRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewEndUserRepository(db postgres.IClient, logger *logger.Logger) enduser.Repository {
	return &endUserRepository{db: db, logger: logger}
}

func (r *endUserRepository) Create(ctx context.Context, user *enduser.EndUser) error {
	query := `
		INSERT INTO end_users (
			id, system_id, name, email, phone_number, document_number,
			gateway_customer_id, gateway_card_id,
			account_id, status, created_at, updated_at
		) VALUES (
			:id, :system_id, :name, :email, :phone_number, :document_number,
			:gateway_customer_id, :gateway_card_id,
			:account_id, :status, :created_at, :updated_at
		)`

	r.logger.Debugw("creating end user", "end_user_id", user.ID, "system_id", user.SystemID)

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, user); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create end user").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *endUserRepository) Get(ctx context.Context, id string) (*enduser.EndUser, error) {
	return r.getByColumn(ctx, "id", id)
}

func (r *endUserRepository) GetByEmail(ctx context.Context, email string) (*enduser.EndUser, error) {
	return r.getByColumn(ctx, "LOWER(email)", strings.ToLower(email))
}

func (r *endUserRepository) GetBySystemID(ctx context.Context, systemID string) (*enduser.EndUser, error) {
	return r.getByColumn(ctx, "system_id", systemID)
}

func (r *endUserRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*enduser.EndUser, error) {
	return r.getByColumn(ctx, "phone_number", phoneNumber)
}

func (r *endUserRepository) getByColumn(ctx context.Context, column, value string) (*enduser.EndUser, error) {
	var user enduser.EndUser
	query := fmt.Sprintf(
		`SELECT * FROM end_users WHERE %s = $1 AND account_id = $2 AND status != $3`, column)

	err := r.db.GetQuerier(ctx).GetContext(ctx, &user, query,
		value, types.GetAccountID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("End user not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get end user").
			Mark(ierr.ErrDatabase)
	}
	return &user, nil
}

func (r *endUserRepository) Update(ctx context.Context, user *enduser.EndUser) error {
	user.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE end_users SET
			system_id = :system_id,
			name = :name,
			email = :email,
			phone_number = :phone_number,
			document_number = :document_number,
			gateway_customer_id = :gateway_customer_id,
			gateway_card_id = :gateway_card_id,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id AND account_id = :account_id`

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, user); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update end user").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *endUserRepository) List(ctx context.Context, filter *types.EndUserFilter) ([]*enduser.EndUser, error) {
	where, args := endUserFilterClause(ctx, filter)
	query := fmt.Sprintf(
		`SELECT * FROM end_users WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		where, filter.GetLimit(), filter.GetOffset())

	var users []*enduser.EndUser
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &users, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list end users").
			Mark(ierr.ErrDatabase)
	}
	return users, nil
}

func (r *endUserRepository) Count(ctx context.Context, filter *types.EndUserFilter) (int, error) {
	where, args := endUserFilterClause(ctx, filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM end_users WHERE %s`, where)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count end users").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func endUserFilterClause(ctx context.Context, filter *types.EndUserFilter) (string, []interface{}) {
	clauses := []string{"account_id = $1", "status = $2"}
	args := []interface{}{types.GetAccountID(ctx), filter.GetStatus()}

	if filter.SystemID != nil {
		args = append(args, *filter.SystemID)
		clauses = append(clauses, fmt.Sprintf("system_id = $%d", len(args)))
	}
	if filter.Email != nil {
		args = append(args, strings.ToLower(*filter.Email))
		clauses = append(clauses, fmt.Sprintf("LOWER(email) = $%d", len(args)))
	}
	if filter.PhoneNumber != nil {
		args = append(args, *filter.PhoneNumber)
		clauses = append(clauses, fmt.Sprintf("phone_number = $%d", len(args)))
	}
	if filter.Name != nil {
		args = append(args, "%"+*filter.Name+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}
