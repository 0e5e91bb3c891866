package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paymenu/grouppay/internal/domain/group"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/postgres"
	"github.com/paymenu/grouppay/internal/types"
)

type groupRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewGroupRepository(db postgres.IClient, logger *logger.Logger) group.Repository {
	return &groupRepository{db: db, logger: logger}
}

func (r *groupRepository) Create(ctx context.Context, g *group.Group) error {
	query := `
		INSERT INTO groups (
			id, name, description, capacity,
			account_id, status, created_at, updated_at
		) VALUES (
			:id, :name, :description, :capacity,
			:account_id, :status, :created_at, :updated_at
		)`

	r.logger.Debugw("creating group", "group_id", g.ID, "name", g.Name)

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, g); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create group").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *groupRepository) Get(ctx context.Context, id string) (*group.Group, error) {
	var g group.Group
	query := `SELECT * FROM groups WHERE id = $1 AND account_id = $2 AND status != $3`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &g, query, id, types.GetAccountID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("Group not found").
				WithReportableDetails(map[string]any{"group_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get group").
			Mark(ierr.ErrDatabase)
	}
	return &g, nil
}

func (r *groupRepository) Update(ctx context.Context, g *group.Group) error {
	g.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE groups SET
			name = :name,
			description = :description,
			capacity = :capacity,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id AND account_id = :account_id`

	if _, err := r.db.GetQuerier(ctx).NamedExec(query, g); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update group").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE groups SET status = $1, updated_at = $2
		WHERE id = $3 AND account_id = $4`

	r.logger.Debugw("deleting group", "group_id", id)

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, time.Now().UTC(), id, types.GetAccountID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete group").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *groupRepository) List(ctx context.Context, filter *types.GroupFilter) ([]*group.Group, error) {
	where, args := groupFilterClause(ctx, filter)
	query := fmt.Sprintf(
		`SELECT * FROM groups WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		where, filter.GetLimit(), filter.GetOffset())

	var groups []*group.Group
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list groups").
			Mark(ierr.ErrDatabase)
	}
	return groups, nil
}

func (r *groupRepository) Count(ctx context.Context, filter *types.GroupFilter) (int, error) {
	where, args := groupFilterClause(ctx, filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM groups WHERE %s`, where)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count groups").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func groupFilterClause(ctx context.Context, filter *types.GroupFilter) (string, []interface{}) {
	clauses := []string{"account_id = $1", "status = $2"}
	args := []interface{}{types.GetAccountID(ctx), filter.GetStatus()}

	if filter.GroupID != nil {
		args = append(args, *filter.GroupID)
		clauses = append(clauses, fmt.Sprintf("id = $%d", len(args)))
	}
	if filter.Name != nil {
		args = append(args, "%"+*filter.Name+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}
