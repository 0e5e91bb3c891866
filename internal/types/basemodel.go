package types

import (
	"context"
	"time"
)

// BaseModel is a base model for all domain models that need to be persisted.
// Any changes to this model should be reflected in the database schema by running migrations
type BaseModel struct {
	AccountID string    `db:"account_id" json:"account_id"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func GetDefaultBaseModel(ctx context.Context) BaseModel {
	now := time.Now().UTC()
	return BaseModel{
		AccountID: GetAccountID(ctx),
		Status:    StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
