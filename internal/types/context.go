package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxAccountID ContextKey = "ctx_account_id"

	// DefaultAccountID is used by scripts and tests that run outside an
	// authenticated request
	DefaultAccountID = "00000000-0000-0000-0000-000000000000"
)

func GetAccountID(ctx context.Context) string {
	if accountID, ok := ctx.Value(CtxAccountID).(string); ok {
		return accountID
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

// SetAccountID sets the authenticated account ID in the context
func SetAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, CtxAccountID, accountID)
}
