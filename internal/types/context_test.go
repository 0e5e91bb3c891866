package types

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountIDRoundTrip(t *testing.T) {
	ctx := SetAccountID(context.Background(), "acc_123")
	assert.Equal(t, "acc_123", GetAccountID(ctx))
}

func TestAccountIDMissing(t *testing.T) {
	assert.Empty(t, GetAccountID(context.Background()))
}

func TestQueryFilterDefaults(t *testing.T) {
	var f QueryFilter
	assert.Equal(t, 50, f.GetLimit())
	assert.Equal(t, 0, f.GetOffset())
	assert.Equal(t, StatusPublished, f.GetStatus())
	assert.Equal(t, "created_at", f.GetSort())
	assert.Equal(t, "desc", f.GetOrder())
}
