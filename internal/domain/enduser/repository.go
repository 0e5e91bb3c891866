package enduser

import (
	"context"

	"github.com/paymenu/grouppay/internal/types"
)

// Repository defines the interface for end user persistence
type Repository interface {
	Create(ctx context.Context, user *EndUser) error
	Get(ctx context.Context, id string) (*EndUser, error)
	GetByEmail(ctx context.Context, email string) (*EndUser, error)
	GetBySystemID(ctx context.Context, systemID string) (*EndUser, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*EndUser, error)
	Update(ctx context.Context, user *EndUser) error
	List(ctx context.Context, filter *types.EndUserFilter) ([]*EndUser, error)
	Count(ctx context.Context, filter *types.EndUserFilter) (int, error)
}
