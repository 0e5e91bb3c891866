package account

import (
	"github.com/paymenu/grouppay/internal/types"
)

// Account represents a tenant of the gateway. Every group, recurrence and
// charge belongs to exactly one account.
type Account struct {
	ID             string `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	CorporateName  string `json:"corporate_name" db:"corporate_name"`
	Email          string `json:"email" db:"email"`
	DocumentNumber string `json:"document_number" db:"document_number"`
	// APIKeyHash is the bcrypt hash of the account's api key
	APIKeyHash string `json:"-" db:"api_key_hash"`
	// GatewayRecipientID is the account's default recipient at the payment provider
	GatewayRecipientID *string `json:"gateway_recipient_id,omitempty" db:"gateway_recipient_id"`

	types.BaseModel
}
