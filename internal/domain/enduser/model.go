package enduser

import (
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
)

// EndUser is the person being billed. Email, system id and phone number are
// each unique within an account.
type EndUser struct {
	ID string `json:"id" db:"id"`
	// SystemID is the caller's own identifier for this person
	SystemID       string  `json:"system_id" db:"system_id"`
	Name           string  `json:"name" db:"name"`
	Email          string  `json:"email" db:"email"`
	PhoneNumber    string  `json:"phone_number" db:"phone_number"`
	DocumentNumber string  `json:"document_number" db:"document_number"`
	// GatewayCustomerID is set after the customer is registered at the provider
	GatewayCustomerID *string `json:"gateway_customer_id,omitempty" db:"gateway_customer_id"`
	// GatewayCardID references the stored card used for credit card charges
	GatewayCardID *string `json:"gateway_card_id,omitempty" db:"gateway_card_id"`

	types.BaseModel
}

func (u *EndUser) Validate() error {
	if u.Email == "" {
		return ierr.NewError("end user email is required").
			WithHint("Provide a valid email address").
			Mark(ierr.ErrValidation)
	}
	if u.SystemID == "" {
		return ierr.NewError("end user system id is required").
			WithHint("Provide the identifier used by your system for this person").
			Mark(ierr.ErrValidation)
	}
	if u.Name == "" {
		return ierr.NewError("end user name is required").
			WithHint("Provide the person's full name").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// HasCard reports whether the user can be charged by credit card
func (u *EndUser) HasCard() bool {
	return u.GatewayCardID != nil && *u.GatewayCardID != ""
}
