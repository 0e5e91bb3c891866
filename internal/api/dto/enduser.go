package dto

import (
	"context"

	"github.com/paymenu/grouppay/internal/domain/enduser"
	"github.com/paymenu/grouppay/internal/types"
)

type CardRequest struct {
	Number         string `json:"number" validate:"required"`
	HolderName     string `json:"holder_name" validate:"required"`
	ExpirationDate string `json:"expiration_date" validate:"required"`
	CVV            string `json:"cvv" validate:"required"`
}

type CreateEndUserRequest struct {
	SystemID       string `json:"system_id" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	PhoneNumber    string `json:"phone_number"`
	DocumentNumber string `json:"document_number"`
	// Card, when present, is stored at the provider for credit card billing
	Card *CardRequest `json:"card,omitempty"`
}

func (r *CreateEndUserRequest) ToEndUser(ctx context.Context) *enduser.EndUser {
	return &enduser.EndUser{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_END_USER),
		SystemID:       r.SystemID,
		Name:           r.Name,
		Email:          r.Email,
		PhoneNumber:    r.PhoneNumber,
		DocumentNumber: r.DocumentNumber,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

type EndUserResponse struct {
	*enduser.EndUser
}

type ListEndUsersResponse = types.ListResponse[*EndUserResponse]
