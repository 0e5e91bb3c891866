package gateway

import (
	"time"

	"github.com/paymenu/grouppay/internal/types"
)

// CustomerRequest registers an end user at the payment provider
type CustomerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	DocumentNumber string `json:"document_number"`
	PhoneNumber    string `json:"phone_number"`
}

// Customer is the provider's record for an end user
type Customer struct {
	ID string `json:"id"`
}

// CardRequest stores a card against a provider customer
type CardRequest struct {
	CustomerID     string `json:"customer_id"`
	Number         string `json:"number"`
	HolderName     string `json:"holder_name"`
	ExpirationDate string `json:"expiration_date"`
	CVV            string `json:"cvv"`
}

// Card is the provider's stored card reference
type Card struct {
	ID         string `json:"id"`
	LastDigits string `json:"last_digits"`
	Brand      string `json:"brand"`
}

// SplitInstruction tells the provider how to route one recipient's share
type SplitInstruction struct {
	RecipientID         string `json:"recipient_id"`
	Amount              int64  `json:"amount"`
	Liable              bool   `json:"liable"`
	ChargeProcessingFee bool   `json:"charge_processing_fee"`
}

// TransactionRequest creates a payment transaction at the provider
type TransactionRequest struct {
	Amount         int64               `json:"amount"`
	Method         types.PaymentMethod `json:"payment_method"`
	CustomerID     string              `json:"customer_id"`
	CardID         string              `json:"card_id,omitempty"`
	SoftDescriptor string              `json:"soft_descriptor,omitempty"`
	// Expiration bounds boleto and pix instruments
	Expiration time.Time          `json:"expiration,omitempty"`
	Splits     []SplitInstruction `json:"splits"`
}

// Transaction is the provider's response for a payment attempt
type Transaction struct {
	ID     string                  `json:"id"`
	Status types.TransactionStatus `json:"status"`
	Amount int64                   `json:"amount"`
	Method types.PaymentMethod     `json:"payment_method"`
	// Instruction fields are set for asynchronous methods
	InstructionURL        string    `json:"instruction_url,omitempty"`
	InstructionCode       string    `json:"instruction_code,omitempty"`
	InstructionExpiration time.Time `json:"instruction_expiration,omitempty"`
}

// Fees describes the provider's cost for one payment method
type Fees struct {
	Method types.PaymentMethod `json:"payment_method"`
	// Tax is the flat gateway cost per transaction in minor units
	Tax int64 `json:"tax"`
}

// Recipient is a provider-side funds destination
type Recipient struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	BankCode      string `json:"bank_code"`
	BankAgency    string `json:"bank_agency"`
	BankAccount   string `json:"bank_account"`
	DocumentNumber string `json:"document_number"`
}
