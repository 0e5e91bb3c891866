package types

import (
	"fmt"

	"github.com/samber/lo"
)

// PaymentMethod represents how an end user pays an invoice
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodBoleto     PaymentMethod = "boleto"
	PaymentMethodPix        PaymentMethod = "pix"
	PaymentMethodNone       PaymentMethod = "none"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) Validate() error {
	allowed := []PaymentMethod{
		PaymentMethodCreditCard,
		PaymentMethodBoleto,
		PaymentMethodPix,
	}
	if !lo.Contains(allowed, m) {
		return fmt.Errorf("invalid payment method: %s", m)
	}
	return nil
}

// IsAsynchronous reports whether the method settles out of band, producing
// payment instructions (url/code/expiration) instead of an immediate result.
func (m PaymentMethod) IsAsynchronous() bool {
	return m == PaymentMethodBoleto || m == PaymentMethodPix
}

// PaymentRuleType represents a timing-based monetary adjustment rule
type PaymentRuleType string

const (
	PaymentRuleDiscountBeforeExpiration PaymentRuleType = "discount_before_expiration"
	PaymentRuleExpirationFine           PaymentRuleType = "expiration_fine"
	PaymentRuleDailyFine                PaymentRuleType = "daily_fine"
	PaymentRuleStartPayment             PaymentRuleType = "start_payment"
	PaymentRuleStopPayment              PaymentRuleType = "stop_payment"
)

func (t PaymentRuleType) String() string {
	return string(t)
}

func (t PaymentRuleType) Validate() error {
	allowed := []PaymentRuleType{
		PaymentRuleDiscountBeforeExpiration,
		PaymentRuleExpirationFine,
		PaymentRuleDailyFine,
		PaymentRuleStartPayment,
		PaymentRuleStopPayment,
	}
	if !lo.Contains(allowed, t) {
		return fmt.Errorf("invalid payment rule type: %s", t)
	}
	return nil
}

// IsFine reports whether the rule adds to an overdue invoice's amount.
func (t PaymentRuleType) IsFine() bool {
	return t == PaymentRuleExpirationFine || t == PaymentRuleDailyFine
}
