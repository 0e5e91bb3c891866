package notification

import (
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
)

// Setting schedules a reminder relative to an invoice's expiration. A
// recurrence may carry several settings with different lead times.
type Setting struct {
	ID           string                 `json:"id" db:"id"`
	RecurrenceID string                 `json:"recurrence_id" db:"recurrence_id"`
	Type         types.NotificationType `json:"type" db:"type"`
	// DaysFromExpiration is how many days before the due date the reminder
	// fires. Zero means the due date itself.
	DaysFromExpiration int `json:"days_from_expiration" db:"days_from_expiration"`
	// Subject and Body template the outgoing message
	Subject string `json:"subject" db:"subject"`
	Body    string `json:"body" db:"body"`

	types.BaseModel
}

func (s *Setting) Validate() error {
	if s.RecurrenceID == "" {
		return ierr.NewError("notification setting recurrence is required").
			Mark(ierr.ErrValidation)
	}
	if s.DaysFromExpiration < 0 {
		return ierr.NewError("days from expiration cannot be negative").
			WithHint("Use zero to notify on the due date itself").
			Mark(ierr.ErrValidation)
	}
	return nil
}
