package charge

import (
	"math"
	"time"

	"github.com/paymenu/grouppay/internal/types"
)

// ClosedPointer is the schedule pointer sentinel marking a closed charge.
// No further invoices are generated once the pointer reaches it.
const ClosedPointer = int32(math.MaxInt32)

// Charge binds one end user to one recurrence and tracks the billing
// schedule position. A charge owns the sequence of invoices generated for
// that pairing.
type Charge struct {
	ID           string `json:"id" db:"id"`
	RecurrenceID string `json:"recurrence_id" db:"recurrence_id"`
	EndUserID    string `json:"end_user_id" db:"end_user_id"`
	// SchedulePointer counts how many billing cycles have been scheduled.
	// It only moves forward, and ClosedPointer ends the schedule.
	SchedulePointer int32 `json:"schedule_pointer" db:"schedule_pointer"`
	// NextExpiration caches the due date of the most recently opened invoice
	NextExpiration *time.Time `json:"next_expiration,omitempty" db:"next_expiration"`
	// CurrentInvoiceID points at the invoice for the current cycle
	CurrentInvoiceID *string `json:"current_invoice_id,omitempty" db:"current_invoice_id"`

	types.BaseModel
}

// IsClosed reports whether the schedule has been terminated
func (c *Charge) IsClosed() bool {
	return c.SchedulePointer == ClosedPointer
}

// Close terminates the schedule. The pointer never moves again.
func (c *Charge) Close() {
	c.SchedulePointer = ClosedPointer
	c.CurrentInvoiceID = nil
	c.NextExpiration = nil
}
