package holiday

import (
	"time"

	"github.com/paymenu/grouppay/internal/types"
)

// Holiday is a non-banking day. Invoice expirations never land on one.
type Holiday struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	// Date is normalized to midnight UTC
	Date time.Time `json:"date" db:"date"`

	types.BaseModel
}
