package group

import (
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
)

// DefaultCapacity bounds how many recurrences a group accepts when no
// explicit capacity was configured
const DefaultCapacity = 50

// Group is a named bucket of recurrences. Capacity is enforced on
// assignment, not on creation.
type Group struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	// Capacity is the maximum number of recurrences assignable to this group
	Capacity int `json:"capacity" db:"capacity"`

	types.BaseModel
}

func (g *Group) GetCapacity() int {
	if g.Capacity <= 0 {
		return DefaultCapacity
	}
	return g.Capacity
}

func (g *Group) Validate() error {
	if g.Name == "" {
		return ierr.NewError("group name is required").
			WithHint("Provide a non-empty group name").
			Mark(ierr.ErrValidation)
	}
	if g.Capacity < 0 {
		return ierr.NewError("group capacity cannot be negative").
			WithHint("Capacity must be zero (default) or a positive number").
			Mark(ierr.ErrValidation)
	}
	return nil
}
