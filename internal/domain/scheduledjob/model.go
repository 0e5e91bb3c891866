package scheduledjob

import (
	"time"

	"github.com/paymenu/grouppay/internal/types"
)

// JobKind identifies a recurring background sweep
type JobKind string

const (
	JobKindExpirationSweep   JobKind = "expiration_sweep"
	JobKindNotificationSweep JobKind = "notification_sweep"
)

// JobStatus tracks a scheduled run through its lifecycle
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// ScheduledJob is one planned run of a sweep. A pending row for a future
// time means the sweep is already scheduled and must not be enqueued again.
type ScheduledJob struct {
	ID     string    `json:"id" db:"id"`
	Kind   JobKind   `json:"kind" db:"kind"`
	RunAt  time.Time `json:"run_at" db:"run_at"`
	Status JobStatus `json:"job_status" db:"job_status"`
	// CompletedAt is set when the run finishes, regardless of outcome
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	// Error holds the failure message for failed runs
	Error *string `json:"error,omitempty" db:"error"`

	types.BaseModel
}
