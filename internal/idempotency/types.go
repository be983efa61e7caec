package idempotency

import "time"

// Status values for dedup entries
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// Record tracks one webhook event delivery. Completed deliveries keep the
// response that was sent so a redelivery can replay it byte-for-byte.
type Record struct {
	EventID        string
	Status         string
	ResponseBody   string // small JSON responses only
	ResponseStatus int    // e.g., 200
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ExpiresAt      time.Time
	Note           string
}
