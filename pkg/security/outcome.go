package security

import (
	"time"

	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/ratelimit"
)

// Outcome is the tagged result of processing one submission attempt.
// Exactly one of RateLimited, ValidationFailed or Accepted is returned;
// outcomes are created fresh per attempt and never mutated.
type Outcome interface {
	isOutcome()
}

// RateLimited means the limiter rejected the attempt before validation ran.
type RateLimited struct {
	Reason ratelimit.Reason
	// Message is safe to show the user as-is.
	Message    string
	RetryAfter time.Duration
}

// ValidationFailed means one or more fields violated the form schema.
type ValidationFailed struct {
	// Errors maps field name to its user-facing message.
	Errors map[string]string
}

// Accepted means the attempt passed every gate. Data holds the validated,
// sanitized values ready for persistence. The submit control is left
// locked; the caller restores it once its own persistence step completes.
type Accepted struct {
	SubmissionID string
	Data         map[string]string
}

func (RateLimited) isOutcome()      {}
func (ValidationFailed) isOutcome() {}
func (Accepted) isOutcome()         {}
