package ratelimit

import "time"

// Reason classifies why a consume attempt was rejected.
type Reason string

const (
	// ReasonCooldown means the minimum gap between accepted submissions
	// has not elapsed yet, regardless of available tokens.
	ReasonCooldown Reason = "COOLDOWN"
	// ReasonRateLimited means the token bucket is exhausted or the
	// attempt window is blocked.
	ReasonRateLimited Reason = "RATE_LIMITED"
)

// Decision is the outcome of a single consume attempt.
type Decision struct {
	Allowed bool
	// Remaining is the token or attempt budget left after this decision.
	Remaining int
	// Reason is set only when the attempt was rejected.
	Reason Reason
	// RetryAfter is how long to wait before the next attempt can succeed.
	RetryAfter time.Duration
	// Message is a user-facing explanation safe to display as-is.
	Message string
}

// RetryAfterSeconds returns RetryAfter rounded up to whole seconds, the
// unit shown to users. Returns 0 for allowed decisions.
func (d Decision) RetryAfterSeconds() int {
	if d.Allowed || d.RetryAfter <= 0 {
		return 0
	}
	return int((d.RetryAfter + time.Second - 1) / time.Second)
}

// Status is a read-only snapshot of a limiter, shaped for display.
type Status struct {
	Tokens            int
	MaxTokens         int
	Percentage        float64
	CooldownActive    bool
	CooldownRemaining time.Duration
}

// Observer receives a Status snapshot whenever limiter state changes.
// Observers are display-only: they run synchronously on the mutating call
// and must not call back into the limiter.
type Observer func(Status)
