package security

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/debounce"
	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/kv"
	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/logger"
	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/ratelimit"
	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/sanitizer"
	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/statemachine"
	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/validator"
)

// Submission lifecycle states and events.
const (
	stateIdle        statemachine.State = "idle"
	stateDebounced   statemachine.State = "debounced"
	stateRateChecked statemachine.State = "rate_checked"
	stateValidated   statemachine.State = "validated"
	stateRejected    statemachine.State = "rejected"

	eventLock   statemachine.Event = "lock"
	eventAdmit  statemachine.Event = "admit"
	eventDeny   statemachine.Event = "deny"
	eventAccept statemachine.Event = "accept"
	eventReject statemachine.Event = "reject"
	eventFinish statemachine.Event = "finish"
)

// Coordinator orchestrates the submission-protection pipeline: debounce
// lock, rate limiting, whitelist check, validation and sanitization. It
// owns one named token bucket per form type plus the sliding-window
// limiter for login attempts; there is no shared global state beyond the
// kv store itself.
type Coordinator struct {
	buckets     map[string]*ratelimit.TokenBucket
	loginWindow *ratelimit.AttemptWindow
	schemas     map[string]validator.FormSchema
	log         *slog.Logger
	busyLabel   string
	limits      ratelimit.Limits
	observer    ratelimit.Observer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for dropped-field and degradation reports.
func WithLogger(log *slog.Logger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// WithLimits overrides the default limiter budgets.
func WithLimits(limits ratelimit.Limits) Option {
	return func(c *Coordinator) { c.limits = limits }
}

// WithBusyLabel sets the label shown on the locked control while a
// submission is in flight.
func WithBusyLabel(label string) Option {
	return func(c *Coordinator) {
		if label != "" {
			c.busyLabel = label
		}
	}
}

// WithStatusObserver registers a display callback for registration
// limiter state changes.
func WithStatusObserver(fn ratelimit.Observer) Option {
	return func(c *Coordinator) { c.observer = fn }
}

// WithSchema registers an additional form schema, or replaces a built-in
// one with the same name.
func WithSchema(schema validator.FormSchema) Option {
	return func(c *Coordinator) { c.schemas[schema.Name] = schema }
}

// New creates a Coordinator backed by store. The registration and login
// schemas are registered by default, the registration token bucket, the
// login attempt window and the admin action buckets are constructed from
// the configured limits, and prior limiter state is restored from store.
func New(store kv.Store, opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		buckets:   make(map[string]*ratelimit.TokenBucket),
		schemas:   make(map[string]validator.FormSchema),
		log:       logger.NewDiscard(),
		busyLabel: "Submitting...",
		limits:    ratelimit.DefaultLimits(),
	}
	c.schemas[validator.FormRegistration] = validator.RegistrationSchema()
	c.schemas[validator.FormLogin] = validator.LoginSchema()

	for _, opt := range opts {
		opt(c)
	}

	registration, err := ratelimit.NewTokenBucket(validator.FormRegistration, c.limits.Registration(), store,
		ratelimit.WithLogger(c.log),
		ratelimit.WithObserver(c.observer))
	if err != nil {
		return nil, err
	}
	c.buckets[validator.FormRegistration] = registration

	c.loginWindow, err = ratelimit.NewAttemptWindow(validator.FormLogin, c.limits.Login(), store,
		ratelimit.WithWindowLogger(c.log))
	if err != nil {
		c.Close()
		return nil, err
	}

	for action, cfg := range c.limits.Admin() {
		bucket, err := ratelimit.NewTokenBucket(action, cfg, store, ratelimit.WithLogger(c.log))
		if err != nil {
			c.Close()
			return nil, err
		}
		c.buckets[action] = bucket
	}

	return c, nil
}

// ProcessSubmission runs one submission attempt through the pipeline.
// The debouncer is locked with a busy affordance first; on a rate-limit
// or validation rejection it is restored before returning. On the
// accepted path the control stays locked on purpose: the caller has
// asynchronous persistence still to do and restores the control itself
// once that finishes, success or failure.
//
// A nil debouncer is allowed for headless callers.
func (c *Coordinator) ProcessSubmission(ctx context.Context, formType string, data map[string]string, db *debounce.Debouncer) Outcome {
	if db != nil {
		db.SetLoading(c.busyLabel)
	}
	restore := func() {
		if db != nil {
			db.RestoreFromLoading()
		}
	}

	lifecycle := newLifecycle()
	_ = lifecycle.Fire(ctx, eventLock)

	schema, ok := c.schemas[formType]
	if !ok {
		c.finish(ctx, lifecycle, eventDeny)
		restore()
		return ValidationFailed{Errors: map[string]string{"form": "unknown form type"}}
	}

	decision := c.gate(ctx, formType, data)
	if !decision.Allowed {
		c.finish(ctx, lifecycle, eventDeny)
		restore()
		c.log.Info("submission rate limited",
			logger.Form(formType),
			slog.String("reason", string(decision.Reason)),
			slog.Int("retry_after_seconds", decision.RetryAfterSeconds()))
		return RateLimited{
			Reason:     decision.Reason,
			Message:    decision.Message,
			RetryAfter: decision.RetryAfter,
		}
	}
	_ = lifecycle.Fire(ctx, eventAdmit)

	// Mass-assignment defense: unexpected keys are reported and dropped,
	// never fatal.
	if unexpected := validator.CheckUnexpectedFields(data, schema); len(unexpected) > 0 {
		c.log.Warn("dropping unexpected form fields",
			logger.Form(formType),
			slog.Any("fields", unexpected))
	}

	result := validator.ValidateForm(data, schema)
	if !result.Valid {
		c.finish(ctx, lifecycle, eventReject)
		restore()
		return ValidationFailed{Errors: result.Errors}
	}
	_ = lifecycle.Fire(ctx, eventAccept)
	_ = lifecycle.Fire(ctx, eventFinish)

	return Accepted{
		SubmissionID: uuid.NewString(),
		Data:         sanitizer.CleanStringMap(result.Sanitized),
	}
}

// AllowAdminAction consults the token bucket for an admin panel action
// ("admin_delete", "admin_update", "admin_bulk").
func (c *Coordinator) AllowAdminAction(ctx context.Context, action string) ratelimit.Decision {
	bucket, ok := c.buckets[action]
	if !ok {
		// Unknown actions are not limited; the backend rules still apply.
		return ratelimit.Decision{Allowed: true}
	}
	return bucket.TryConsume(ctx)
}

// RegistrationStatus returns the display snapshot of the registration
// limiter.
func (c *Coordinator) RegistrationStatus() ratelimit.Status {
	return c.buckets[validator.FormRegistration].Status()
}

// ResetLoginAttempts clears the tracked attempts and any block for the
// given username, for use after a successful login.
func (c *Coordinator) ResetLoginAttempts(ctx context.Context, username string) error {
	return c.loginWindow.Reset(ctx, loginKey(username))
}

// Close stops every owned limiter's background work.
func (c *Coordinator) Close() {
	for _, bucket := range c.buckets {
		bucket.Close()
	}
}

// gate applies the limiter relevant to the form type: the sliding-window
// attempt limiter for login (keyed by username so one account cannot be
// hammered), the form's token bucket otherwise.
func (c *Coordinator) gate(ctx context.Context, formType string, data map[string]string) ratelimit.Decision {
	if formType == validator.FormLogin {
		decision, err := c.loginWindow.Attempt(ctx, loginKey(data["username"]))
		if err != nil {
			// Internal limiter errors never block a user.
			c.log.Warn("login limiter check failed", logger.Error(err))
			return ratelimit.Decision{Allowed: true}
		}
		return decision
	}

	bucket, ok := c.buckets[formType]
	if !ok {
		return ratelimit.Decision{Allowed: true}
	}
	return bucket.TryConsume(ctx)
}

func loginKey(username string) string {
	key := strings.ToLower(strings.TrimSpace(username))
	if key == "" {
		return "anonymous"
	}
	return key
}

func (c *Coordinator) finish(ctx context.Context, lifecycle *statemachine.Machine, rejection statemachine.Event) {
	_ = lifecycle.Fire(ctx, rejection)
	_ = lifecycle.Fire(ctx, eventFinish)
}

// newLifecycle builds the per-attempt state machine:
// Idle -> Debounced -> RateChecked -> Validated|Rejected -> Idle.
func newLifecycle() *statemachine.Machine {
	m, err := statemachine.New(stateIdle,
		statemachine.Transition{From: stateIdle, To: stateDebounced, Event: eventLock},
		statemachine.Transition{From: stateDebounced, To: stateRateChecked, Event: eventAdmit},
		statemachine.Transition{From: stateDebounced, To: stateRejected, Event: eventDeny},
		statemachine.Transition{From: stateRateChecked, To: stateValidated, Event: eventAccept},
		statemachine.Transition{From: stateRateChecked, To: stateRejected, Event: eventReject},
		statemachine.Transition{From: stateValidated, To: stateIdle, Event: eventFinish},
		statemachine.Transition{From: stateRejected, To: stateIdle, Event: eventFinish},
	)
	if err != nil {
		// The table is static; failing to build it is a programming error.
		panic(err)
	}
	return m
}
