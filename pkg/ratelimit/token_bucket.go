package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/kv"
	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/logger"
)

// persistedBucket is the JSON snapshot written to the store after every
// mutation, keyed by the limiter name.
type persistedBucket struct {
	Tokens       int   `json:"tokens"`
	LastRefillMs int64 `json:"last_refill_ms"`
	LastSubmitMs int64 `json:"last_submit_ms,omitempty"`
}

// TokenBucket is a named token bucket with a secondary cooldown gate.
// State survives restarts through the kv store; when the store fails the
// bucket degrades to in-memory operation and keeps working.
//
// All state transitions happen under one mutex, so a consume call and a
// concurrently firing refill tick are linearized and the persisted counter
// stays consistent.
type TokenBucket struct {
	name  string
	cfg   Config
	store kv.Store
	log   *slog.Logger
	now   func() time.Time

	mu         sync.Mutex
	tokens     int
	lastRefill time.Time
	lastSubmit time.Time // zero when no submission has been accepted yet
	observer   Observer
	degraded   bool

	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

// TokenBucketOption configures a TokenBucket.
type TokenBucketOption func(*TokenBucket)

// WithLogger sets the logger used for degraded-persistence reports.
func WithLogger(log *slog.Logger) TokenBucketOption {
	return func(b *TokenBucket) {
		if log != nil {
			b.log = log
		}
	}
}

// WithObserver registers a display callback invoked on every state change.
func WithObserver(fn Observer) TokenBucketOption {
	return func(b *TokenBucket) { b.observer = fn }
}

// WithTimeSource overrides the wall clock, for tests.
func WithTimeSource(now func() time.Time) TokenBucketOption {
	return func(b *TokenBucket) {
		if now != nil {
			b.now = now
		}
	}
}

// NewTokenBucket creates a limiter named name backed by store. Prior state
// for the same name is loaded and caught up: intervals that elapsed while
// the process was down grant their refills immediately, clamped to
// MaxTokens. A missing or corrupt snapshot initializes a full bucket; a
// failing store degrades to in-memory defaults and is only logged.
//
// A background ticker refills the bucket every RefillInterval until Close
// is called.
func NewTokenBucket(name string, cfg Config, store kv.Store, opts ...TokenBucketOption) (*TokenBucket, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &TokenBucket{
		name:  name,
		cfg:   cfg,
		store: store,
		log:   logger.NewDiscard(),
		now:   time.Now,
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.load(context.Background())

	b.ticker = time.NewTicker(cfg.RefillInterval)
	go b.refillLoop()

	return b, nil
}

func (b *TokenBucket) key() string {
	return "ratelimit:" + b.name
}

// load restores the persisted snapshot and applies catch-up refill. Called
// once from the constructor, before the ticker starts.
func (b *TokenBucket) load(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.tokens = b.cfg.MaxTokens
	b.lastRefill = now

	raw, ok, err := b.store.Get(ctx, b.key())
	if err != nil {
		b.degraded = true
		b.log.Warn("rate limiter state unavailable, using in-memory defaults",
			logger.Limiter(b.name), logger.Error(err))
		return
	}
	if ok {
		var state persistedBucket
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			b.log.Warn("discarding corrupt rate limiter state",
				logger.Limiter(b.name), logger.Error(err))
		} else {
			b.tokens = min(max(state.Tokens, 0), b.cfg.MaxTokens)
			if state.LastRefillMs > 0 {
				b.lastRefill = time.UnixMilli(state.LastRefillMs)
			}
			if state.LastSubmitMs > 0 {
				b.lastSubmit = time.UnixMilli(state.LastSubmitMs)
			}
			b.refillLocked(ctx, now)
		}
	}

	b.persistLocked(ctx)
	b.notifyLocked(now)
}

func (b *TokenBucket) refillLoop() {
	for {
		select {
		case <-b.done:
			return
		case <-b.ticker.C:
			b.mu.Lock()
			now := b.now()
			if b.refillLocked(context.Background(), now) {
				b.persistLocked(context.Background())
				b.notifyLocked(now)
			}
			b.mu.Unlock()
		}
	}
}

// refillLocked grants every refill interval elapsed since lastRefill,
// clamped to MaxTokens, and reports whether the token count changed. The
// elapsed-interval math makes refills catch up after idle periods or a
// suspended clock instead of relying on the ticker alone.
func (b *TokenBucket) refillLocked(ctx context.Context, now time.Time) bool {
	elapsed := now.Sub(b.lastRefill)
	if elapsed < b.cfg.RefillInterval {
		return false
	}

	intervals := int(elapsed / b.cfg.RefillInterval)
	b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * b.cfg.RefillInterval)

	refilled := min(b.tokens+intervals*b.cfg.RefillRate, b.cfg.MaxTokens)
	if refilled == b.tokens {
		return false
	}
	b.tokens = refilled
	return true
}

// TryConsume attempts to take one token. Two gates apply in order: the
// cooldown gate rejects with ReasonCooldown while the minimum gap since
// the last accepted submission has not elapsed (tokens are not consulted
// and not consumed), then the token gate rejects with ReasonRateLimited
// when the bucket is empty. On success one token is consumed, the
// submission timestamp recorded and the snapshot persisted.
func (b *TokenBucket) TryConsume(ctx context.Context) Decision {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	changed := b.refillLocked(ctx, now)

	if b.cfg.Cooldown > 0 && !b.lastSubmit.IsZero() {
		if since := now.Sub(b.lastSubmit); since < b.cfg.Cooldown {
			if changed {
				b.persistLocked(ctx)
				b.notifyLocked(now)
			}
			d := Decision{
				Remaining:  b.tokens,
				Reason:     ReasonCooldown,
				RetryAfter: b.cfg.Cooldown - since,
			}
			d.Message = fmt.Sprintf("please wait %d seconds before submitting again", d.RetryAfterSeconds())
			return d
		}
	}

	if b.tokens <= 0 {
		if changed {
			b.persistLocked(ctx)
			b.notifyLocked(now)
		}
		return Decision{
			Reason:     ReasonRateLimited,
			RetryAfter: b.lastRefill.Add(b.cfg.RefillInterval).Sub(now),
			Message:    "too many submissions, please try again later",
		}
	}

	b.tokens--
	b.lastSubmit = now
	b.persistLocked(ctx)
	b.notifyLocked(now)

	return Decision{Allowed: true, Remaining: b.tokens}
}

// Status returns a display snapshot without consuming tokens or touching
// persisted state.
func (b *TokenBucket) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statusLocked(b.now())
}

func (b *TokenBucket) statusLocked(now time.Time) Status {
	s := Status{
		Tokens:     b.tokens,
		MaxTokens:  b.cfg.MaxTokens,
		Percentage: float64(b.tokens) / float64(b.cfg.MaxTokens) * 100,
	}
	if b.cfg.Cooldown > 0 && !b.lastSubmit.IsZero() {
		if since := now.Sub(b.lastSubmit); since < b.cfg.Cooldown {
			s.CooldownActive = true
			s.CooldownRemaining = b.cfg.Cooldown - since
		}
	}
	return s
}

// OnChange registers the display observer, replacing any observer set
// earlier. The observer fires synchronously on every state change and
// immediately once with the current state.
func (b *TokenBucket) OnChange(fn Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observer = fn
	b.notifyLocked(b.now())
}

// Reset refills the bucket and clears the cooldown.
func (b *TokenBucket) Reset(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.tokens = b.cfg.MaxTokens
	b.lastRefill = now
	b.lastSubmit = time.Time{}
	b.persistLocked(ctx)
	b.notifyLocked(now)
}

// Close stops the refill ticker. Safe to call more than once.
func (b *TokenBucket) Close() {
	b.closeOnce.Do(func() {
		b.ticker.Stop()
		close(b.done)
	})
}

// persistLocked writes the snapshot inside the critical section so writes
// are never reordered across a read-modify-write. A store failure flips
// the limiter into degraded mode and is logged once per failure streak.
func (b *TokenBucket) persistLocked(ctx context.Context) {
	state := persistedBucket{
		Tokens:       b.tokens,
		LastRefillMs: b.lastRefill.UnixMilli(),
	}
	if !b.lastSubmit.IsZero() {
		state.LastSubmitMs = b.lastSubmit.UnixMilli()
	}

	raw, err := json.Marshal(state)
	if err == nil {
		err = b.store.Set(ctx, b.key(), string(raw))
	}
	if err != nil {
		if !b.degraded {
			b.degraded = true
			b.log.Warn("rate limiter persistence unavailable, continuing in memory",
				logger.Limiter(b.name), logger.Error(err))
		}
		return
	}
	b.degraded = false
}

func (b *TokenBucket) notifyLocked(now time.Time) {
	if b.observer != nil {
		b.observer(b.statusLocked(now))
	}
}
