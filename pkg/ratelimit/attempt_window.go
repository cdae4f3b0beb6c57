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

// persistedWindow is the per-key snapshot written to the store.
type persistedWindow struct {
	AttemptsMs     []int64 `json:"attempts_ms"`
	BlockedUntilMs int64   `json:"blocked_until_ms,omitempty"`
}

type windowState struct {
	attempts     []time.Time
	blockedUntil time.Time
}

// AttemptWindow is the sliding-window sibling of TokenBucket, used for
// login attempts. Each key tracks the timestamps of its recent attempts;
// exceeding MaxAttempts within Window puts the key into a blocked state
// for BlockDuration. The block is cleared lazily on the first check after
// it expires.
type AttemptWindow struct {
	name  string
	cfg   WindowConfig
	store kv.Store
	log   *slog.Logger
	now   func() time.Time

	mu       sync.Mutex
	keys     map[string]*windowState
	loaded   map[string]bool
	degraded bool
}

// AttemptWindowOption configures an AttemptWindow.
type AttemptWindowOption func(*AttemptWindow)

// WithWindowLogger sets the logger used for degraded-persistence reports.
func WithWindowLogger(log *slog.Logger) AttemptWindowOption {
	return func(w *AttemptWindow) {
		if log != nil {
			w.log = log
		}
	}
}

// WithWindowTimeSource overrides the wall clock, for tests.
func WithWindowTimeSource(now func() time.Time) AttemptWindowOption {
	return func(w *AttemptWindow) {
		if now != nil {
			w.now = now
		}
	}
}

// NewAttemptWindow creates a sliding-window limiter named name. Per-key
// state is loaded from the store on first use of each key and persisted
// after every mutation, with the same degrade-to-memory behavior as
// TokenBucket.
func NewAttemptWindow(name string, cfg WindowConfig, store kv.Store, opts ...AttemptWindowOption) (*AttemptWindow, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &AttemptWindow{
		name:   name,
		cfg:    cfg,
		store:  store,
		log:    logger.NewDiscard(),
		now:    time.Now,
		keys:   make(map[string]*windowState),
		loaded: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *AttemptWindow) key(key string) string {
	return "ratelimit:" + w.name + ":" + key
}

// Attempt records one attempt for key if the key is not blocked. When the
// recorded attempts within the window already reach MaxAttempts the key
// enters the blocked state and the decision carries the retry-after time.
func (w *AttemptWindow) Attempt(ctx context.Context, key string) (Decision, error) {
	if key == "" {
		return Decision{}, ErrKeyRequired
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	st := w.stateFor(ctx, key)
	now := w.now()

	if !st.blockedUntil.IsZero() {
		if now.Before(st.blockedUntil) {
			return w.blockedDecision(st, now), nil
		}
		// Block expired; clear lazily.
		st.blockedUntil = time.Time{}
		st.attempts = nil
		w.persistLocked(ctx, key, st)
	}

	st.attempts = pruneBefore(st.attempts, now.Add(-w.cfg.Window))

	if len(st.attempts) >= w.cfg.MaxAttempts {
		st.blockedUntil = now.Add(w.cfg.BlockDuration)
		w.persistLocked(ctx, key, st)
		return w.blockedDecision(st, now), nil
	}

	st.attempts = append(st.attempts, now)
	w.persistLocked(ctx, key, st)

	return Decision{
		Allowed:   true,
		Remaining: w.cfg.MaxAttempts - len(st.attempts),
	}, nil
}

// Status reports the remaining attempt budget for key without recording
// anything.
func (w *AttemptWindow) Status(ctx context.Context, key string) (Status, error) {
	if key == "" {
		return Status{}, ErrKeyRequired
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	st := w.stateFor(ctx, key)
	now := w.now()

	s := Status{MaxTokens: w.cfg.MaxAttempts}
	if !st.blockedUntil.IsZero() && now.Before(st.blockedUntil) {
		s.CooldownActive = true
		s.CooldownRemaining = st.blockedUntil.Sub(now)
		return s, nil
	}

	remaining := w.cfg.MaxAttempts - countSince(st.attempts, now.Add(-w.cfg.Window))
	s.Tokens = max(remaining, 0)
	s.Percentage = float64(s.Tokens) / float64(w.cfg.MaxAttempts) * 100
	return s, nil
}

// Reset clears the tracked attempts and any block for key.
func (w *AttemptWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.keys, key)
	delete(w.loaded, key)
	if err := w.store.Delete(ctx, w.key(key)); err != nil {
		w.log.Warn("failed to clear persisted attempt state",
			logger.Limiter(w.name), logger.Error(err))
	}
	return nil
}

func (w *AttemptWindow) blockedDecision(st *windowState, now time.Time) Decision {
	d := Decision{
		Reason:     ReasonRateLimited,
		RetryAfter: st.blockedUntil.Sub(now),
	}
	d.Message = fmt.Sprintf("too many attempts, please try again in %d seconds", d.RetryAfterSeconds())
	return d
}

// stateFor returns the in-memory state for key, loading the persisted
// snapshot on first use. Storage failures leave the key with fresh state.
func (w *AttemptWindow) stateFor(ctx context.Context, key string) *windowState {
	if st, ok := w.keys[key]; ok {
		return st
	}

	st := &windowState{}
	w.keys[key] = st

	if w.loaded[key] {
		return st
	}
	w.loaded[key] = true

	raw, ok, err := w.store.Get(ctx, w.key(key))
	if err != nil {
		w.degraded = true
		w.log.Warn("attempt window state unavailable, using in-memory defaults",
			logger.Limiter(w.name), logger.Error(err))
		return st
	}
	if !ok {
		return st
	}

	var snapshot persistedWindow
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		w.log.Warn("discarding corrupt attempt window state",
			logger.Limiter(w.name), logger.Error(err))
		return st
	}

	for _, ms := range snapshot.AttemptsMs {
		st.attempts = append(st.attempts, time.UnixMilli(ms))
	}
	if snapshot.BlockedUntilMs > 0 {
		st.blockedUntil = time.UnixMilli(snapshot.BlockedUntilMs)
	}
	return st
}

func (w *AttemptWindow) persistLocked(ctx context.Context, key string, st *windowState) {
	snapshot := persistedWindow{}
	for _, t := range st.attempts {
		snapshot.AttemptsMs = append(snapshot.AttemptsMs, t.UnixMilli())
	}
	if !st.blockedUntil.IsZero() {
		snapshot.BlockedUntilMs = st.blockedUntil.UnixMilli()
	}

	raw, err := json.Marshal(snapshot)
	if err == nil {
		err = w.store.Set(ctx, w.key(key), string(raw))
	}
	if err != nil {
		if !w.degraded {
			w.degraded = true
			w.log.Warn("attempt window persistence unavailable, continuing in memory",
				logger.Limiter(w.name), logger.Error(err))
		}
		return
	}
	w.degraded = false
}

// pruneBefore compacts attempts in place; callers must assign the result
// back. Read-only paths use countSince instead.
func pruneBefore(attempts []time.Time, cutoff time.Time) []time.Time {
	kept := attempts[:0]
	for _, t := range attempts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

func countSince(attempts []time.Time, cutoff time.Time) int {
	n := 0
	for _, t := range attempts {
		if t.After(cutoff) {
			n++
		}
	}
	return n
}
