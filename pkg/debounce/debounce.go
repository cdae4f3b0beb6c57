package debounce

import (
	"sync"
	"time"
)

// Control is the handle to a submit affordance (typically a button). The
// implementation lives at the UI boundary; this package only flips its
// state.
type Control interface {
	Enabled() bool
	SetEnabled(enabled bool)
	Label() string
	SetLabel(label string)
}

// Debouncer locks a single Control against duplicate trigger events.
// Every method is idempotent and safe to call on an already-disabled or
// already-enabled control.
type Debouncer struct {
	mu      sync.Mutex
	control Control
	saved   string
	loading bool
	timer   *time.Timer
}

// New wraps control in a Debouncer.
func New(control Control) *Debouncer {
	return &Debouncer{control: control}
}

// Disable marks the control non-interactive and arms a fallback timer that
// re-enables it after d, in case no explicit Enable ever arrives. Calling
// Disable again re-arms the timer.
func (db *Debouncer) Disable(d time.Duration) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.control.SetEnabled(false)
	db.stopTimerLocked()
	db.timer = time.AfterFunc(d, db.Enable)
}

// Enable re-enables the control and cancels the fallback timer.
func (db *Debouncer) Enable() {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.stopTimerLocked()
	db.control.SetEnabled(true)
}

// SetLoading swaps in a busy label and disables the control, remembering
// the prior label for exact restoration. Calling SetLoading while already
// loading only updates the busy label; the original label stays saved.
func (db *Debouncer) SetLoading(busyLabel string) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if !db.loading {
		db.saved = db.control.Label()
		db.loading = true
	}
	db.control.SetLabel(busyLabel)
	db.control.SetEnabled(false)
	// A fallback timer armed by an earlier Disable must not fire mid-flight
	// and re-enable the control while the busy label is shown.
	db.stopTimerLocked()
}

// RestoreFromLoading puts the saved label back and re-enables the control.
// A no-op when the control is not in the loading state.
func (db *Debouncer) RestoreFromLoading() {
	db.mu.Lock()
	defer db.mu.Unlock()

	if !db.loading {
		return
	}
	db.loading = false
	db.control.SetLabel(db.saved)
	db.stopTimerLocked()
	db.control.SetEnabled(true)
}

func (db *Debouncer) stopTimerLocked() {
	if db.timer != nil {
		db.timer.Stop()
		db.timer = nil
	}
}
