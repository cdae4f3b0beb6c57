package debounce_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/debounce"
)

// fakeButton is a Control implementation standing in for a submit button.
type fakeButton struct {
	mu      sync.Mutex
	enabled bool
	label   string
}

func newFakeButton(label string) *fakeButton {
	return &fakeButton{enabled: true, label: label}
}

func (b *fakeButton) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

func (b *fakeButton) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

func (b *fakeButton) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

func (b *fakeButton) SetLabel(label string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.label = label
}

func TestDisable(t *testing.T) {
	t.Parallel()

	t.Run("disables immediately", func(t *testing.T) {
		t.Parallel()

		button := newFakeButton("Register")
		db := debounce.New(button)

		db.Disable(time.Hour)
		assert.False(t, button.Enabled())
	})

	t.Run("fallback re-enables after duration", func(t *testing.T) {
		t.Parallel()

		button := newFakeButton("Register")
		db := debounce.New(button)

		db.Disable(20 * time.Millisecond)
		require.False(t, button.Enabled())

		assert.Eventually(t, button.Enabled, time.Second, 5*time.Millisecond)
	})

	t.Run("explicit enable cancels fallback", func(t *testing.T) {
		t.Parallel()

		button := newFakeButton("Register")
		db := debounce.New(button)

		db.Disable(time.Hour)
		db.Enable()
		assert.True(t, button.Enabled())
	})

	t.Run("idempotent on already-disabled control", func(t *testing.T) {
		t.Parallel()

		button := newFakeButton("Register")
		db := debounce.New(button)

		db.Disable(time.Hour)
		db.Disable(time.Hour)
		assert.False(t, button.Enabled())

		db.Enable()
		db.Enable()
		assert.True(t, button.Enabled())
	})
}

func TestLoadingState(t *testing.T) {
	t.Parallel()

	t.Run("swap and restore", func(t *testing.T) {
		t.Parallel()

		button := newFakeButton("Register")
		db := debounce.New(button)

		db.SetLoading("Submitting...")
		assert.False(t, button.Enabled())
		assert.Equal(t, "Submitting...", button.Label())

		db.RestoreFromLoading()
		assert.True(t, button.Enabled())
		assert.Equal(t, "Register", button.Label())
	})

	t.Run("double loading keeps original label", func(t *testing.T) {
		t.Parallel()

		button := newFakeButton("Register")
		db := debounce.New(button)

		db.SetLoading("Submitting...")
		db.SetLoading("Still working...")
		assert.Equal(t, "Still working...", button.Label())

		db.RestoreFromLoading()
		assert.Equal(t, "Register", button.Label())
	})

	t.Run("loading cancels a pending fallback timer", func(t *testing.T) {
		t.Parallel()

		button := newFakeButton("Register")
		db := debounce.New(button)

		db.Disable(20 * time.Millisecond)
		db.SetLoading("Submitting...")

		// Well past the fallback deadline the control must still be locked
		// with the busy label showing.
		time.Sleep(100 * time.Millisecond)
		assert.False(t, button.Enabled())
		assert.Equal(t, "Submitting...", button.Label())

		db.RestoreFromLoading()
		assert.True(t, button.Enabled())
		assert.Equal(t, "Register", button.Label())
	})

	t.Run("restore without loading is a no-op", func(t *testing.T) {
		t.Parallel()

		button := newFakeButton("Register")
		button.SetEnabled(false)
		db := debounce.New(button)

		db.RestoreFromLoading()
		assert.False(t, button.Enabled(), "restore must not enable a control that was never loading")
		assert.Equal(t, "Register", button.Label())
	})
}
