package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/ratelimit"
)

func TestDefaultLimits(t *testing.T) {
	t.Parallel()

	limits := ratelimit.DefaultLimits()

	reg := limits.Registration()
	require.NoError(t, reg.Validate())
	assert.Equal(t, 5, reg.MaxTokens)
	assert.Equal(t, 1, reg.RefillRate)
	assert.Equal(t, time.Minute, reg.RefillInterval)
	assert.Equal(t, time.Minute, reg.Cooldown)

	login := limits.Login()
	require.NoError(t, login.Validate())
	assert.Equal(t, 3, login.MaxAttempts)
	assert.Equal(t, 5*time.Minute, login.Window)
	assert.Equal(t, 15*time.Minute, login.BlockDuration)

	admin := limits.Admin()
	require.Len(t, admin, 3)
	assert.Equal(t, 10, admin["admin_delete"].MaxTokens)
	assert.Equal(t, 30, admin["admin_update"].MaxTokens)
	assert.Equal(t, 5, admin["admin_bulk"].MaxTokens)
	for name, cfg := range admin {
		assert.NoError(t, cfg.Validate(), name)
		assert.Zero(t, cfg.Cooldown, name)
	}
}

func TestLoadLimits(t *testing.T) {
	limits, err := ratelimit.LoadLimits()
	require.NoError(t, err)
	assert.Equal(t, ratelimit.DefaultLimits(), limits)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, ratelimit.Config{}.Validate(), ratelimit.ErrInvalidMaxTokens)
	assert.ErrorIs(t, ratelimit.Config{MaxTokens: 1}.Validate(), ratelimit.ErrInvalidRefill)
	assert.NoError(t, ratelimit.Config{MaxTokens: 1, RefillRate: 1, RefillInterval: time.Second}.Validate())

	assert.ErrorIs(t, ratelimit.WindowConfig{}.Validate(), ratelimit.ErrInvalidWindow)
	assert.NoError(t, loginWindowConfig().Validate())
}
