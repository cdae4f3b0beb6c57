package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/config"
)

type limiterEnvConfig struct {
	MaxTokens int           `env:"TEST_LIMITER_MAX_TOKENS" envDefault:"5"`
	Cooldown  time.Duration `env:"TEST_LIMITER_COOLDOWN" envDefault:"60s"`
}

type requiredEnvConfig struct {
	Secret string `env:"TEST_REQUIRED_SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		var cfg limiterEnvConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 5, cfg.MaxTokens)
		assert.Equal(t, time.Minute, cfg.Cooldown)
	})

	t.Run("cached on second load", func(t *testing.T) {
		// The first load above cached defaults; overriding the env var
		// afterwards must not change the cached result.
		t.Setenv("TEST_LIMITER_MAX_TOKENS", "99")

		var cfg limiterEnvConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 5, cfg.MaxTokens)
	})

	t.Run("nil pointer", func(t *testing.T) {
		err := config.Load[limiterEnvConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("missing required variable", func(t *testing.T) {
		var cfg requiredEnvConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		var cfg requiredEnvConfig
		config.MustLoad(&cfg)
	})
}
