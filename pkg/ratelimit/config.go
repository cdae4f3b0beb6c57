package ratelimit

import (
	"time"

	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/config"
)

// Config holds the token bucket settings. Immutable after construction.
type Config struct {
	MaxTokens      int
	RefillRate     int
	RefillInterval time.Duration
	// Cooldown is the minimum gap between two accepted submissions,
	// independent of the token count. Zero disables the gate.
	Cooldown time.Duration
}

func (c Config) Validate() error {
	if c.MaxTokens <= 0 {
		return ErrInvalidMaxTokens
	}
	if c.RefillRate <= 0 || c.RefillInterval <= 0 {
		return ErrInvalidRefill
	}
	if c.Cooldown < 0 {
		return ErrInvalidCooldown
	}
	return nil
}

// WindowConfig holds the sliding-window limiter settings.
type WindowConfig struct {
	MaxAttempts   int
	Window        time.Duration
	BlockDuration time.Duration
}

func (c WindowConfig) Validate() error {
	if c.MaxAttempts <= 0 || c.Window <= 0 || c.BlockDuration <= 0 {
		return ErrInvalidWindow
	}
	return nil
}

// Limits collects the configurable budgets for every limiter the site
// runs, overridable through the environment.
type Limits struct {
	RegistrationMaxTokens      int           `env:"REGISTRATION_LIMITER_MAX_TOKENS" envDefault:"5"`
	RegistrationRefillRate     int           `env:"REGISTRATION_LIMITER_REFILL_RATE" envDefault:"1"`
	RegistrationRefillInterval time.Duration `env:"REGISTRATION_LIMITER_REFILL_INTERVAL" envDefault:"1m"`
	RegistrationCooldown       time.Duration `env:"REGISTRATION_LIMITER_COOLDOWN" envDefault:"60s"`

	LoginMaxAttempts   int           `env:"LOGIN_LIMITER_MAX_ATTEMPTS" envDefault:"3"`
	LoginWindow        time.Duration `env:"LOGIN_LIMITER_WINDOW" envDefault:"5m"`
	LoginBlockDuration time.Duration `env:"LOGIN_LIMITER_BLOCK_DURATION" envDefault:"15m"`

	AdminDeletePerMinute int `env:"ADMIN_LIMITER_DELETE_PER_MINUTE" envDefault:"10"`
	AdminUpdatePerMinute int `env:"ADMIN_LIMITER_UPDATE_PER_MINUTE" envDefault:"30"`
	AdminBulkPerMinute   int `env:"ADMIN_LIMITER_BULK_PER_MINUTE" envDefault:"5"`
}

// LoadLimits reads Limits from the environment, falling back to the
// documented defaults.
func LoadLimits() (Limits, error) {
	var l Limits
	err := config.Load(&l)
	return l, err
}

// Registration returns the token bucket config for the registration form.
func (l Limits) Registration() Config {
	return Config{
		MaxTokens:      l.RegistrationMaxTokens,
		RefillRate:     l.RegistrationRefillRate,
		RefillInterval: l.RegistrationRefillInterval,
		Cooldown:       l.RegistrationCooldown,
	}
}

// Login returns the attempt-window config for the login form.
func (l Limits) Login() WindowConfig {
	return WindowConfig{
		MaxAttempts:   l.LoginMaxAttempts,
		Window:        l.LoginWindow,
		BlockDuration: l.LoginBlockDuration,
	}
}

// Admin returns the per-action token bucket configs for the admin panel,
// keyed by action name. Admin actions have no cooldown.
func (l Limits) Admin() map[string]Config {
	perMinute := func(n int) Config {
		return Config{MaxTokens: n, RefillRate: n, RefillInterval: time.Minute}
	}
	return map[string]Config{
		"admin_delete": perMinute(l.AdminDeletePerMinute),
		"admin_update": perMinute(l.AdminUpdatePerMinute),
		"admin_bulk":   perMinute(l.AdminBulkPerMinute),
	}
}

// DefaultLimits returns the documented default budgets without consulting
// the environment.
func DefaultLimits() Limits {
	return Limits{
		RegistrationMaxTokens:      5,
		RegistrationRefillRate:     1,
		RegistrationRefillInterval: time.Minute,
		RegistrationCooldown:       time.Minute,
		LoginMaxAttempts:           3,
		LoginWindow:                5 * time.Minute,
		LoginBlockDuration:         15 * time.Minute,
		AdminDeletePerMinute:       10,
		AdminUpdatePerMinute:       30,
		AdminBulkPerMinute:         5,
	}
}
