package ratelimit

import (
	"errors"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidLimits is returned when a YAML limiter table cannot be parsed.
var ErrInvalidLimits = errors.New("invalid limits table")

// LoadLimitsYAML parses the limiter budgets from YAML, starting from the
// documented defaults so a partial table only overrides what it names.
// Durations use Go syntax:
//
//	registration:
//	  max_tokens: 5
//	  refill_rate: 1
//	  refill_interval: 1m
//	  cooldown: 60s
//	login:
//	  max_attempts: 3
//	  window: 5m
//	  block_duration: 15m
//	admin:
//	  delete_per_minute: 10
//	  update_per_minute: 30
//	  bulk_per_minute: 5
//
// Every section present is validated so a bad table fails at load time.
func LoadLimitsYAML(data []byte) (Limits, error) {
	limits := DefaultLimits()

	var raw struct {
		Registration *Config       `yaml:"registration"`
		Login        *WindowConfig `yaml:"login"`
		Admin        *struct {
			DeletePerMinute int `yaml:"delete_per_minute"`
			UpdatePerMinute int `yaml:"update_per_minute"`
			BulkPerMinute   int `yaml:"bulk_per_minute"`
		} `yaml:"admin"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Limits{}, errors.Join(ErrInvalidLimits, err)
	}

	if raw.Registration != nil {
		if err := raw.Registration.Validate(); err != nil {
			return Limits{}, errors.Join(ErrInvalidLimits, err)
		}
		limits.RegistrationMaxTokens = raw.Registration.MaxTokens
		limits.RegistrationRefillRate = raw.Registration.RefillRate
		limits.RegistrationRefillInterval = raw.Registration.RefillInterval
		limits.RegistrationCooldown = raw.Registration.Cooldown
	}
	if raw.Login != nil {
		if err := raw.Login.Validate(); err != nil {
			return Limits{}, errors.Join(ErrInvalidLimits, err)
		}
		limits.LoginMaxAttempts = raw.Login.MaxAttempts
		limits.LoginWindow = raw.Login.Window
		limits.LoginBlockDuration = raw.Login.BlockDuration
	}
	if raw.Admin != nil {
		limits.AdminDeletePerMinute = raw.Admin.DeletePerMinute
		limits.AdminUpdatePerMinute = raw.Admin.UpdatePerMinute
		limits.AdminBulkPerMinute = raw.Admin.BulkPerMinute
	}

	return limits, nil
}

// UnmarshalYAML decodes a token bucket section, accepting durations in Go
// syntax ("1m", "60s") rather than raw nanoseconds.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		MaxTokens      int    `yaml:"max_tokens"`
		RefillRate     int    `yaml:"refill_rate"`
		RefillInterval string `yaml:"refill_interval"`
		Cooldown       string `yaml:"cooldown"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	c.MaxTokens = raw.MaxTokens
	c.RefillRate = raw.RefillRate

	var err error
	if c.RefillInterval, err = parseDuration(raw.RefillInterval); err != nil {
		return err
	}
	if c.Cooldown, err = parseDuration(raw.Cooldown); err != nil {
		return err
	}
	return nil
}

// UnmarshalYAML decodes an attempt-window section with the same duration
// syntax as Config.
func (c *WindowConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		MaxAttempts   int    `yaml:"max_attempts"`
		Window        string `yaml:"window"`
		BlockDuration string `yaml:"block_duration"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	c.MaxAttempts = raw.MaxAttempts

	var err error
	if c.Window, err = parseDuration(raw.Window); err != nil {
		return err
	}
	c.BlockDuration, err = parseDuration(raw.BlockDuration)
	return err
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
