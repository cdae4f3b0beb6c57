package ratelimit

import "errors"

var (
	ErrNameRequired     = errors.New("limiter name is required")
	ErrStoreRequired    = errors.New("store is required")
	ErrKeyRequired      = errors.New("key is required")
	ErrInvalidMaxTokens = errors.New("max tokens must be positive")
	ErrInvalidRefill    = errors.New("refill rate and interval must be positive")
	ErrInvalidCooldown  = errors.New("cooldown must not be negative")
	ErrInvalidWindow    = errors.New("attempt window settings must be positive")
)
