package kv

import "context"

// Store is a string key-value collaborator used to persist limiter state.
// A miss is reported through the bool, a backend failure through the error,
// so callers can distinguish "no prior state" from "storage unavailable"
// and fall back to in-memory defaults without guessing.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
