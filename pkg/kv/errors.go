package kv

import "errors"

var (
	ErrClientRequired       = errors.New("redis client is required")
	ErrInvalidConnectionURL = errors.New("failed to parse redis connection string")
	ErrRedisNotReady        = errors.New("redis did not become ready within the given time period")
)
