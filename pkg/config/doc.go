// Package config loads typed configuration structs from environment
// variables, with optional .env bootstrap and per-type caching.
package config
