// Package logger provides a small factory over log/slog with functional
// options for level, format, output and static attributes, plus attribute
// helpers shared across the module.
package logger
