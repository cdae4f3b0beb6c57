// Package debounce suppresses duplicate trigger events on a submit
// control. A Debouncer disables the control while a submission is in
// flight, swaps a busy label in and out, and arms a fallback timer so the
// control never stays locked forever if the caller forgets to restore it.
package debounce
