// Package statemachine provides a minimal finite state machine over a
// fixed transition table. The submission coordinator uses it to drive each
// attempt through its lifecycle and to make illegal phase jumps impossible
// by construction.
package statemachine
