// Package kv defines the key-value persistence collaborator used by the
// rate limiters, together with an in-memory implementation and a Redis
// implementation.
//
// The Store interface makes storage failure explicit: Get reports a miss
// through its bool and a backend failure through its error, so every call
// site can degrade to in-memory defaults instead of throwing. The limiters
// in pkg/ratelimit rely on this contract to keep working when the durable
// backend is disabled or over quota.
package kv
