// Package ratelimit implements the client-side submission limiters: a
// persistent token bucket with a secondary cooldown gate and a
// sliding-window attempt limiter with a block state.
//
// Both limiters are named instances over a kv.Store and survive restarts
// by snapshotting their state after every mutation. Storage failure is
// tolerated everywhere: the limiters degrade to in-memory operation,
// report it through the logger once per failure streak and never return
// an error for it. This layer is defense in depth; the authoritative
// enforcement lives in the backend's access rules.
//
// The token bucket applies two gates in a fixed order. The cooldown gate
// enforces a minimum wall-clock gap between accepted submissions and
// rejects with ReasonCooldown without consuming a token; the token gate
// then rejects with ReasonRateLimited when the bucket is empty. Refill
// happens both on a background ticker and through catch-up arithmetic on
// access, so a page that was idle for several intervals regains the right
// number of tokens immediately.
package ratelimit
