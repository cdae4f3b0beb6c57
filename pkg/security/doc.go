// Package security coordinates the submission-protection pipeline for the
// club's public forms: debounce lock, rate limiting, field whitelisting,
// schema validation and sanitization, in that order.
//
// The Coordinator owns one token bucket per form or admin action and a
// sliding attempt window for login, all persisted through a kv.Store so
// limiter state survives restarts. ProcessSubmission runs one attempt end
// to end and returns a tagged Outcome:
//
//	coordinator, err := security.New(store)
//	if err != nil { ... }
//	defer coordinator.Close()
//
//	switch outcome := coordinator.ProcessSubmission(ctx, validator.FormRegistration, data, db).(type) {
//	case security.Accepted:
//	    // persist outcome.Data, then db.RestoreFromLoading()
//	case security.RateLimited:
//	    // show outcome.Message
//	case security.ValidationFailed:
//	    // show outcome.Errors per field
//	}
//
// Rejected attempts restore the submit control; an accepted attempt leaves
// it locked so the caller controls when it unlocks after persistence.
package security
