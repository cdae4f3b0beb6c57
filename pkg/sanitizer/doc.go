// Package sanitizer cleans untrusted form input before it is handed to
// storage or rendered back to a user.
//
// The central entry point is Clean, a deterministic, idempotent pipeline
// that strips null bytes, normalizes Unicode to NFC, removes script-like
// constructs and entity-encodes the HTML reserved character set before
// collapsing whitespace. CleanMap applies the same treatment recursively
// to nested maps, leaving non-string values untouched.
//
// The individual steps are exported and the generic Apply/Compose helpers
// allow building custom pipelines:
//
//	strict := sanitizer.Compose(
//	    sanitizer.StripNullBytes,
//	    sanitizer.EscapeHTML,
//	    sanitizer.CollapseWhitespace,
//	)
//	safe := strict(userInput)
//
// None of the helpers returns an error; they always produce a safe result.
// The package is stateless and safe for concurrent use.
package sanitizer
