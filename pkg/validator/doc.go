// Package validator provides schema-driven validation for form input.
//
// Each field is checked against a FieldSchema in a fixed order — required,
// minimum length, maximum length, then pattern or enum membership — and
// reports only the first violated rule so users see one message per field.
// ValidateForm aggregates per-field results for a whole form and exposes
// the normalized values of valid fields; CheckUnexpectedFields flags input
// keys outside the schema whitelist as a mass-assignment defense.
//
// Schemas for the club site's registration and login forms are built in;
// LoadSchemas reads the same shape from YAML so bounds can be configured
// without recompiling. The lower-level Rule helpers (Required, MinLen,
// MatchesRegex, ...) remain available for one-off checks.
package validator
