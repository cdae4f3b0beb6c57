package validator

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrInvalidSchema is returned when a schema definition cannot be used,
// typically because a pattern does not compile.
var ErrInvalidSchema = errors.New("invalid form schema")

// FieldSchema is the per-field rule set driving ValidateField. Zero values
// disable the corresponding check (MinLen 0 means no minimum, empty Pattern
// means no pattern check).
type FieldSchema struct {
	// Label is the human name used in error messages; the field key is
	// used when empty.
	Label string `yaml:"label"`
	// Required rejects empty values. Optional fields pass validation when
	// empty and skip every other check.
	Required bool `yaml:"required"`
	MinLen   int  `yaml:"min_len"`
	MaxLen   int  `yaml:"max_len"`
	// Pattern is a regular expression the trimmed (and, if Uppercase is
	// set, upper-cased) value must match. PatternDesc is the message shown
	// on mismatch; the pattern itself is never exposed to users.
	Pattern     string `yaml:"pattern"`
	PatternDesc string `yaml:"pattern_desc"`
	// AllowedValues turns the field into an enum; it takes precedence over
	// Pattern.
	AllowedValues []string `yaml:"allowed_values"`
	// Uppercase normalizes the value before the pattern check, for
	// structured code fields entered in mixed case.
	Uppercase bool `yaml:"uppercase"`

	compiled *regexp.Regexp
}

// FieldResult is the outcome of validating a single field.
type FieldResult struct {
	Valid bool
	// Value is the normalized value (trimmed, optionally upper-cased);
	// only meaningful when Valid.
	Value string
	Error string
}

// FormSchema is a named collection of field schemas. The field-name set
// doubles as the whitelist for unexpected-field detection.
type FormSchema struct {
	Name   string
	Fields map[string]FieldSchema
}

// NewFormSchema builds a FormSchema with every pattern pre-compiled.
func NewFormSchema(name string, fields map[string]FieldSchema) (FormSchema, error) {
	compiled := make(map[string]FieldSchema, len(fields))
	for field, fs := range fields {
		if fs.Pattern != "" {
			re, err := regexp.Compile(fs.Pattern)
			if err != nil {
				return FormSchema{}, fmt.Errorf("%w: field %q: %v", ErrInvalidSchema, field, err)
			}
			fs.compiled = re
		}
		compiled[field] = fs
	}
	return FormSchema{Name: name, Fields: compiled}, nil
}

// ValidateField checks value against schema, reporting the first violated
// rule only. Checks run in a fixed order: required/empty, minimum length,
// maximum length, then pattern or enum membership. The input is never
// mutated; the normalized value is returned in the result.
func ValidateField(field, value string, schema FieldSchema) FieldResult {
	label := schema.Label
	if label == "" {
		label = field
	}

	normalized := strings.TrimSpace(value)
	if schema.Uppercase {
		normalized = strings.ToUpper(normalized)
	}

	if normalized == "" && !schema.Required {
		return FieldResult{Valid: true}
	}

	// ApplyFirst keeps the check order of the rule slice, so the first
	// violated rule below is the one reported.
	rules := []Rule{Required(label, normalized)}
	if schema.MinLen > 0 {
		rules = append(rules, MinLen(label, normalized, schema.MinLen))
	}
	if schema.MaxLen > 0 {
		rules = append(rules, MaxLen(label, normalized, schema.MaxLen))
	}

	switch {
	case len(schema.AllowedValues) > 0:
		rules = append(rules, InList(label, normalized, schema.AllowedValues))
	case schema.Pattern != "":
		re := schema.compiled
		if re == nil {
			var err error
			re, err = regexp.Compile(schema.Pattern)
			if err != nil {
				return FieldResult{Error: fmt.Sprintf("%s cannot be validated", label)}
			}
		}
		desc := schema.PatternDesc
		if desc == "" {
			desc = fmt.Sprintf("%s has an invalid format", label)
		}
		rules = append(rules, MatchesRegex(label, normalized, re, desc))
	}

	if err := ApplyFirst(rules...); err != nil {
		return FieldResult{Error: ExtractValidationErrors(err)[0].Message}
	}
	return FieldResult{Valid: true, Value: normalized}
}

// FormResult aggregates per-field results for a whole form.
type FormResult struct {
	Valid bool
	// Errors maps field name to the single user-facing message for that
	// field.
	Errors map[string]string
	// Sanitized holds the normalized value of every field that passed
	// validation. Invalid fields never appear here.
	Sanitized map[string]string
}

// ValidateForm validates every schema field against data. Fields absent
// from data are treated as empty. Valid is true only when no field failed.
func ValidateForm(data map[string]string, schema FormSchema) FormResult {
	result := FormResult{
		Errors:    make(map[string]string),
		Sanitized: make(map[string]string),
	}

	for field, fs := range schema.Fields {
		fieldResult := ValidateField(field, data[field], fs)
		if !fieldResult.Valid {
			result.Errors[field] = fieldResult.Error
			continue
		}
		result.Sanitized[field] = fieldResult.Value
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// CheckUnexpectedFields returns the keys of data that are not part of the
// schema's whitelist, sorted for stable reporting. Callers log these and
// drop them; an unexpected field never fails the submission.
func CheckUnexpectedFields(data map[string]string, schema FormSchema) []string {
	var unexpected []string
	for field := range data {
		if _, ok := schema.Fields[field]; !ok {
			unexpected = append(unexpected, field)
		}
	}
	sort.Strings(unexpected)
	return unexpected
}
