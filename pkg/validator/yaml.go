package validator

import (
	"errors"

	"gopkg.in/yaml.v3"
)

// LoadSchemas parses form schemas from YAML, keyed by form name. Length
// bounds, patterns and allowed values become configuration instead of code:
//
//	registration:
//	  teamName:
//	    required: true
//	    min_len: 3
//	    max_len: 30
//	    pattern: "^[a-zA-Z0-9 ]+$"
//	    pattern_desc: "team name may contain letters, digits and spaces only"
//
// Every pattern is compiled eagerly so a bad table fails at load time.
func LoadSchemas(data []byte) (map[string]FormSchema, error) {
	var raw map[string]map[string]FieldSchema
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Join(ErrInvalidSchema, err)
	}

	schemas := make(map[string]FormSchema, len(raw))
	for name, fields := range raw {
		schema, err := NewFormSchema(name, fields)
		if err != nil {
			return nil, err
		}
		schemas[name] = schema
	}
	return schemas, nil
}
