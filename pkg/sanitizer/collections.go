package sanitizer

// CleanMap returns a sanitized copy of m. String values are passed through
// Clean, nested map[string]any values are sanitized recursively, and all
// other values are carried over untouched. The input map is never mutated.
func CleanMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	result := make(map[string]any, len(m))
	for key, value := range m {
		switch v := value.(type) {
		case string:
			result[key] = Clean(v)
		case map[string]any:
			result[key] = CleanMap(v)
		default:
			result[key] = value
		}
	}
	return result
}

// CleanStringMap sanitizes every value of a flat string map, returning a
// new map. Convenient for form data where all fields are strings.
func CleanStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}

	result := make(map[string]string, len(m))
	for key, value := range m {
		result[key] = Clean(value)
	}
	return result
}
