package assistant

// Intent parameters arrive as decoded JSON, so every value needs defensive
// coercion before use.

// stringParam returns the parameter as a string, or "" when absent or not a
// string.
func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

// stringsParam accepts a single string, a []string, or a decoded JSON array
// and returns the non-empty string elements.
func stringsParam(params map[string]any, key string) []string {
	switch v := params[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return nonEmpty(v)
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// mapParam returns the parameter as a nested object, or nil.
func mapParam(params map[string]any, key string) map[string]any {
	if v, ok := params[key].(map[string]any); ok {
		return v
	}
	return nil
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
