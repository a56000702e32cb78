package scenario

import "strings"

func (r *Runner) failf(format string, args ...any) error {
	return r.assertions.Failf(format, args...)
}

func (r *Runner) assertf(format string, args ...any) error {
	return r.assertions.Assertf(format, args...)
}

func requiredString(args map[string]any, key string) string {
	text, _ := args[key].(string)
	return text
}

func readInt(args map[string]any, key string) (int, bool) {
	switch typed := args[key].(type) {
	case int:
		return typed, true
	case float64:
		return int(typed), true
	default:
		return 0, false
	}
}

func optionalString(args map[string]any, key, fallback string) string {
	text, ok := args[key].(string)
	if ok && text != "" {
		return text
	}
	return fallback
}

func optionalBool(args map[string]any, key string, fallback bool) bool {
	switch typed := args[key].(type) {
	case bool:
		return typed
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
	}
	return fallback
}
