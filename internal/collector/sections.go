package collector

import (
	"fmt"
	"time"
)

func stringValue(section map[string]any, key string) string {
	if v, ok := section[key].(string); ok {
		return v
	}
	return ""
}

func boolValue(section map[string]any, key string) bool {
	v, _ := section[key].(bool)
	return v
}

func stringList(section map[string]any, key string) []string {
	list, ok := section[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// durationValue accepts "15s"-style strings or a number of seconds.
func durationValue(section map[string]any, key string) (time.Duration, error) {
	switch v := section[key].(type) {
	case nil:
		return 0, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return d, nil
	case int:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	default:
		return 0, fmt.Errorf("%s: unsupported value %v", key, v)
	}
}

// enabledSection returns the named section unless it is missing or has
// enabled: false.
func enabledSection(sources map[string]any, key string) (map[string]any, bool) {
	section, ok := sources[key].(map[string]any)
	if !ok {
		return nil, false
	}
	if v, ok := section["enabled"].(bool); ok && !v {
		return nil, false
	}
	return section, true
}
