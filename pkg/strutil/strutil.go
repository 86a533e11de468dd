package strutil

import (
	"fmt"
	"strings"
)

// ParseKeyValues converts ["key=value"] to {"key":"value"}. Every entry needs a key and an
// "=" separator; the value may be empty. Later entries override earlier ones.
func ParseKeyValues(values []string) (map[string]string, error) {
	result := make(map[string]string, len(values))

	for _, value := range values {
		key, val, found := strings.Cut(value, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid option %q, expected key=value", value)
		}
		result[key] = strings.TrimSpace(val)
	}

	return result, nil
}

// DedupeStrSlice removes duplicates from in, keeping the first occurrence of each string.
func DedupeStrSlice(in []string) []string {
	m := make(map[string]struct{}, len(in))

	var res []string

	for _, s := range in {
		if _, ok := m[s]; !ok {
			res = append(res, s)
			m[s] = struct{}{}
		}
	}

	return res
}
