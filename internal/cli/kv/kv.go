// Package kv turns key=value command arguments into partial settings maps.
package kv

import (
	"fmt"
	"strings"
)

// Parse builds a nested map from key=value pairs. Dotted keys create nested
// objects, so agents.security.model=gpt-4o becomes
// {"agents": {"security": {"model": "gpt-4o"}}}. The value null becomes nil.
func Parse(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("expected at least one key=value pair")
	}

	out := make(map[string]any)
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", pair)
		}

		var v any = value
		if value == "null" {
			v = nil
		}

		if err := set(out, strings.Split(key, "."), v); err != nil {
			return nil, fmt.Errorf("invalid assignment %q: %w", pair, err)
		}
	}
	return out, nil
}

func set(m map[string]any, path []string, v any) error {
	for i, part := range path {
		if part == "" {
			return fmt.Errorf("empty key segment")
		}
		if i == len(path)-1 {
			if _, exists := m[part]; exists {
				return fmt.Errorf("key %s given twice", strings.Join(path, "."))
			}
			m[part] = v
			return nil
		}

		next, exists := m[part]
		if !exists {
			child := make(map[string]any)
			m[part] = child
			m = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%s is not an object", strings.Join(path[:i+1], "."))
		}
		m = child
	}
	return nil
}
