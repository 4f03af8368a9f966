package pipeline

import (
	"fmt"
	"math"
)

// ReservedStoreParam is the parameter name under which every stage
// conceptually receives the record store. A pipeline document that
// declares it for a stage is rejected before the stage runs.
const ReservedStoreParam = "data_list"

// Params is the opaque parameter bag of one stage invocation. The engine
// passes it through without interpreting its shape; stages pull out the
// keys they recognize with the typed accessors below, which tolerate both
// JSON and YAML number decodings.
type Params map[string]any

// Bool returns the boolean at key, or fallback when the key is absent.
func (p Params) Bool(key string, fallback bool) (bool, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return fallback, fmt.Errorf("param %q: want a boolean, got %T", key, raw)
	}
	return b, nil
}

// Ints returns the integer list at key, or nil when the key is absent.
func (p Params) Ints(key string) ([]int, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("param %q: want a list of integers, got %T", key, raw)
	}
	out := make([]int, 0, len(list))
	for i, v := range list {
		n, err := asInt(v)
		if err != nil {
			return nil, fmt.Errorf("param %q[%d]: %w", key, i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Strings returns the string list at key, or nil when the key is absent.
func (p Params) Strings(key string) ([]string, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("param %q: want a list of strings, got %T", key, raw)
	}
	out := make([]string, 0, len(list))
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("param %q[%d]: want a string, got %T", key, i, v)
		}
		out = append(out, s)
	}
	return out, nil
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("want an integer, got %v", n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("want an integer, got %T", v)
	}
}
