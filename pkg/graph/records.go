package graph

import "time"

// Helpers for pulling typed values out of record maps. The driver hands
// back map[string]any from record.AsMap(); temporal parameters written as
// time.Time come back as time.Time.

// AsString returns the string at key, or "" when absent or not a string.
func AsString(m map[string]any, key string) string {
	v, ok := m[key].(string)
	if !ok {
		return ""
	}
	return v
}

// AsStringPtr returns a pointer to the string at key, or nil when the
// value is absent, null, or empty.
func AsStringPtr(m map[string]any, key string) *string {
	v, ok := m[key].(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// AsBool returns the bool at key, or false when absent.
func AsBool(m map[string]any, key string) bool {
	v, ok := m[key].(bool)
	if !ok {
		return false
	}
	return v
}

// AsInt returns the integer at key. Bolt integers arrive as int64.
func AsInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// AsTime returns the datetime at key, or the zero time when absent.
func AsTime(m map[string]any, key string) time.Time {
	v, ok := m[key].(time.Time)
	if !ok {
		return time.Time{}
	}
	return v
}

// AsTimePtr returns a pointer to the datetime at key, or nil when the
// value is absent or null.
func AsTimePtr(m map[string]any, key string) *time.Time {
	v, ok := m[key].(time.Time)
	if !ok {
		return nil
	}
	return &v
}

// AsMapList returns the list of maps at key. Cypher collect() of map
// projections arrives as []any of map[string]any; entries produced by an
// unmatched OPTIONAL MATCH collapse to all-null maps, which are dropped.
func AsMapList(m map[string]any, key string) []map[string]any {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if allNull(entry) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func allNull(m map[string]any) bool {
	for _, v := range m {
		if v != nil {
			return false
		}
	}
	return true
}
