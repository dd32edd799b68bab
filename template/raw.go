package template

import (
	"fmt"
	"sort"
)

// Entry is one key/value pair of a Mapping
type Entry struct {
	Key   any
	Value any
}

// Mapping is a decoded document mapping that keeps the author's key order.
// Keys are usually strings but YAML allows other scalars, so they stay untyped
// until the verifier has looked at them.
type Mapping []Entry

// TypeName names the type in verifier messages
func (m Mapping) TypeName() string { return "dict" }

// Get returns the value stored under a string key
func (m Mapping) Get(key string) (any, bool) {
	for _, e := range m {
		if k, ok := e.Key.(string); ok && k == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether a string key is present
func (m Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// set replaces the value of an existing key or appends a new entry.
// A repeated key keeps its first position and takes the last value.
func (m Mapping) set(key, value any) Mapping {
	for i := range m {
		if sameKey(m[i].Key, key) {
			m[i].Value = value
			return m
		}
	}
	return append(m, Entry{Key: key, Value: value})
}

// addMissing appends e unless its key is already present
func (m Mapping) addMissing(e Entry) Mapping {
	for i := range m {
		if sameKey(m[i].Key, e.Key) {
			return m
		}
	}
	return append(m, e)
}

func sameKey(a, b any) bool {
	switch a.(type) {
	case Mapping, []any:
		return false
	}
	switch b.(type) {
	case Mapping, []any:
		return false
	}
	return a == b
}

// AsMapping accepts a decoded Mapping or a plain Go map, so templates can be
// built in code as well as parsed. Plain maps are ordered by key.
func AsMapping(v any) (Mapping, bool) {
	switch m := v.(type) {
	case Mapping:
		return m, true
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(Mapping, 0, len(m))
		for _, k := range keys {
			out = append(out, Entry{Key: k, Value: m[k]})
		}
		return out, true
	case map[any]any:
		keys := make([]any, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
		})
		out := make(Mapping, 0, len(m))
		for _, k := range keys {
			out = append(out, Entry{Key: k, Value: m[k]})
		}
		return out, true
	}
	return nil, false
}

// asList accepts decoded sequences
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
