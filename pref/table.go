// Package pref holds preference definitions: for every pref name, the
// candidate values offered by each variant that overrides it.
package pref

import (
	"slices"
	"sort"
)

// Entry is a single pref and its per-variant candidate lists
type Entry struct {
	name     string
	variants map[string][]Value
}

// Name returns the pref name
func (e *Entry) Name() string { return e.name }

// Values returns the candidate list the variant defines explicitly.
// ok is false when the variant has no entry of its own for this pref.
func (e *Entry) Values(variant string) (values []Value, ok bool) {
	values, ok = e.variants[variant]
	if !ok {
		return nil, false
	}
	return slices.Clone(values), true
}

// Has reports whether the variant defines values for this pref
func (e *Entry) Has(variant string) bool {
	_, ok := e.variants[variant]
	return ok
}

// Variants returns the names of variants with explicit entries, sorted
func (e *Entry) Variants() []string {
	names := make([]string, 0, len(e.variants))
	for name := range e.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table maps pref names to their entries
type Table struct {
	entries map[string]*Entry
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

// Add sets the candidate values of a pref for one variant, replacing any
// previous list for that pair. The slice is copied.
func (t *Table) Add(name, variant string, values []Value) {
	entry, ok := t.entries[name]
	if !ok {
		entry = &Entry{name: name, variants: make(map[string][]Value)}
		t.entries[name] = entry
	}
	entry.variants[variant] = slices.Clone(values)
}

// Entry returns the entry for name
func (t *Table) Entry(name string) (*Entry, bool) {
	entry, ok := t.entries[name]
	return entry, ok
}

// Names returns all pref names, sorted
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of prefs
func (t *Table) Len() int {
	return len(t.entries)
}
