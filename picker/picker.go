// Package picker is the validated PrefPicker model: a variant graph plus the
// pref table. It renders prefs.js files and runs the advisory checks.
//
// A Picker is only ever built from a template that passed template.Verify,
// so nothing here re-checks the document shape. It is read-only after
// construction and may be shared.
package picker

import (
	"github.com/MozillaSecurity/prefpicker/errors"
	"github.com/MozillaSecurity/prefpicker/pref"
	"github.com/MozillaSecurity/prefpicker/template"
	"github.com/MozillaSecurity/prefpicker/variant"
)

// Picker holds the variants and prefs of one loaded template
type Picker struct {
	variants *variant.Graph
	prefs    *pref.Table
}

// Load reads, verifies and builds a Picker from a template file
func Load(path string) (*Picker, error) {
	raw, err := template.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromRaw(raw)
}

// LoadSource is Load for a located template, file or built-in
func LoadSource(src template.Source) (*Picker, error) {
	raw, err := src.Load()
	if err != nil {
		return nil, err
	}
	return FromRaw(raw)
}

// FromRaw verifies a parsed document and builds a Picker from it.
// Documents using the flat variant list are migrated first.
func FromRaw(raw any) (*Picker, error) {
	raw = template.MigrateLegacy(raw)
	if err := template.Verify(raw); err != nil {
		return nil, err
	}

	graph := variant.New(template.Variants(raw))
	// Verify has already walked the graph; this only guards programming errors
	if err := graph.Validate(); err != nil {
		return nil, errors.AssertionFailedf("verified template has invalid variants: %v", err)
	}

	prefs := pref.NewTable()
	template.PrefValues(raw, func(name, v string, values []pref.Value) {
		prefs.Add(name, v, values)
	})
	return &Picker{variants: graph, prefs: prefs}, nil
}

// Variants returns every variant name, default included, sorted
func (p *Picker) Variants() []string {
	return p.variants.Names()
}

// HasVariant reports whether name can be passed to Render
func (p *Picker) HasVariant(name string) bool {
	return p.variants.Has(name)
}

// VariantCount returns the number of variants including default
func (p *Picker) VariantCount() int {
	return p.variants.Len()
}

// PrefCount returns the number of prefs in the template
func (p *Picker) PrefCount() int {
	return p.prefs.Len()
}

// resolve finds the nearest variant, starting at target and walking toward
// default, that defines values for the pref. Verify guarantees default has
// an entry, so ok is only false for a target outside the graph.
func (p *Picker) resolve(entry *pref.Entry, target string) (resolved string, options []pref.Value, ok bool) {
	for v := range p.variants.Ancestry(target) {
		if values, found := entry.Values(v); found {
			return v, values, true
		}
	}
	return "", nil, false
}
