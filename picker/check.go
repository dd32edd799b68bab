package picker

import (
	"iter"
	"math/big"

	"github.com/MozillaSecurity/prefpicker/pref"
	"github.com/MozillaSecurity/prefpicker/variant"
)

// Duplicate is a variant that lists the same value more than once for a pref
type Duplicate struct {
	Pref    string
	Variant string
}

// Overwrite is a variant value that its parent already offers
type Overwrite struct {
	Pref    string
	Variant string
	Value   pref.Value
}

// Combination is the number of distinct prefs.js files a variant can produce
type Combination struct {
	Variant string
	Count   *big.Int
}

// Duplicates yields (pref, variant) pairs whose value list repeats a value.
// Prefs and variants are visited in name order.
func (p *Picker) Duplicates() iter.Seq[Duplicate] {
	return func(yield func(Duplicate) bool) {
		for _, name := range p.prefs.Names() {
			entry, _ := p.prefs.Entry(name)
			for _, v := range entry.Variants() {
				values, _ := entry.Values(v)
				if !hasDuplicate(values) {
					continue
				}
				if !yield(Duplicate{Pref: name, Variant: v}) {
					return
				}
			}
		}
	}
}

// Overwrites yields values a non-default variant defines that are already
// among the options its parent resolves to for the same pref. These are
// often intentional, for example to narrow a list, so they are reported
// rather than rejected.
func (p *Picker) Overwrites() iter.Seq[Overwrite] {
	return func(yield func(Overwrite) bool) {
		for _, name := range p.prefs.Names() {
			entry, _ := p.prefs.Entry(name)
			for _, v := range entry.Variants() {
				if v == variant.Default {
					continue
				}
				parent, ok := p.variants.Parent(v)
				if !ok {
					continue
				}
				_, inherited, ok := p.resolve(entry, parent)
				if !ok {
					continue
				}
				values, _ := entry.Values(v)
				for _, value := range values {
					if !contains(inherited, value) {
						continue
					}
					if !yield(Overwrite{Pref: name, Variant: v, Value: value}) {
						return
					}
				}
			}
		}
	}
}

// Combinations yields, for each variant in name order, the product of the
// option counts of every pref as that variant resolves it. Variants with a
// single possible output are skipped.
func (p *Picker) Combinations() iter.Seq[Combination] {
	return func(yield func(Combination) bool) {
		for _, v := range p.variants.Names() {
			count := big.NewInt(1)
			for _, name := range p.prefs.Names() {
				entry, _ := p.prefs.Entry(name)
				_, options, ok := p.resolve(entry, v)
				if !ok {
					continue
				}
				if len(options) > 1 {
					count.Mul(count, big.NewInt(int64(len(options))))
				}
			}
			if count.Cmp(big.NewInt(1)) <= 0 {
				continue
			}
			if !yield(Combination{Variant: v, Count: count}) {
				return
			}
		}
	}
}

func hasDuplicate(values []pref.Value) bool {
	for i := range values {
		if contains(values[i+1:], values[i]) {
			return true
		}
	}
	return false
}

func contains(values []pref.Value, v pref.Value) bool {
	for _, o := range values {
		if o.Equal(v) {
			return true
		}
	}
	return false
}
