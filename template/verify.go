package template

import (
	"sort"
	"strings"

	"github.com/MozillaSecurity/prefpicker/errors"
	"github.com/MozillaSecurity/prefpicker/pref"
	"github.com/MozillaSecurity/prefpicker/variant"
)

// Verify performs strict checks on a parsed template so the file cannot
// silently drift into something unmaintainable. It stops at the first problem
// and returns a structural error describing it.
func Verify(raw any) error {
	root, ok := AsMapping(raw)
	if !ok {
		return errors.NewStructuralError("invalid template")
	}

	graph, err := verifyVariants(root)
	if err != nil {
		return err
	}

	prefRaw, ok := root.Get("pref")
	if !ok {
		return errors.NewStructuralError("pref dict is missing")
	}
	prefs, ok := AsMapping(prefRaw)
	if !ok {
		return errors.NewStructuralError("pref must be a dict")
	}

	used := make(map[string]bool, graph.Len())
	for _, e := range prefs {
		name, ok := e.Key.(string)
		if !ok {
			return errors.NewStructuralError("pref name must be a string")
		}
		if err := verifyPref(graph, name, e.Value, used); err != nil {
			return err
		}
	}

	var unused []string
	for _, name := range graph.Names() {
		if !used[name] {
			unused = append(unused, name)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return errors.NewStructuralError("Unused variants '%s'", strings.Join(unused, " "))
	}
	return nil
}

// verifyVariants checks the variant mapping and the parent graph it describes
func verifyVariants(root Mapping) (*variant.Graph, error) {
	value, ok := root.Get("variant")
	if !ok {
		return nil, errors.NewStructuralError("variant dict is missing")
	}
	variants, ok := AsMapping(value)
	if !ok {
		return nil, errors.NewStructuralError("variant must be a dict")
	}
	for _, e := range variants {
		name, ok := e.Key.(string)
		if !ok {
			return nil, errors.NewStructuralError("variant name must be a string")
		}
		if name == "" {
			return nil, errors.NewStructuralError("variant name is empty")
		}
		if _, ok := e.Value.(string); !ok {
			return nil, errors.NewStructuralError("variant parent name must be a string")
		}
	}

	graph := variant.New(VariantDecls(variants))
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return graph, nil
}

// verifyPref checks one pref entry and records which variants it uses
func verifyPref(graph *variant.Graph, name string, raw any, used map[string]bool) error {
	entry, ok := AsMapping(raw)
	if !ok {
		return errors.NewStructuralError("'%s' entry must contain a dict", name)
	}
	value, _ := entry.Get("variants")
	variants, ok := AsMapping(value)
	if !ok {
		return errors.NewStructuralError("'%s' is missing 'variants' dict", name)
	}
	if !variants.Has(variant.Default) {
		return errors.NewStructuralError("'%s' is missing 'default' variant", name)
	}

	for _, e := range variants {
		v, ok := e.Key.(string)
		if !ok {
			return errors.NewStructuralError("'%s' variants must be strings", name)
		}
		if !graph.Has(v) {
			return errors.NewStructuralError("'%s' in '%s' is an undefined variant", v, name)
		}
		values, ok := asList(e.Value)
		if !ok {
			return errors.NewStructuralError("variant '%s' in '%s' must be a list", v, name)
		}
		if len(values) == 0 {
			return errors.NewStructuralError("'%s' in '%s' is empty", v, name)
		}
		for _, x := range values {
			if pref.FromRaw(x).Kind() == pref.KindUnsupported {
				return errors.NewStructuralError("unsupported datatype '%s' (%s)", pref.TypeName(x), name)
			}
		}
		used[v] = true
	}
	return nil
}

// VariantDecls lists the declarations of a variant mapping in document order.
// Entries whose name or parent is not a string are skipped; Verify rejects
// those before anything else calls this.
func VariantDecls(variants Mapping) []variant.Decl {
	decls := make([]variant.Decl, 0, len(variants))
	for _, e := range variants {
		name, ok := e.Key.(string)
		if !ok {
			continue
		}
		parent, ok := e.Value.(string)
		if !ok {
			continue
		}
		decls = append(decls, variant.Decl{Name: name, Parent: parent})
	}
	return decls
}

// PrefValues walks the pref section of a verified template, calling fn for
// every (pref, variant) pair in document order.
func PrefValues(raw any, fn func(name, variant string, values []pref.Value)) {
	root, _ := AsMapping(raw)
	section, _ := root.Get("pref")
	prefs, _ := AsMapping(section)
	for _, e := range prefs {
		name, _ := e.Key.(string)
		entry, _ := AsMapping(e.Value)
		value, _ := entry.Get("variants")
		variants, _ := AsMapping(value)
		for _, ve := range variants {
			v, _ := ve.Key.(string)
			list, _ := asList(ve.Value)
			values := make([]pref.Value, 0, len(list))
			for _, x := range list {
				values = append(values, pref.FromRaw(x))
			}
			fn(name, v, values)
		}
	}
}

// Variants returns the variant declarations of a verified template
func Variants(raw any) []variant.Decl {
	root, _ := AsMapping(raw)
	section, _ := root.Get("variant")
	variants, _ := AsMapping(section)
	return VariantDecls(variants)
}
