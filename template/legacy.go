package template

// MigrateLegacy upgrades documents written for the older flat schema, where
// "variant" was a list of names that all inherited from "default":
//
//	variant: [fuzzing, safe]
//
// becomes
//
//	variant: {fuzzing: default, safe: default}
//
// Only a list made entirely of strings is migrated. Anything else is returned
// unchanged so Verify can report it.
func MigrateLegacy(raw any) any {
	root, ok := raw.(Mapping)
	if !ok {
		return raw
	}
	value, ok := root.Get("variant")
	if !ok {
		return raw
	}
	names, ok := asList(value)
	if !ok {
		return raw
	}
	variants := make(Mapping, 0, len(names))
	for _, name := range names {
		s, ok := name.(string)
		if !ok {
			return raw
		}
		variants = variants.set(s, "default")
	}

	migrated := make(Mapping, len(root))
	copy(migrated, root)
	for i := range migrated {
		if k, ok := migrated[i].Key.(string); ok && k == "variant" {
			migrated[i].Value = variants
		}
	}
	return migrated
}
