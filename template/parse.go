// Package template loads and verifies PrefPicker template documents.
//
// A template is a YAML (or JSONC) document with two top-level keys:
//
//	variant:
//	  fuzzing: default      # variant name -> parent variant
//	  fuzzing-asan: fuzzing
//	pref:
//	  dom.disable_open_during_load:
//	    variants:
//	      default: [false]
//	      fuzzing: [true, false]
//
// Loading is split in two steps. Parse turns bytes into a generic ordered
// structure and only fails on syntax. Verify checks that structure against the
// schema and fails on the first violation. Nothing downstream of Verify
// re-checks the shape.
package template

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/MozillaSecurity/prefpicker/errors"
)

// Format identifies the document syntax of a template
type Format string

const (
	FormatYAML  Format = "YAML"
	FormatJSONC Format = "JSONC"
)

// maxNodes caps how many nodes a single document may expand to.
// YAML aliases can otherwise blow a small file up exponentially.
const maxNodes = 1 << 20

// resolved YAML tags
const (
	intTag   = "!!int"
	mergeTag = "!!merge"
)

// FormatFromPath picks the syntax from the file extension.
// .json and .jsonc are JSONC, everything else is YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSONC
	default:
		return FormatYAML
	}
}

// ReadFile reads and parses a template file
func ReadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return Parse(data, FormatFromPath(path))
}

// Parse decodes a document into Mapping, []any and scalar values.
// Syntax errors are reported as "invalid <format>" parse errors.
func Parse(data []byte, format Format) (any, error) {
	switch format {
	case FormatJSONC:
		return parseJSONC(data)
	case FormatYAML, "":
		return parseYAML(data)
	default:
		return nil, errors.Newf("unsupported template format %q", format)
	}
}

func parseYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.NewParseError(string(FormatYAML), err)
	}
	c := &yamlConverter{budget: maxNodes}
	raw, err := c.convert(&root)
	if err != nil {
		return nil, errors.NewParseError(string(FormatYAML), err)
	}
	return raw, nil
}

type yamlConverter struct {
	budget int
}

func (c *yamlConverter) convert(n *yaml.Node) (any, error) {
	c.budget--
	if c.budget < 0 {
		return nil, errors.New("document too large")
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return c.convert(n.Content[0])
	case yaml.MappingNode:
		m := make(Mapping, 0, len(n.Content)/2)
		var merged []Mapping
		for i := 0; i+1 < len(n.Content); i += 2 {
			if isMergeKey(n.Content[i]) {
				sources, err := c.mergeSources(n.Content[i+1])
				if err != nil {
					return nil, err
				}
				merged = append(merged, sources...)
				continue
			}
			key, err := c.convert(n.Content[i])
			if err != nil {
				return nil, err
			}
			value, err := c.convert(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m = m.set(key, value)
		}
		// explicit keys win, then earlier merge sources over later ones
		for _, src := range merged {
			for _, e := range src {
				m = m.addMissing(e)
			}
		}
		return m, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			value, err := c.convert(child)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		return list, nil
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, errors.New("unknown alias")
		}
		return c.convert(n.Alias)
	case yaml.ScalarNode:
		var value any
		if err := n.Decode(&value); err != nil {
			if i, ok := bigInt(n); ok {
				return i, nil
			}
			return nil, err
		}
		switch value.(type) {
		case float64, string:
			// integers beyond 64 bits resolve to floats or strings
			if i, ok := bigInt(n); ok {
				return i, nil
			}
		}
		return value, nil
	default:
		// empty input decodes to a zero node
		return nil, nil
	}
}

// isMergeKey reports whether n is the YAML merge key "<<"
func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == mergeTag
}

// mergeSources returns the mappings a merge key pulls in: a single mapping
// or a sequence of them, usually given as aliases
func (c *yamlConverter) mergeSources(n *yaml.Node) ([]Mapping, error) {
	value, err := c.convert(n)
	if err != nil {
		return nil, err
	}
	if m, ok := value.(Mapping); ok {
		return []Mapping{m}, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, errors.New("map merge requires map or sequence of maps as the value")
	}
	sources := make([]Mapping, 0, len(list))
	for _, item := range list {
		m, ok := item.(Mapping)
		if !ok {
			return nil, errors.New("map merge requires map or sequence of maps as the value")
		}
		sources = append(sources, m)
	}
	return sources, nil
}

// bigInt decodes an integer scalar too large for 64 bits. Quoted scalars and
// scalars explicitly tagged as anything but !!int are left alone.
func bigInt(n *yaml.Node) (*big.Int, bool) {
	if n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return nil, false
	}
	if n.Style&yaml.TaggedStyle != 0 && n.ShortTag() != intTag {
		return nil, false
	}
	return parseBigInt(n.Value)
}

// parseBigInt accepts decimal, 0x, 0o and 0b integers with an optional sign
// and digit separators. Floats such as "1e400" do not parse.
func parseBigInt(s string) (*big.Int, bool) {
	return new(big.Int).SetString(s, 0)
}

func parseJSONC(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	raw, err := readJSON(dec)
	if err != nil {
		return nil, errors.NewParseError(string(FormatJSONC), err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.NewParseError(string(FormatJSONC), errors.New("trailing data after document"))
	}
	return raw, nil
}

// readJSON decodes one value from a token stream, keeping object key order
func readJSON(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := Mapping{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, errors.Newf("unexpected object key %v", keyTok)
				}
				value, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				m = m.set(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			list := []any{}
			for dec.More() {
				value, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		default:
			return nil, errors.Newf("unexpected delimiter %q", t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		if i, ok := parseBigInt(t.String()); ok {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		// string, bool or nil
		return t, nil
	}
}
