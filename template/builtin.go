package template

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MozillaSecurity/prefpicker/errors"
)

//go:embed builtin/*.yml
var builtinFS embed.FS

// Source is a located template: either a file on disk or a built-in
type Source struct {
	Name    string // file name, e.g. "browser-fuzzing.yml"
	Path    string // disk path; empty for built-ins
	Builtin bool
}

// Read returns the raw bytes of the template
func (s Source) Read() ([]byte, error) {
	if s.Builtin {
		data, ok := LookupBuiltin(s.Name)
		if !ok {
			return nil, errors.NewNotFoundError("built-in template '%s' not found", s.Name)
		}
		return data, nil
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", s.Path)
	}
	return data, nil
}

// Load reads and parses the template
func (s Source) Load() (any, error) {
	data, err := s.Read()
	if err != nil {
		return nil, err
	}
	return Parse(data, FormatFromPath(s.Name))
}

// String returns the path for files and the name for built-ins
func (s Source) String() string {
	if s.Builtin {
		return s.Name
	}
	return s.Path
}

// Builtins lists the names of the templates shipped with PrefPicker, sorted
func Builtins() []string {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && isTemplateName(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// LookupBuiltin returns the contents of a built-in template by file name
func LookupBuiltin(name string) ([]byte, bool) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, false
	}
	data, err := builtinFS.ReadFile(path.Join("builtin", name))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Discover lists templates in the given directories, sorted by name.
// Missing directories are skipped.
func Discover(dirs []string) []Source {
	var found []Source
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !isTemplateName(entry.Name()) {
				continue
			}
			found = append(found, Source{Name: entry.Name(), Path: filepath.Join(dir, entry.Name())})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found
}

// Locate resolves a template argument. A built-in with that file name wins,
// then a template of that name in one of dirs, then an existing file path.
func Locate(name string, dirs []string) (Source, error) {
	base := filepath.Base(name)
	if _, ok := LookupBuiltin(base); ok && base == name {
		return Source{Name: base, Builtin: true}, nil
	}
	if base == name {
		for _, dir := range dirs {
			candidate := filepath.Join(dir, name)
			if isFile(candidate) {
				return Source{Name: name, Path: candidate}, nil
			}
		}
	}
	if isFile(name) {
		return Source{Name: base, Path: name}, nil
	}
	return Source{}, errors.NewNotFoundError("Cannot find input file '%s'", name)
}

func isTemplateName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml", ".json", ".jsonc":
		return true
	}
	return false
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
