package picker

import (
	"bufio"
	"encoding/hex"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/MozillaSecurity/prefpicker/errors"
	"github.com/MozillaSecurity/prefpicker/pref"
	"github.com/MozillaSecurity/prefpicker/variant"
	"github.com/MozillaSecurity/prefpicker/version"
)

// Chooser picks an index in [0, n). It is only called when n > 1.
type Chooser func(n int) int

// RenderOption configures a single Render call
type RenderOption func(*renderConfig)

type renderConfig struct {
	choose      Chooser
	now         func() time.Time
	generator   string
	fingerprint bool
}

// WithChooser replaces the random choice among multiple options
func WithChooser(c Chooser) RenderOption {
	return func(cfg *renderConfig) {
		if c != nil {
			cfg.choose = c
		}
	}
}

// WithSeed makes the choice among multiple options reproducible
func WithSeed(seed uint64) RenderOption {
	return func(cfg *renderConfig) {
		r := rand.New(rand.NewPCG(seed, seed))
		cfg.choose = r.IntN
	}
}

// WithClock sets the time source for the header timestamp
func WithClock(now func() time.Time) RenderOption {
	return func(cfg *renderConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

// WithGenerator sets the version shown in the header
func WithGenerator(v string) RenderOption {
	return func(cfg *renderConfig) {
		cfg.generator = v
	}
}

// WithFingerprint appends a digest of the emitted prefs, so two files with
// the same prefs can be recognised regardless of their header timestamp
func WithFingerprint(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.fingerprint = enabled
	}
}

func newRenderConfig(opts []RenderOption) *renderConfig {
	cfg := &renderConfig{
		choose:    rand.IntN,
		now:       time.Now,
		generator: version.Get().Release(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// timestampLayout matches "%Y-%m-%d %H:%M:%S UTC"
const timestampLayout = "2006-01-02 15:04:05"

// Render writes a prefs.js document for the target variant to w.
//
// Prefs are written in name order. Each pref takes its values from the
// nearest variant in the target's ancestry that defines it, and one of them
// is chosen. A null choice omits the pref. An unknown target fails before
// anything is written.
func (p *Picker) Render(w io.Writer, target string, opts ...RenderOption) error {
	if !p.variants.Has(target) {
		return errors.NewUnknownVariantError(target)
	}
	cfg := newRenderConfig(opts)

	out := bufio.NewWriter(w)
	var digest *blake3.Hasher
	if cfg.fingerprint {
		digest = blake3.New()
	}

	out.WriteString("// Generated with PrefPicker (" + cfg.generator + ") @ ")
	out.WriteString(cfg.now().UTC().Format(timestampLayout) + " UTC\n")
	out.WriteString("// Variant '" + target + "'\n")

	for _, name := range p.prefs.Names() {
		entry, _ := p.prefs.Entry(name)
		resolved, options, ok := p.resolve(entry, target)
		if !ok {
			out.Flush()
			return errors.AssertionFailedf("'%s' has no value for variant '%s'", name, target)
		}

		value := options[0]
		if len(options) > 1 {
			value = options[cfg.choose(len(options))]
		}

		if value.IsNull() {
			if len(options) > 1 {
				out.WriteString("// '" + name + "' skipped, options " + jsonList(options) + "\n")
			}
			continue
		}
		if len(options) > 1 {
			out.WriteString("// '" + name + "' options " + jsonList(options) + "\n")
		}

		literal, ok := value.Format()
		if !ok {
			out.WriteString("// Failed to sanitize " + value.String() + " (" + name + ")\n")
			if err := out.Flush(); err != nil {
				return errors.Wrap(err, "writing prefs")
			}
			return errors.NewDatatypeError("Unsupported datatype '%s' (%s)", value.TypeName(), name)
		}

		if resolved != variant.Default {
			out.WriteString("// '" + name + "' defined by variant '" + resolved + "'\n")
		}
		out.WriteString("user_pref(\"" + name + "\", " + literal + ");\n")

		if digest != nil {
			io.WriteString(digest, name+"\x00"+literal+"\n")
		}
	}

	if digest != nil {
		out.WriteString("// Fingerprint '" + hex.EncodeToString(digest.Sum(nil)) + "'\n")
	}
	if err := out.Flush(); err != nil {
		return errors.Wrap(err, "writing prefs")
	}
	return nil
}

// WriteFile renders the target variant into the file at path, creating or
// truncating it. The file is closed on every return path.
func (p *Picker) WriteFile(path, target string, opts ...RenderOption) (err error) {
	if !p.variants.Has(target) {
		return errors.NewUnknownVariantError(target)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "closing %s", path)
		}
	}()
	return p.Render(f, target, opts...)
}

// jsonList renders options the way they appear in option comments
func jsonList(values []pref.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.JSON()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
