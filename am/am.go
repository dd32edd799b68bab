package am

// Config represents the PrefPicker configuration
type Config struct {
	Generate  GenerateConfig  `mapstructure:"generate" toml:"generate" json:"generate" yaml:"generate"`
	Templates TemplatesConfig `mapstructure:"templates" toml:"templates" json:"templates" yaml:"templates"`
	Log       LogConfig       `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// GenerateConfig holds defaults for the generate command
type GenerateConfig struct {
	Variant     string `mapstructure:"variant" toml:"variant" json:"variant" yaml:"variant"`                   // variant rendered when --variant is absent (default: "default")
	Seed        *int64 `mapstructure:"seed" toml:"seed,omitempty" json:"seed,omitempty" yaml:"seed,omitempty"` // nil = random choice among options
	Fingerprint bool   `mapstructure:"fingerprint" toml:"fingerprint" json:"fingerprint" yaml:"fingerprint"`   // append a fingerprint comment to prefs.js
}

// TemplatesConfig configures where templates are looked up by name
type TemplatesConfig struct {
	// Directories searched after the built-in templates. Each entry may itself
	// be a path list (e.g. from PREFPICKER_TEMPLATES_PATHS).
	Paths []string `mapstructure:"paths" toml:"paths" json:"paths" yaml:"paths"`
}

// LogConfig configures logging
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`                     // structured JSON logs on stderr
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" json:"verbosity" yaml:"verbosity"` // baseline verbosity, added to -v flags
}

// File and directory permissions
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// DefaultVariant is rendered when neither flags nor config name one
const DefaultVariant = "default"
