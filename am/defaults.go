package am

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Generate defaults
	v.SetDefault("generate.variant", DefaultVariant)
	v.SetDefault("generate.fingerprint", false)

	// Template lookup: built-ins only
	v.SetDefault("templates.paths", []string{})

	// Logging defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// BindEnvVars explicitly binds configuration keys to environment variables.
// AutomaticEnv alone does not make Unmarshal see keys without a default,
// such as generate.seed.
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("generate.variant", "PREFPICKER_GENERATE_VARIANT")
	v.BindEnv("generate.seed", "PREFPICKER_GENERATE_SEED")
	v.BindEnv("generate.fingerprint", "PREFPICKER_GENERATE_FINGERPRINT")
	v.BindEnv("templates.paths", "PREFPICKER_TEMPLATES_PATHS")
	v.BindEnv("log.json", "PREFPICKER_LOG_JSON")
	v.BindEnv("log.verbosity", "PREFPICKER_LOG_VERBOSITY")
}

// GetVariant returns the configured default variant
func (c *Config) GetVariant() string {
	if c.Generate.Variant == "" {
		return DefaultVariant
	}
	return c.Generate.Variant
}

// TemplatePaths returns the template directories with path lists expanded
func (c *Config) TemplatePaths() []string {
	var paths []string
	for _, entry := range c.Templates.Paths {
		for _, p := range filepath.SplitList(entry) {
			if p != "" {
				paths = append(paths, p)
			}
		}
	}
	return paths
}

// String returns a string representation of the config
func (c *Config) String() string {
	seed := "random"
	if c.Generate.Seed != nil {
		seed = fmt.Sprintf("%d", *c.Generate.Seed)
	}
	return fmt.Sprintf("Config{Generate: {Variant: %s, Seed: %s, Fingerprint: %t}, Templates: %v, Log: {JSON: %t, Verbosity: %d}}",
		c.GetVariant(), seed, c.Generate.Fingerprint, c.TemplatePaths(), c.Log.JSON, c.Log.Verbosity)
}
