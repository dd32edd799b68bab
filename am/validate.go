package am

import "github.com/MozillaSecurity/prefpicker/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Variant existence depends on the template, so only the shape is checked here
	if c.Generate.Variant == "" {
		return errors.New("generate.variant cannot be empty (omit for \"default\")")
	}

	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	for i, p := range c.Templates.Paths {
		if p == "" {
			return errors.Newf("templates.paths[%d] cannot be empty", i)
		}
	}

	return nil
}
