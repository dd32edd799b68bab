package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across PrefPicker.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Templates
	FieldTemplate = "template"
	FieldSource   = "source"
	FieldFormat   = "format"
	FieldBuiltin  = "builtin"

	// Model
	FieldVariant  = "variant"
	FieldPref     = "pref"
	FieldValue    = "value"
	FieldPrefs    = "prefs"
	FieldVariants = "variants"
	FieldCount    = "count"

	// Output
	FieldOutput      = "output"
	FieldSeed        = "seed"
	FieldFingerprint = "fingerprint"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError  = "error"
	FieldDetail = "detail"
	FieldHint   = "hint"

	// Config
	FieldConfigFile = "config_file"
)

// ComponentLogger returns a named logger for a specific component.
//
// Example:
//
//	log := logger.ComponentLogger("generate")
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	variantLogger := logger.ChildLogger(baseLogger, logger.FieldVariant, name)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
