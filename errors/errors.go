// Package errors provides error handling for PrefPicker.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints for the CLI user
//   - Marking errors with a sentinel without changing their message
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Classify template problems
//	return errors.NewStructuralError("'%s' is missing 'default' variant", name)
//
//	// Check errors
//	if errors.Is(err, errors.ErrStructure) {
//	    // template is malformed
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the template pipeline.
// Errors created by the helpers below are marked with these, so errors.Is
// works while Error() still returns only the human-readable reason.
var (
	// ErrParse indicates the template bytes are not valid YAML/JSONC
	ErrParse = New("parse error")

	// ErrStructure indicates the parsed template violates the schema
	ErrStructure = New("structural error")

	// ErrUnsupportedDatatype indicates a value that cannot be written to prefs.js
	ErrUnsupportedDatatype = New("unsupported datatype")

	// ErrUnknownVariant indicates a variant name that the template does not declare
	ErrUnknownVariant = New("unknown variant")

	// ErrNotFound indicates a template file or built-in could not be located
	ErrNotFound = New("not found")
)

// NewParseError creates a parse error for the named document format.
// The message is always "invalid <format>"; the underlying decoder error is
// kept as a detail so it can be logged at debug verbosity.
func NewParseError(format string, cause error) error {
	err := Mark(Newf("invalid %s", format), ErrParse)
	if cause != nil {
		err = WithDetail(err, cause.Error())
	}
	return err
}

// NewStructuralError creates a structural error with a formatted reason
func NewStructuralError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrStructure)
}

// NewDatatypeError creates an unsupported-datatype error with a formatted reason
func NewDatatypeError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrUnsupportedDatatype)
}

// NewUnknownVariantError creates an unknown-variant error for name
func NewUnknownVariantError(name string) error {
	return Mark(Newf("variant '%s' does not exist", name), ErrUnknownVariant)
}

// IsStructuralError checks if an error is or wraps ErrStructure
func IsStructuralError(err error) bool {
	return err != nil && Is(err, ErrStructure)
}

// IsParseError checks if an error is or wraps ErrParse
func IsParseError(err error) bool {
	return err != nil && Is(err, ErrParse)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrNotFound)
}
