package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
//
// These levels control WHAT categories of output are shown, not just log severity.
// See output.go for the full category system.
//
// Example usage:
//
//	if logger.ShouldOutput(verbosity, logger.OutputErrorDetail) {
//	    logger.Debugw("Decoder error", logger.FieldError, detail)
//	}
const (
	VerbosityUser  = 0 // No flags: progress, check findings and errors
	VerbosityDebug = 1 // -v: + config details, timing
	VerbosityTrace = 2 // -vv: + decoder errors, every resolved pref
)

// VerbosityToLevel maps verbosity flags (-v, -vv) to zap log levels
//
// Mapping:
//
//	0 (none)  -> InfoLevel
//	1 (-v)    -> DebugLevel
//	2+ (-vv)  -> DebugLevel (zap has nothing finer; categories decide the rest)
func VerbosityToLevel(verbosity int) zapcore.Level {
	if verbosity <= VerbosityUser {
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch {
	case verbosity < VerbosityUser:
		return "Unknown"
	case verbosity == VerbosityUser:
		return "User"
	case verbosity == VerbosityDebug:
		return "Debug (-v)"
	default:
		return "Trace (-vv)"
	}
}
