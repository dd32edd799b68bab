package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Load/generate progress, check findings, errors
//	1 (-v)      - + Effective config, template source, timing
//	2 (-vv)     - + Underlying decoder errors, one line per resolved pref

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults  OutputCategory = iota // Command output
	OutputErrors                         // Errors with hints
	OutputProgress                       // "Loading...", "Generating...", "Done."
	OutputChecks                         // --check findings

	// Level 1 (-v)
	OutputConfig // Config values loaded/applied
	OutputSource // Which file or built-in a template came from
	OutputTiming // Operation timing

	// Level 2 (-vv)
	OutputErrorDetail // Decoder errors behind "invalid YAML"
	OutputDataDump    // Full data structure contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:  VerbosityUser,
	OutputErrors:   VerbosityUser,
	OutputProgress: VerbosityUser,
	OutputChecks:   VerbosityUser,

	OutputConfig: VerbosityDebug,
	OutputSource: VerbosityDebug,
	OutputTiming: VerbosityDebug,

	OutputErrorDetail: VerbosityTrace,
	OutputDataDump:    VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// categoryNames provides human-readable names for output categories
var categoryNames = map[OutputCategory]string{
	OutputResults:     "results",
	OutputErrors:      "errors",
	OutputProgress:    "progress",
	OutputChecks:      "checks",
	OutputConfig:      "config",
	OutputSource:      "source",
	OutputTiming:      "timing",
	OutputErrorDetail: "error-detail",
	OutputDataDump:    "data-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
