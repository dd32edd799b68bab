package display

import (
	"encoding/json"
	"os"
)

// MarshalJSON marshals JSON with compact formatting when the caller is a
// script (PREFPICKER_CALLER=script), pretty formatting otherwise
func MarshalJSON(v interface{}) ([]byte, error) {
	if IsScriptCaller() {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

// IsScriptCaller reports whether output is consumed by automation
func IsScriptCaller() bool {
	return os.Getenv("PREFPICKER_CALLER") == "script"
}
