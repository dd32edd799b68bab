package display

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MozillaSecurity/prefpicker/errors"
)

// ShouldOutputJSON determines if a command should output JSON based on its
// --json flag, falling back to the caller environment
func ShouldOutputJSON(cmd *cobra.Command) bool {
	// Handle nil command gracefully (e.g., when called without command context)
	if cmd == nil {
		return IsScriptCaller()
	}

	// Check if --json flag was explicitly set
	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	return IsScriptCaller()
}

// OutputJSON marshals v with MarshalJSON and writes it to w
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
