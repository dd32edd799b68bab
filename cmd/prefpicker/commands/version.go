package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MozillaSecurity/prefpicker/display"
	"github.com/MozillaSecurity/prefpicker/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show prefpicker version information",
		Long:  `Display version, build time, commit hash, and platform information for the prefpicker binary.`,
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), info)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, info.String())
			fmt.Fprintf(w, "Platform: %s\n", info.Platform)
			fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
			return nil
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
	return cmd
}
