package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/MozillaSecurity/prefpicker/display"
	"github.com/MozillaSecurity/prefpicker/template"
)

type templateInfo struct {
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	Builtin bool   `json:"builtin"`
}

func newTemplatesCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List built-in and configured templates",
		Long: `List the templates that can be passed by name.

Built-in templates ship with prefpicker. Further templates are discovered in
the directories listed by templates.paths (PREFPICKER_TEMPLATES_PATHS).`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []templateInfo
			for _, name := range template.Builtins() {
				infos = append(infos, templateInfo{Name: name, Builtin: true})
			}
			for _, src := range template.Discover(state.cfg.TemplatePaths()) {
				infos = append(infos, templateInfo{Name: src.Name, Path: src.Path})
			}

			if display.ShouldOutputJSON(cmd) {
				if infos == nil {
					infos = []templateInfo{}
				}
				return display.OutputJSON(cmd.OutOrStdout(), infos)
			}

			w := cmd.OutOrStdout()
			for _, info := range infos {
				if info.Builtin {
					fmt.Fprintf(w, "%s  %s\n", info.Name, pterm.Gray("(built-in)"))
				} else {
					fmt.Fprintf(w, "%s  %s\n", info.Name, pterm.Gray(info.Path))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Output as JSON")
	return cmd
}
