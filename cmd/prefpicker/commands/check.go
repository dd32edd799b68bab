package commands

import (
	"fmt"
	"io"
	"math/big"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/MozillaSecurity/prefpicker/display"
	"github.com/MozillaSecurity/prefpicker/picker"
)

// checkReport is the --json shape of the check command
type checkReport struct {
	Template     string              `json:"template"`
	Prefs        int                 `json:"prefs"`
	Variants     []string            `json:"variants"`
	Combinations []combinationReport `json:"combinations"`
	Overwrites   []overwriteReport   `json:"overwrites"`
	Duplicates   []duplicateReport   `json:"duplicates"`
}

type combinationReport struct {
	Variant string   `json:"variant"`
	Count   *big.Int `json:"count"`
}

type overwriteReport struct {
	Pref    string `json:"pref"`
	Variant string `json:"variant"`
	Value   any    `json:"value"`
}

type duplicateReport struct {
	Pref    string `json:"pref"`
	Variant string `json:"variant"`
}

func newCheckCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <input>",
		Short: "Verify a template and report advisory findings",
		Long: `Verify a template and report advisory findings without generating output.

Findings:
  combinations  variants with more than one possible prefs.js
  overwrites    variant values that repeat a value the parent already offers
  duplicates    value lists that contain the same value twice

Exits non-zero only when the template fails to load.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, src, err := loadPicker(state, args[0])
			if err != nil {
				return err
			}
			report := buildCheckReport(p, src.Name)
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), report)
			}
			printCheckReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Output findings as JSON")
	return cmd
}

func buildCheckReport(p *picker.Picker, name string) checkReport {
	report := checkReport{
		Template:     name,
		Prefs:        p.PrefCount(),
		Variants:     p.Variants(),
		Combinations: []combinationReport{},
		Overwrites:   []overwriteReport{},
		Duplicates:   []duplicateReport{},
	}
	for c := range p.Combinations() {
		report.Combinations = append(report.Combinations, combinationReport{Variant: c.Variant, Count: c.Count})
	}
	for o := range p.Overwrites() {
		report.Overwrites = append(report.Overwrites, overwriteReport{Pref: o.Pref, Variant: o.Variant, Value: o.Value.Raw()})
	}
	for d := range p.Duplicates() {
		report.Duplicates = append(report.Duplicates, duplicateReport{Pref: d.Pref, Variant: d.Variant})
	}
	return report
}

func printCheckReport(w io.Writer, r checkReport) {
	fmt.Fprintf(w, "%s: %d prefs, %d variants\n", pterm.Bold.Sprint(r.Template), r.Prefs, len(r.Variants))

	for _, c := range r.Combinations {
		fmt.Fprintf(w, "  %s  '%s' variant has %s possible combination(s)\n", pterm.Cyan("combinations"), c.Variant, c.Count)
	}
	for _, o := range r.Overwrites {
		fmt.Fprintf(w, "  %s  '%s' variant '%s' redefines value %v (may be intentional)\n", pterm.Yellow("overwrite"), o.Pref, o.Variant, formatRaw(o.Value))
	}
	for _, d := range r.Duplicates {
		fmt.Fprintf(w, "  %s  '%s' variant '%s' contains duplicate values\n", pterm.Red("duplicate"), d.Pref, d.Variant)
	}

	if len(r.Overwrites) == 0 && len(r.Duplicates) == 0 {
		fmt.Fprintln(w, pterm.Green("✓ No overwrites or duplicates"))
	}
}

// formatRaw renders a raw pref value the way templates spell it
func formatRaw(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}
