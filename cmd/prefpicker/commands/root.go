// Package commands implements the prefpicker command line.
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/MozillaSecurity/prefpicker/am"
	"github.com/MozillaSecurity/prefpicker/errors"
	"github.com/MozillaSecurity/prefpicker/logger"
	"github.com/MozillaSecurity/prefpicker/picker"
	"github.com/MozillaSecurity/prefpicker/template"
	"github.com/MozillaSecurity/prefpicker/version"
)

// errUsage marks errors caused by how the command was invoked
var errUsage = errors.New("usage error")

func usageError(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), errUsage)
}

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// rootState is shared by every command of one invocation
type rootState struct {
	verbose int
	logJSON bool

	cfg       *am.Config
	verbosity int
}

type generateOptions struct {
	variant     string
	check       bool
	seed        int64
	fingerprint bool
}

// NewRootCmd builds the prefpicker command tree
func NewRootCmd() *cobra.Command {
	state := &rootState{}
	opts := &generateOptions{}

	rootCmd := &cobra.Command{
		Use:   "prefpicker <input> <output>",
		Short: "Manage & generate prefs.js files",
		Long: `prefpicker - Manage & generate prefs.js files

Renders one variant of a pref template into a prefs.js file.

<input> is the path to a template (YAML or JSONC) file, the name of a
template in one of the configured template directories, or the name of a
built-in template. Built-in templates: ` + strings.Join(template.Builtins(), ", ") + `

<output> is the path of the prefs.js file to create.

Examples:
  prefpicker browser-fuzzing.yml prefs.js                  # default variant
  prefpicker browser-fuzzing.yml prefs.js --variant gpu    # gpu variant
  prefpicker my-prefs.yml prefs.js --check --seed 1        # report findings, reproducible choice
  prefpicker check my-prefs.yml                            # findings only
  prefpicker am show                                       # effective configuration`,
		Args:          exactArgs(2),
		Version:       version.Get().Release(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, state, opts, args[0], args[1])
		},
	}

	rootCmd.PersistentFlags().CountVarP(&state.verbose, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().BoolVar(&state.logJSON, "log-json", false, "Write logs as JSON")

	rootCmd.Flags().StringVar(&opts.variant, "variant", "", "Variant to use (default from config, else \"default\")")
	rootCmd.Flags().BoolVar(&opts.check, "check", false, "Display output of sanity checks")
	rootCmd.Flags().Int64Var(&opts.seed, "seed", 0, "Seed for choosing among multiple values (default random)")
	rootCmd.Flags().BoolVar(&opts.fingerprint, "fingerprint", false, "Append a fingerprint of the chosen values")
	rootCmd.Flags().BoolP("version", "V", false, "Show version number and exit")
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Mark(err, errUsage)
	})

	rootCmd.AddCommand(newCheckCmd(state))
	rootCmd.AddCommand(newTemplatesCmd(state))
	rootCmd.AddCommand(newAmCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the command line and returns the process exit code
func Execute(args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	logger.Cleanup()
	if err == nil {
		return ExitOK
	}

	reportError(stderr, err)
	if errors.Is(err, errUsage) {
		return ExitUsage
	}
	return ExitError
}

// reportError prints err with any hints attached along the way
func reportError(w io.Writer, err error) {
	fmt.Fprintln(w, pterm.Red("Error: ")+err.Error())
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintln(w, pterm.Gray("Hint: "+hint))
	}
}

// setup loads configuration and initializes logging before any command runs
func (s *rootState) setup(cmd *cobra.Command) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.WithHint(err, "check the am.toml files and PREFPICKER_* environment variables")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	s.cfg = cfg
	s.verbosity = s.verbose + cfg.Log.Verbosity

	ws := zapcore.AddSync(cmd.ErrOrStderr())
	if err := logger.InitializeWithWriter(ws, s.logJSON || cfg.Log.JSON, s.verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	if logger.ShouldOutput(s.verbosity, logger.OutputConfig) {
		logger.Debugw("Configuration loaded", "config", cfg.String())
	}
	return nil
}

// exactArgs is cobra.ExactArgs with the error marked as a usage error
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return errors.WithHint(errors.Mark(err, errUsage), "see '"+cmd.CommandPath()+" --help'")
		}
		return nil
	}
}

func runGenerate(cmd *cobra.Command, state *rootState, opts *generateOptions, input, output string) error {
	if err := checkOutputPath(output); err != nil {
		return err
	}

	p, _, err := loadPicker(state, input)
	if err != nil {
		return err
	}

	if opts.check {
		logFindings(p)
	}

	target := opts.variant
	if !cmd.Flags().Changed("variant") {
		target = state.cfg.GetVariant()
	}
	if !p.HasVariant(target) {
		return errors.WithHintf(errors.NewUnknownVariantError(target),
			"available variants: %s", strings.Join(p.Variants(), ", "))
	}

	renderOpts := []picker.RenderOption{}
	switch {
	case cmd.Flags().Changed("seed"):
		renderOpts = append(renderOpts, picker.WithSeed(uint64(opts.seed)))
	case state.cfg.Generate.Seed != nil:
		renderOpts = append(renderOpts, picker.WithSeed(uint64(*state.cfg.Generate.Seed)))
	}
	fingerprint := state.cfg.Generate.Fingerprint
	if cmd.Flags().Changed("fingerprint") {
		fingerprint = opts.fingerprint
	}
	renderOpts = append(renderOpts, picker.WithFingerprint(fingerprint))

	logger.Infof("Generating '%s' using variant '%s'...", filepath.Base(output), target)
	start := time.Now()
	if err := writePrefs(p, output, target, renderOpts...); err != nil {
		return errors.Wrapf(err, "failed to generate '%s'", output)
	}
	if logger.ShouldOutput(state.verbosity, logger.OutputTiming) {
		logger.ComponentLogger("generate").Debugw("Wrote prefs",
			logger.FieldOutput, output,
			logger.FieldVariant, target,
			logger.FieldFingerprint, fingerprint,
			logger.FieldDurationMS, time.Since(start).Milliseconds())
	}
	logger.Info("Done.")
	return nil
}

// checkOutputPath rejects outputs that can never be written
func checkOutputPath(output string) error {
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return usageError("Output '%s' is a directory.", output)
	}
	parent := filepath.Dir(output)
	if info, err := os.Stat(parent); err != nil || !info.IsDir() {
		return usageError("Output '%s' directory does not exist.", parent)
	}
	return nil
}

// writePrefs renders into a temporary file next to dest and renames it into
// place, so a failed render never leaves a partial prefs.js behind
func writePrefs(p *picker.Picker, dest, target string, opts ...picker.RenderOption) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(dest), ".prefs-*.js")
	if err != nil {
		return errors.Wrap(err, "creating temp prefs file")
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := p.Render(tmpFile, target, opts...); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return errors.Wrap(err, "closing temp prefs file")
	}
	if err := os.Chmod(tmpPath, am.DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "setting prefs file permissions")
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return errors.Wrapf(err, "renaming prefs file to %s", dest)
	}

	success = true
	return nil
}

// loadPicker locates, loads and verifies a template
func loadPicker(state *rootState, input string) (*picker.Picker, template.Source, error) {
	src, err := template.Locate(input, state.cfg.TemplatePaths())
	if err != nil {
		return nil, src, errors.Mark(errors.WithHint(err, "run 'prefpicker templates' to list available templates"), errUsage)
	}

	logger.Infof("Loading '%s'...", src.Name)
	if logger.ShouldOutput(state.verbosity, logger.OutputSource) {
		logger.Debugw("Template located", logger.FieldSource, src.String(), logger.FieldBuiltin, src.Builtin)
	}

	p, err := picker.LoadSource(src)
	if err != nil {
		if logger.ShouldOutput(state.verbosity, logger.OutputErrorDetail) {
			for _, detail := range errors.GetAllDetails(err) {
				logger.Debugw("Load failure detail", logger.FieldDetail, detail)
			}
		}
		return nil, src, errors.Wrapf(err, "Failed to load '%s'", src)
	}

	logger.Infof("Loaded %d prefs and %d variants", p.PrefCount(), p.VariantCount())
	if logger.ShouldOutput(state.verbosity, logger.OutputDataDump) {
		logger.Debugw("Variants", logger.FieldVariants, p.Variants())
	}
	return p, src, nil
}

// logFindings writes the advisory checks to the log
func logFindings(p *picker.Picker) {
	for c := range p.Combinations() {
		logger.Infof("Check: '%s' variant has %s possible combination(s)", c.Variant, c.Count)
	}
	for o := range p.Overwrites() {
		logger.Infof("Check: '%s' variant '%s' redefines value %s (may be intentional)", o.Pref, o.Variant, o.Value)
	}
	for d := range p.Duplicates() {
		logger.Infof("Check: '%s' variant '%s' contains duplicate values", d.Pref, d.Variant)
	}
}
