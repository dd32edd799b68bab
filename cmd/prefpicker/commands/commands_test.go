package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MozillaSecurity/prefpicker/am"
	"github.com/MozillaSecurity/prefpicker/version"
)

const sampleTemplate = `
variant:
  v1: default
pref:
  test.a:
    variants:
      default: [1, 2]
      v1: [1, 3]
  test.b:
    variants:
      default: ["x", "x"]
`

type result struct {
	code   int
	stdout string
	stderr string
}

// setupEnv isolates a test from config files and environment of the host
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Setenv("NO_COLOR", "1")
	t.Setenv("DEBUG", "")
	t.Setenv("PREFPICKER_CALLER", "")
	for _, key := range []string{"VARIANT", "SEED", "FINGERPRINT"} {
		t.Setenv("PREFPICKER_GENERATE_"+key, "")
	}
	t.Setenv("PREFPICKER_TEMPLATES_PATHS", "")
	t.Setenv("PREFPICKER_LOG_JSON", "")
	t.Setenv("PREFPICKER_LOG_VERBOSITY", "")
	t.Chdir(dir)

	am.Reset()
	t.Cleanup(am.Reset)
	pterm.DisableColor()
	return dir
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	am.Reset()
	var stdout, stderr bytes.Buffer
	code := Execute(args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), am.DefaultFilePermissions))
	return path
}

// body drops the header line, which carries the generation time
func body(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, rest, ok := strings.Cut(string(data), "\n")
	require.True(t, ok)
	return rest
}

func TestGenerate_Builtin(t *testing.T) {
	dir := setupEnv(t)
	out := filepath.Join(dir, "prefs.js")

	res := run(t, "browser-fuzzing.yml", out, "--seed", "1")
	require.Equal(t, ExitOK, res.code, res.stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "// Generated with PrefPicker ("))
	assert.Contains(t, string(data), "// Variant 'default'\n")
	assert.Contains(t, string(data), `user_pref("app.update.disabledForTesting", true);`)

	assert.Contains(t, res.stderr, "Loading 'browser-fuzzing.yml'...")
	assert.Contains(t, res.stderr, "Generating 'prefs.js' using variant 'default'...")
	assert.Contains(t, res.stderr, "Done.")
	assert.Empty(t, res.stdout)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".prefs-"), "temp file left behind: %s", e.Name())
	}
}

func TestGenerate_SeedIsReproducible(t *testing.T) {
	dir := setupEnv(t)
	first := filepath.Join(dir, "a.js")
	second := filepath.Join(dir, "b.js")

	require.Equal(t, ExitOK, run(t, "browser-fuzzing.yml", first, "--seed", "42", "--variant", "gpu").code)
	require.Equal(t, ExitOK, run(t, "browser-fuzzing.yml", second, "--seed", "42", "--variant", "gpu").code)

	assert.Equal(t, body(t, first), body(t, second))
	assert.True(t, strings.HasPrefix(body(t, first), "// Variant 'gpu'\n"))
}

func TestGenerate_Variant(t *testing.T) {
	dir := setupEnv(t)
	tmpl := writeTemplate(t, dir, "sample.yml", sampleTemplate)
	out := filepath.Join(dir, "prefs.js")

	res := run(t, tmpl, out, "--variant", "v1", "--seed", "3")
	require.Equal(t, ExitOK, res.code, res.stderr)

	got := body(t, out)
	assert.Contains(t, got, "// Variant 'v1'\n")
	assert.Contains(t, got, "// 'test.a' options [1, 3]\n")
	assert.Contains(t, got, "// 'test.a' defined by variant 'v1'\n")
	assert.Contains(t, got, `user_pref("test.b", "x");`)
	assert.Contains(t, res.stderr, "Loaded 2 prefs and 2 variants")
}

func TestGenerate_Check(t *testing.T) {
	dir := setupEnv(t)
	tmpl := writeTemplate(t, dir, "sample.yml", sampleTemplate)

	res := run(t, tmpl, filepath.Join(dir, "prefs.js"), "--check")
	require.Equal(t, ExitOK, res.code, res.stderr)

	assert.Contains(t, res.stderr, "Check: 'default' variant has 4 possible combination(s)")
	assert.Contains(t, res.stderr, "Check: 'v1' variant has 4 possible combination(s)")
	assert.Contains(t, res.stderr, "Check: 'test.a' variant 'v1' redefines value 1 (may be intentional)")
	assert.Contains(t, res.stderr, "Check: 'test.b' variant 'default' contains duplicate values")
}

func TestGenerate_Verbose(t *testing.T) {
	dir := setupEnv(t)
	tmpl := writeTemplate(t, dir, "sample.yml", sampleTemplate)
	out := filepath.Join(dir, "prefs.js")

	res := run(t, tmpl, out, "-v")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stderr, "DEBUG  generate  Wrote prefs  output="+out+"  variant=default  fingerprint=false  duration_ms=")

	res = run(t, tmpl, out)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.NotContains(t, res.stderr, "Wrote prefs")
}

func TestGenerate_ConfigFromEnv(t *testing.T) {
	dir := setupEnv(t)
	out := filepath.Join(dir, "prefs.js")
	t.Setenv("PREFPICKER_GENERATE_VARIANT", "a11y")
	t.Setenv("PREFPICKER_GENERATE_FINGERPRINT", "true")
	t.Setenv("PREFPICKER_GENERATE_SEED", "9")

	res := run(t, "browser-fuzzing.yml", out)
	require.Equal(t, ExitOK, res.code, res.stderr)

	got := body(t, out)
	assert.True(t, strings.HasPrefix(got, "// Variant 'a11y'\n"))
	assert.Contains(t, got, `user_pref("accessibility.force_disabled", -1);`)
	assert.Contains(t, got, "// Fingerprint '")

	// flags win over config
	res = run(t, "browser-fuzzing.yml", out, "--variant", "default", "--fingerprint=false")
	require.Equal(t, ExitOK, res.code, res.stderr)
	got = body(t, out)
	assert.True(t, strings.HasPrefix(got, "// Variant 'default'\n"))
	assert.NotContains(t, got, "// Fingerprint '")
}

func TestGenerate_ConfigFile(t *testing.T) {
	dir := setupEnv(t)
	writeTemplate(t, dir, "am.toml", "[generate]\nvariant = \"v1\"\n")
	tmpl := writeTemplate(t, dir, "sample.yml", sampleTemplate)
	out := filepath.Join(dir, "prefs.js")

	res := run(t, tmpl, out)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(body(t, out), "// Variant 'v1'\n"))
}

func TestGenerate_TemplateByName(t *testing.T) {
	dir := setupEnv(t)
	templates := filepath.Join(dir, "templates")
	require.NoError(t, os.Mkdir(templates, am.DefaultDirPermissions))
	writeTemplate(t, templates, "sample.yml", sampleTemplate)
	t.Setenv("PREFPICKER_TEMPLATES_PATHS", templates)

	out := filepath.Join(dir, "prefs.js")
	res := run(t, "sample.yml", out)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, body(t, out), `user_pref("test.b", "x");`)
}

func TestGenerate_Errors(t *testing.T) {
	dir := setupEnv(t)
	tmpl := writeTemplate(t, dir, "sample.yml", sampleTemplate)
	bad := writeTemplate(t, dir, "bad.yml", "variant: {}\n")
	broken := writeTemplate(t, dir, "broken.yml", "[1, 2")
	out := filepath.Join(dir, "prefs.js")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  []string
	}{
		{
			name:     "missing input",
			args:     []string{filepath.Join(dir, "missing.yml"), out},
			wantCode: ExitUsage,
			wantErr:  []string{"Cannot find input file", "Hint: run 'prefpicker templates'"},
		},
		{
			name:     "output is a directory",
			args:     []string{tmpl, dir},
			wantCode: ExitUsage,
			wantErr:  []string{"is a directory."},
		},
		{
			name:     "output directory missing",
			args:     []string{tmpl, filepath.Join(dir, "nope", "prefs.js")},
			wantCode: ExitUsage,
			wantErr:  []string{"directory does not exist."},
		},
		{
			name:     "wrong argument count",
			args:     []string{tmpl},
			wantCode: ExitUsage,
			wantErr:  []string{"accepts 2 arg(s), received 1"},
		},
		{
			name:     "unknown flag",
			args:     []string{tmpl, out, "--bogus"},
			wantCode: ExitUsage,
			wantErr:  []string{"unknown flag: --bogus"},
		},
		{
			name:     "unknown variant",
			args:     []string{tmpl, out, "--variant", "nope"},
			wantCode: ExitError,
			wantErr:  []string{"variant 'nope' does not exist", "Hint: available variants: default, v1"},
		},
		{
			name:     "structurally invalid template",
			args:     []string{bad, out},
			wantCode: ExitError,
			wantErr:  []string{"Failed to load '" + bad + "': pref dict is missing"},
		},
		{
			name:     "unparseable template",
			args:     []string{broken, out},
			wantCode: ExitError,
			wantErr:  []string{"invalid YAML"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args...)
			assert.Equal(t, tt.wantCode, res.code)
			for _, want := range tt.wantErr {
				assert.Contains(t, res.stderr, want)
			}
			assert.Contains(t, res.stderr, "Error: ")
			assert.NoFileExists(t, out)
		})
	}
}

func TestCheckCmd(t *testing.T) {
	dir := setupEnv(t)
	tmpl := writeTemplate(t, dir, "sample.yml", sampleTemplate)

	res := run(t, "check", tmpl)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "sample.yml: 2 prefs, 2 variants\n")
	assert.Contains(t, res.stdout, "'v1' variant has 4 possible combination(s)")
	assert.Contains(t, res.stdout, "'test.a' variant 'v1' redefines value 1 (may be intentional)")
	assert.Contains(t, res.stdout, "'test.b' variant 'default' contains duplicate values")
	assert.NotContains(t, res.stdout, "No overwrites or duplicates")
}

func TestCheckCmd_Clean(t *testing.T) {
	setupEnv(t)

	res := run(t, "check", "browser-fuzzing.yml")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "✓ No overwrites or duplicates")
}

func TestCheckCmd_JSON(t *testing.T) {
	dir := setupEnv(t)
	tmpl := writeTemplate(t, dir, "sample.yml", sampleTemplate)

	res := run(t, "check", tmpl, "--json")
	require.Equal(t, ExitOK, res.code, res.stderr)

	var report struct {
		Template     string   `json:"template"`
		Prefs        int      `json:"prefs"`
		Variants     []string `json:"variants"`
		Combinations []struct {
			Variant string `json:"variant"`
			Count   int    `json:"count"`
		} `json:"combinations"`
		Overwrites []struct {
			Pref    string  `json:"pref"`
			Variant string  `json:"variant"`
			Value   float64 `json:"value"`
		} `json:"overwrites"`
		Duplicates []map[string]string `json:"duplicates"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))

	assert.Equal(t, "sample.yml", report.Template)
	assert.Equal(t, 2, report.Prefs)
	assert.Equal(t, []string{"default", "v1"}, report.Variants)
	require.Len(t, report.Combinations, 2)
	assert.Equal(t, 4, report.Combinations[1].Count)
	require.Len(t, report.Overwrites, 1)
	assert.Equal(t, 1.0, report.Overwrites[0].Value)
	assert.Equal(t, []map[string]string{{"pref": "test.b", "variant": "default"}}, report.Duplicates)
}

func TestCheckCmd_LoadFailure(t *testing.T) {
	dir := setupEnv(t)
	bad := writeTemplate(t, dir, "bad.yml", "variant: {}\npref: {a: {variants: {v9: [1]}}}\n")

	res := run(t, "check", bad)
	assert.Equal(t, ExitError, res.code)
	assert.Contains(t, res.stderr, "'a' is missing 'default' variant")
}

func TestTemplatesCmd(t *testing.T) {
	dir := setupEnv(t)
	templates := filepath.Join(dir, "templates")
	require.NoError(t, os.Mkdir(templates, am.DefaultDirPermissions))
	writeTemplate(t, templates, "custom.jsonc", `{"variant": {}, "pref": {}}`)
	writeTemplate(t, templates, "notes.txt", "ignored")
	t.Setenv("PREFPICKER_TEMPLATES_PATHS", templates)

	res := run(t, "templates")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "browser-fuzzing.yml  (built-in)\n")
	assert.Contains(t, res.stdout, "custom.jsonc  "+filepath.Join(templates, "custom.jsonc")+"\n")
	assert.NotContains(t, res.stdout, "notes.txt")

	res = run(t, "templates", "--json")
	require.Equal(t, ExitOK, res.code, res.stderr)
	var infos []templateInfo
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &infos))
	assert.Contains(t, infos, templateInfo{Name: "browser-fuzzing.yml", Builtin: true})
	assert.Contains(t, infos, templateInfo{Name: "custom.jsonc", Path: filepath.Join(templates, "custom.jsonc")})
}

func TestAmCmd(t *testing.T) {
	setupEnv(t)
	t.Setenv("PREFPICKER_GENERATE_SEED", "5")

	res := run(t, "am", "get", "generate.variant")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "default\n", res.stdout)

	res = run(t, "am", "get", "no.such.key")
	assert.Equal(t, ExitError, res.code)
	assert.Contains(t, res.stderr, `configuration key "no.such.key" not found`)

	res = run(t, "am", "show", "--format", "json")
	require.Equal(t, ExitOK, res.code, res.stderr)
	var cfg am.Config
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &cfg))
	assert.Equal(t, "default", cfg.Generate.Variant)
	require.NotNil(t, cfg.Generate.Seed)
	assert.EqualValues(t, 5, *cfg.Generate.Seed)

	res = run(t, "am", "show")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "# prefpicker configuration\n")
	assert.Contains(t, res.stdout, "[generate]")

	res = run(t, "am", "show", "--format", "yaml")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "variant: default")

	res = run(t, "am", "show", "--format", "xml")
	assert.Equal(t, ExitUsage, res.code)
	assert.Contains(t, res.stderr, "unsupported format: xml")

	res = run(t, "am", "show", "--sources")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "generate.seed = 5  (environment PREFPICKER_GENERATE_SEED)")
	assert.Contains(t, res.stdout, "generate.variant = default  (default)")

	res = run(t, "am", "validate")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "✓ Configuration is valid")
}

func TestAmCmd_InvalidConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("PREFPICKER_LOG_VERBOSITY", "-1")

	res := run(t, "am", "validate")
	assert.Equal(t, ExitError, res.code)
	assert.Contains(t, res.stderr, "configuration validation failed: log.verbosity must be >= 0, got -1")
}

func TestVersionCmd(t *testing.T) {
	setupEnv(t)

	res := run(t, "version")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "prefpicker ")
	assert.Contains(t, res.stdout, "Platform: ")

	res = run(t, "version", "--json")
	require.Equal(t, ExitOK, res.code, res.stderr)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
	assert.Contains(t, info, "commit_hash")
	assert.Contains(t, info, "go_version")
}

func TestVersionFlag(t *testing.T) {
	setupEnv(t)

	for _, flag := range []string{"--version", "-V"} {
		res := run(t, flag)
		require.Equal(t, ExitOK, res.code, res.stderr)
		assert.Equal(t, "prefpicker "+version.Get().Release()+"\n", res.stdout)
	}
}
