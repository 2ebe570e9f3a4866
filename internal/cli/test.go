package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mapty/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// Golden file states reported per scenario.
const (
	GoldenNone     = "none"
	GoldenMatch    = "match"
	GoldenMismatch = "mismatch"
	GoldenUpdated  = "updated"
)

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name    string   `json:"name"`
	Pass    bool     `json:"pass"`
	Steps   int      `json:"steps"`
	Records int      `json:"records"`
	Notices int      `json:"notices"`
	Golden  string   `json:"golden"`
	Errors  []string `json:"errors,omitempty"`

	// Trace lists every step with its outcome; set only for failures.
	Trace []string `json:"trace,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenario harness",
		Long: `Run scenario tests using the harness framework.

Each scenario drives a fresh in-memory session through its steps,
checking step outcomes and final state assertions. When a golden file
exists under <scenarios-dir>/golden, the trace must also match it.
A failing scenario is printed with the outcome of every step.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  mapty test ./testdata/scenarios
  mapty test ./testdata/scenarios --filter "create_*"
  mapty test ./testdata/scenarios --update
  mapty test ./testdata/scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(cmd *cobra.Command, opts *TestOptions, scenariosDir string) error {
	if info, err := os.Stat(scenariosDir); err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}
	if _, err := filepath.Match(opts.Filter, ""); err != nil {
		return WrapExitError(ExitCommandError, "invalid filter pattern", err)
	}

	files, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return fmt.Errorf("failed to find scenarios: %w", err)
	}

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(files))}
	for _, file := range files {
		sr := runScenario(file, opts.Update)
		result.Scenarios = append(result.Scenarios, sr)
		if opts.Format != "json" {
			printScenario(cmd.OutOrStdout(), sr)
		}
	}
	result.tally()

	if opts.Format == "json" {
		return outputTestJSON(cmd, result)
	}
	return outputTestText(cmd, result)
}

func (r *TestResult) tally() {
	r.Total = len(r.Scenarios)
	r.Passed, r.Failed = 0, 0
	for _, s := range r.Scenarios {
		if s.Pass {
			r.Passed++
		} else {
			r.Failed++
		}
	}
}

// findScenarioFiles returns the YAML files under dir whose base name
// (without extension) matches filter. Golden directories are skipped.
func findScenarioFiles(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}
		ok, err := isScenarioFile(path, filter)
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func isScenarioFile(path, filter string) (bool, error) {
	ext := filepath.Ext(path)
	if ext != ".yaml" && ext != ".yml" {
		return false, nil
	}
	if filter == "" {
		return true, nil
	}
	matched, err := filepath.Match(filter, strings.TrimSuffix(filepath.Base(path), ext))
	if err != nil {
		return false, fmt.Errorf("invalid filter pattern: %w", err)
	}
	return matched, nil
}

// runScenario loads and runs one scenario file, then checks or rewrites
// its golden trace.
func runScenario(file string, update bool) ScenarioResult {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	failed := func(format string, args ...any) ScenarioResult {
		return ScenarioResult{Name: name, Golden: GoldenNone, Errors: []string{fmt.Sprintf(format, args...)}}
	}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return failed("load error: %v", err)
	}
	name = scenario.Name

	result, err := harness.Run(scenario)
	if err != nil {
		return failed("execution error: %v", err)
	}

	sr := ScenarioResult{
		Name:    scenario.Name,
		Pass:    result.Pass,
		Steps:   len(scenario.Steps),
		Records: len(result.State.Records),
		Notices: len(result.State.Notices),
		Errors:  result.Errors,
	}

	trace, err := harness.MarshalTrace(scenario.Name, result.Trace)
	if err != nil {
		return failed("marshal trace: %v", err)
	}
	if sr.Golden, err = checkGolden(goldenFilePath(file), trace, update); err != nil {
		return failed("golden file: %v", err)
	}
	if sr.Golden == GoldenMismatch {
		sr.Pass = false
		sr.Errors = append(sr.Errors, "Golden file mismatch (run with --update to regenerate)")
	}

	if !sr.Pass {
		sr.Trace = traceLines(result.Trace)
	}
	return sr
}

// checkGolden compares trace with the golden file at path, or writes it
// when update is set.
func checkGolden(path string, trace []byte, update bool) (string, error) {
	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, trace, 0644); err != nil {
			return "", err
		}
		return GoldenUpdated, nil
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return GoldenNone, nil
	}
	if err != nil {
		return "", err
	}
	if !bytes.Equal(want, trace) {
		return GoldenMismatch, nil
	}
	return GoldenMatch, nil
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

// traceLines renders each step as "#2 submit cycling -> validation [w-1] 1 marker".
func traceLines(trace []harness.TraceEvent) []string {
	lines := make([]string, 0, len(trace))
	for _, ev := range trace {
		action := ev.Action
		if ev.Target != "" {
			action += " " + ev.Target
		}
		lines = append(lines, fmt.Sprintf("#%d %s -> %s [%s] %d marker(s)",
			ev.Seq, action, ev.Outcome, strings.Join(ev.List, " "), ev.Markers))
	}
	return lines
}

func printScenario(w io.Writer, sr ScenarioResult) {
	if sr.Pass {
		suffix := ""
		if sr.Golden == GoldenUpdated {
			suffix = ", golden updated"
		}
		fmt.Fprintf(w, "✓ %s (%d steps, %d workouts%s)\n", sr.Name, sr.Steps, sr.Records, suffix)
		return
	}

	fmt.Fprintf(w, "✗ %s\n", sr.Name)
	for _, e := range sr.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
	for _, line := range sr.Trace {
		fmt.Fprintf(w, "    %s\n", line)
	}
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_TEST_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}
	return failedScenarios(result)
}

// outputTestText outputs the test summary as text.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if err := failedScenarios(result); err != nil {
		return err
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}

func failedScenarios(result TestResult) error {
	if result.Failed == 0 {
		return nil
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
}
