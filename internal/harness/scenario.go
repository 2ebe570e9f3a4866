package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mapty/internal/workout"
)

// Scenario defines one scripted session.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Position is the location the sensor reports.
	// If nil, acquisition fails as if the user denied it.
	Position *Point `yaml:"position,omitempty"`

	// Stored workouts are written to storage before the session starts.
	Stored []StoredWorkout `yaml:"stored,omitempty"`

	// StoredRaw, if set, is written verbatim as the stored collection.
	// Used to simulate corrupted storage.
	StoredRaw string `yaml:"stored_raw,omitempty"`

	// Steps are the user events, replayed in order after startup.
	Steps []Step `yaml:"steps,omitempty"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Point is a latitude/longitude pair in scenario files.
type Point struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

// Coords converts p to workout coordinates.
func (p Point) Coords() workout.Coords {
	return workout.Coords{Lat: p.Lat, Lng: p.Lng}
}

// StoredWorkout is a workout seeded into storage.
type StoredWorkout struct {
	ID   string       `yaml:"id"`
	At   Point        `yaml:"at"`
	Form workout.Form `yaml:"form"`
}

// Step is one user event. Exactly one action field must be set.
type Step struct {
	Click  *Point        `yaml:"click,omitempty"`
	Kind   string        `yaml:"kind,omitempty"`
	Submit *workout.Form `yaml:"submit,omitempty"`
	Select string        `yaml:"select,omitempty"`
	Delete string        `yaml:"delete,omitempty"`
	Sort   bool          `yaml:"sort,omitempty"`
	Reset  bool          `yaml:"reset,omitempty"`

	// Expect is the expected outcome; empty means "ok".
	Expect string `yaml:"expect,omitempty"`
}

// Step outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeValidation     = "validation"
	OutcomeNoLocation     = "no_location"
	OutcomeMapNotReady    = "map_not_ready"
	OutcomeUnknownWorkout = "unknown_workout"
	OutcomeWriteFailed    = "write_failed"
	OutcomeError          = "error"
)

var validOutcomes = map[string]bool{
	OutcomeOK:             true,
	OutcomeValidation:     true,
	OutcomeNoLocation:     true,
	OutcomeMapNotReady:    true,
	OutcomeUnknownWorkout: true,
	OutcomeWriteFailed:    true,
	OutcomeError:          true,
}

// action returns the step's action name and target, and how many action
// fields are set.
func (s Step) action() (name, target string, n int) {
	if s.Click != nil {
		name, target, n = "click", s.Click.Coords().String(), n+1
	}
	if s.Kind != "" {
		name, target, n = "kind", s.Kind, n+1
	}
	if s.Submit != nil {
		name, target, n = "submit", s.Submit.Kind, n+1
	}
	if s.Select != "" {
		name, target, n = "select", s.Select, n+1
	}
	if s.Delete != "" {
		name, target, n = "delete", s.Delete, n+1
	}
	if s.Sort {
		name, target, n = "sort", "", n+1
	}
	if s.Reset {
		name, target, n = "reset", "", n+1
	}
	return name, target, n
}

// Assertion validates the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "list_order": Check rendered identities, in order
	// - "record_count": Check workouts held by the controller
	// - "stored_count": Check workouts read back from storage
	// - "marker_count": Check markers on the live map
	// - "notice_contains": Check a notice was shown
	// - "empty_state": Check the empty indicator
	// - "selected": Check the selected entry
	Type string `yaml:"type"`

	// IDs is the expected display order (used by list_order).
	IDs []string `yaml:"ids,omitempty"`

	// Count is the expected number (used by the *_count types and,
	// optionally, notice_contains).
	Count *int `yaml:"count,omitempty"`

	// Message is a substring of the expected notice (used by notice_contains).
	Message string `yaml:"message,omitempty"`

	// Empty is the expected indicator state (used by empty_state).
	Empty *bool `yaml:"empty,omitempty"`

	// ID is the expected selection (used by selected).
	ID string `yaml:"id,omitempty"`
}

// Assertion type constants.
const (
	AssertListOrder      = "list_order"
	AssertRecordCount    = "record_count"
	AssertStoredCount    = "stored_count"
	AssertMarkerCount    = "marker_count"
	AssertNoticeContains = "notice_contains"
	AssertEmptyState     = "empty_state"
	AssertSelected       = "selected"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadDir loads every *.yaml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(s.Name, `/\ `) {
		return fmt.Errorf("name %q must be usable as a file name", s.Name)
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.StoredRaw != "" && len(s.Stored) > 0 {
		return fmt.Errorf("stored and stored_raw are mutually exclusive")
	}

	seen := make(map[string]bool)
	for i, w := range s.Stored {
		if w.ID == "" {
			return fmt.Errorf("stored[%d]: id is required", i)
		}
		if seen[w.ID] {
			return fmt.Errorf("stored[%d]: duplicate id %q", i, w.ID)
		}
		seen[w.ID] = true
	}

	for i, step := range s.Steps {
		if _, _, n := step.action(); n != 1 {
			return fmt.Errorf("steps[%d]: exactly one action is required, got %d", i, n)
		}
		if step.Expect != "" && !validOutcomes[step.Expect] {
			return fmt.Errorf("steps[%d]: unknown expect %q", i, step.Expect)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertListOrder:
		if a.IDs == nil {
			return fmt.Errorf("assertions[%d]: ids is required for list_order (use [] for none)", index)
		}
	case AssertRecordCount, AssertStoredCount, AssertMarkerCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertNoticeContains:
		if a.Message == "" {
			return fmt.Errorf("assertions[%d]: message is required for notice_contains", index)
		}
	case AssertEmptyState:
		if a.Empty == nil {
			return fmt.Errorf("assertions[%d]: empty is required for empty_state", index)
		}
	case AssertSelected:
		// An empty id asserts that nothing is selected.
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
