package harness

import "github.com/roach88/mapty/internal/controller"

// TraceEvent records one step and what the user could see after it.
type TraceEvent struct {
	Seq     int64    `json:"seq"`
	Action  string   `json:"action"`
	Target  string   `json:"target,omitempty"`
	Outcome string   `json:"outcome"`
	List    []string `json:"list"`
	Markers int      `json:"markers"`
	Notices []string `json:"notices,omitempty"`
}

// FinalState is the observable state once every step has run.
type FinalState struct {
	Records  []string            `json:"records"`
	Stored   []string            `json:"stored"`
	List     []string            `json:"list"`
	Markers  int                 `json:"markers"`
	Empty    bool                `json:"empty"`
	Selected string              `json:"selected,omitempty"`
	Notices  []controller.Notice `json:"notices,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step outcome and assertion matched.
	Pass bool `json:"pass"`

	// Trace contains one event per step, starting with the session start.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the final observable state used by assertions.
	State FinalState `json:"state"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step to the trace.
func (r *Result) AddTrace(e TraceEvent) {
	e.Seq = int64(len(r.Trace) + 1)
	r.Trace = append(r.Trace, e)
}
