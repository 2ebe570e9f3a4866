package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/mapty/internal/controller"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func sampleResult() *Result {
	r := NewResult()
	r.AddTrace(TraceEvent{Action: "start", Outcome: OutcomeOK, List: []string{"a", "b"}, Markers: 2})
	r.State = FinalState{
		Records:  []string{"a", "b"},
		Stored:   []string{"a", "b"},
		List:     []string{"b", "a"},
		Markers:  2,
		Selected: "a",
		Notices: []controller.Notice{
			{Level: controller.LevelSuccess, Message: "Workout added"},
			{Level: controller.LevelSuccess, Message: "Workout added"},
		},
	}
	return r
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{
		{Type: AssertListOrder, IDs: []string{"b", "a"}},
		{Type: AssertRecordCount, Count: intp(2)},
		{Type: AssertStoredCount, Count: intp(2)},
		{Type: AssertMarkerCount, Count: intp(2)},
		{Type: AssertNoticeContains, Message: "added"},
		{Type: AssertNoticeContains, Message: "Workout added", Count: intp(2)},
		{Type: AssertNoticeContains, Message: "position", Count: intp(0)},
		{Type: AssertEmptyState, Empty: boolp(false)},
		{Type: AssertSelected, ID: "a"},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		want      string
	}{
		{"wrong order", Assertion{Type: AssertListOrder, IDs: []string{"a", "b"}}, "Expected: [a b]"},
		{"wrong count", Assertion{Type: AssertRecordCount, Count: intp(3)}, "Actual: 2"},
		{"missing notice", Assertion{Type: AssertNoticeContains, Message: "deleted"}, `a notice containing "deleted"`},
		{"notice count", Assertion{Type: AssertNoticeContains, Message: "added", Count: intp(1)}, "2 notices"},
		{"empty state", Assertion{Type: AssertEmptyState, Empty: boolp(true)}, "empty state shown = true"},
		{"selection", Assertion{Type: AssertSelected, ID: "b"}, `selected "b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(sampleResult(), []Assertion{tt.assertion})
			if assert.Len(t, errs, 1) {
				assert.Contains(t, errs[0], tt.want)
				assert.Contains(t, errs[0], "assertions[0]")
			}
		})
	}
}

func TestAssertListOrder_EmptyMatchesNil(t *testing.T) {
	assert.NoError(t, assertListOrder(nil, []string{}, nil))
	assert.NoError(t, assertListOrder(nil, nil, []string{}))
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertMarkerCount,
		Expected: "1",
		Actual:   "0",
		Trace:    []TraceEvent{{Seq: 1, Action: "start", Outcome: OutcomeOK}},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: marker_count")
	assert.Contains(t, msg, "[1] start")
}
