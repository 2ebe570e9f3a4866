package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/mapty/internal/controller"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s -> %s list=%v markers=%d\n",
				event.Seq, event.Action, event.Target, event.Outcome, event.List, event.Markers)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against the result.
// Returns one message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	state := result.State

	switch a.Type {
	case AssertListOrder:
		return assertListOrder(result.Trace, state.List, a.IDs)
	case AssertRecordCount:
		return assertCount(result.Trace, a.Type, len(state.Records), *a.Count)
	case AssertStoredCount:
		return assertCount(result.Trace, a.Type, len(state.Stored), *a.Count)
	case AssertMarkerCount:
		return assertCount(result.Trace, a.Type, state.Markers, *a.Count)
	case AssertNoticeContains:
		return assertNoticeContains(state.Notices, a)
	case AssertEmptyState:
		if state.Empty != *a.Empty {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("empty state shown = %t", *a.Empty),
				Actual:   fmt.Sprintf("empty state shown = %t", state.Empty),
			}
		}
		return nil
	case AssertSelected:
		if state.Selected != a.ID {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("selected %q", a.ID),
				Actual:   fmt.Sprintf("selected %q", state.Selected),
				Trace:    result.Trace,
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertListOrder checks the rendered entries, in display order.
func assertListOrder(trace []TraceEvent, actual, expected []string) error {
	if len(actual) == 0 && len(expected) == 0 {
		return nil
	}
	if !reflect.DeepEqual(actual, expected) {
		return &AssertionError{
			Type:     AssertListOrder,
			Expected: fmt.Sprintf("%v", expected),
			Actual:   fmt.Sprintf("%v", actual),
			Trace:    trace,
		}
	}
	return nil
}

func assertCount(trace []TraceEvent, kind string, actual, expected int) error {
	if actual != expected {
		return &AssertionError{
			Type:     kind,
			Expected: fmt.Sprintf("%d", expected),
			Actual:   fmt.Sprintf("%d", actual),
			Trace:    trace,
		}
	}
	return nil
}

// assertNoticeContains checks that a notice containing the message was
// shown, exactly Count times if Count is set.
func assertNoticeContains(notices []controller.Notice, a Assertion) error {
	count := 0
	for _, n := range notices {
		if strings.Contains(n.Message, a.Message) {
			count++
		}
	}

	if a.Count != nil {
		if count != *a.Count {
			return &AssertionError{
				Type:     AssertNoticeContains,
				Expected: fmt.Sprintf("%d notices containing %q", *a.Count, a.Message),
				Actual:   fmt.Sprintf("%d notices: %v", count, messages(notices)),
			}
		}
		return nil
	}

	if count == 0 {
		return &AssertionError{
			Type:     AssertNoticeContains,
			Expected: fmt.Sprintf("a notice containing %q", a.Message),
			Actual:   fmt.Sprintf("notices: %v", messages(notices)),
		}
	}
	return nil
}

func messages(notices []controller.Notice) []string {
	out := make([]string, len(notices))
	for i, n := range notices {
		out[i] = n.Message
	}
	return out
}
