package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/mapty/internal/controller"
	"github.com/roach88/mapty/internal/render"
	"github.com/roach88/mapty/internal/workout"
)

// entryLine renders one list entry as a single text line.
func entryLine(e render.Entry) string {
	marker := " "
	if e.Selected {
		marker = "*"
	}
	return fmt.Sprintf("%s %s  %s %s  %s km  %s min  %s %s  %s %s",
		marker, e.ID, e.Glyph, e.Title,
		e.Distance, e.Duration,
		e.Metric, e.MetricUnit,
		e.Secondary, e.SecondaryUnit,
	)
}

// ListResult is the output of list and sort.
type ListResult struct {
	Entries []render.Entry      `json:"entries"`
	Sorted  bool                `json:"sorted"`
	Notices []controller.Notice `json:"notices,omitempty"`
}

func (r ListResult) String() string {
	if len(r.Entries) == 0 {
		return "No workouts yet"
	}
	lines := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		lines = append(lines, entryLine(e))
	}
	return strings.Join(lines, "\n")
}

// WorkoutResult is the output of add and show.
type WorkoutResult struct {
	Workout workout.Workout     `json:"workout"`
	Entry   render.Entry        `json:"entry"`
	Notices []controller.Notice `json:"notices,omitempty"`

	heading string
}

func (r WorkoutResult) String() string {
	w := r.Workout
	var b strings.Builder
	if r.heading != "" {
		fmt.Fprintln(&b, r.heading)
	}
	fmt.Fprintln(&b, entryLine(r.Entry))
	fmt.Fprintf(&b, "  id:       %s\n", w.ID)
	fmt.Fprintf(&b, "  at:       %s\n", w.Coords)
	fmt.Fprintf(&b, "  created:  %s", w.CreatedAt.Format("2006-01-02 15:04"))
	return b.String()
}

// MessageResult is the output of commands that only change state.
type MessageResult struct {
	Message   string              `json:"message"`
	ID        string              `json:"id,omitempty"`
	Remaining int                 `json:"remaining"`
	Notices   []controller.Notice `json:"notices,omitempty"`
}

func (r MessageResult) String() string {
	if r.ID != "" {
		return fmt.Sprintf("%s: %s (%d remaining)", r.Message, r.ID, r.Remaining)
	}
	return fmt.Sprintf("%s (%d remaining)", r.Message, r.Remaining)
}
