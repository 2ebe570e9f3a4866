package controller

import (
	"fmt"

	"github.com/roach88/mapty/internal/geo"
	"github.com/roach88/mapty/internal/workout"
)

// EventType distinguishes between event kinds.
type EventType int

const (
	// EventStart loads storage, renders the list and starts the Geo Session.
	EventStart EventType = iota + 1
	// EventMapClicked captures coordinates and reveals the form.
	EventMapClicked
	// EventKindChanged toggles the kind-specific form row.
	EventKindChanged
	// EventFormSubmitted validates the form and creates a workout.
	EventFormSubmitted
	// EventEntryClicked pans to a workout and selects its entry.
	EventEntryClicked
	// EventDeleteClicked marks an entry for removal and schedules the delete.
	EventDeleteClicked
	// EventSortRequested renders the list by ascending distance.
	EventSortRequested
	// EventResetRequested clears storage and reloads.
	EventResetRequested

	eventDeleteDue
	eventPositionAcquired
	eventPositionFailed
	eventSnapshot
)

func (t EventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventMapClicked:
		return "map_clicked"
	case EventKindChanged:
		return "kind_changed"
	case EventFormSubmitted:
		return "form_submitted"
	case EventEntryClicked:
		return "entry_clicked"
	case EventDeleteClicked:
		return "delete_clicked"
	case EventSortRequested:
		return "sort_requested"
	case EventResetRequested:
		return "reset_requested"
	case eventDeleteDue:
		return "delete_due"
	case eventPositionAcquired:
		return "position_acquired"
	case eventPositionFailed:
		return "position_failed"
	case eventSnapshot:
		return "snapshot"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is one discrete input to the controller.
// It carries only the data its handler needs.
type Event struct {
	Type   EventType
	Coords workout.Coords
	Kind   workout.Kind
	Form   workout.Form
	ID     string

	ready      geo.Ready
	err        error
	generation int
	reply      chan<- error
	snapshot   chan<- Snapshot
}

// Start returns the startup event.
func Start() Event {
	return Event{Type: EventStart}
}

// MapClicked returns a map click at c.
func MapClicked(c workout.Coords) Event {
	return Event{Type: EventMapClicked, Coords: c}
}

// KindChanged returns a kind selector change.
func KindChanged(k workout.Kind) Event {
	return Event{Type: EventKindChanged, Kind: k}
}

// FormSubmitted returns a form submission with raw field values.
func FormSubmitted(f workout.Form) Event {
	return Event{Type: EventFormSubmitted, Form: f}
}

// EntryClicked returns a click on a list entry outside its delete control.
func EntryClicked(id string) Event {
	return Event{Type: EventEntryClicked, ID: id}
}

// DeleteClicked returns a click on an entry's delete control.
func DeleteClicked(id string) Event {
	return Event{Type: EventDeleteClicked, ID: id}
}

// SortRequested returns an explicit sort trigger.
func SortRequested() Event {
	return Event{Type: EventSortRequested}
}

// ResetRequested returns a request to clear all workouts.
func ResetRequested() Event {
	return Event{Type: EventResetRequested}
}

// Snapshot is a copy of controller state taken inside the loop.
type Snapshot struct {
	State      geo.State
	Workouts   []workout.Workout
	Pending    *workout.Coords
	Selected   string
	Sorted     bool
	Removing   []string
	Generation int
}
