// Package render projects workouts into list entries and map markers.
//
// The Renderer owns no workout state. It is handed an ordered slice for every
// list render and one workout per marker, and writes to two surfaces: a
// ListView and, once the map exists, a Map.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/mapty/internal/workout"
)

// ErrMapNotReady is returned when a marker is rendered before a map exists.
var ErrMapNotReady = errors.New("map not ready")

// MarkerID is a handle returned by Map.AddMarker.
type MarkerID int

// PanOptions controls how SetView moves the map.
type PanOptions struct {
	Animate  bool
	Duration time.Duration
}

// Popup is the content and behavior of a marker popup.
type Popup struct {
	Content      string
	ClassName    string
	MaxWidth     int
	MinWidth     int
	AutoClose    bool
	CloseOnClick bool
}

// Map is the mapping capability. Markers are not tracked for removal; a
// map is discarded whole with Close.
type Map interface {
	SetView(center workout.Coords, zoom int, pan PanOptions)
	AddMarker(at workout.Coords) MarkerID
	BindPopup(marker MarkerID, popup Popup)
	OnClick(fn func(workout.Coords))
	Close()
}

// MapOpener creates a live map centered on the acquired position.
type MapOpener interface {
	Open(center workout.Coords, zoom int) (Map, error)
}

// ListView is the on-screen workout list.
//
// Replace swaps every entry. MarkSelected highlights one entry and clears
// any other; an empty id clears the selection.
type ListView interface {
	Replace(entries []Entry)
	SetEmpty(empty bool)
	MarkSelected(id string)
	MarkRemoving(id string)
}

// Renderer writes workouts to a ListView and a Map.
type Renderer struct {
	list ListView
	m    Map
}

// New creates a Renderer for the given list. The map is attached later.
func New(list ListView) *Renderer {
	return &Renderer{list: list}
}

// AttachMap sets the live map used by RenderMarker.
func (r *Renderer) AttachMap(m Map) {
	r.m = m
}

// DetachMap closes and forgets the current map, if any.
func (r *Renderer) DetachMap() {
	if r.m != nil {
		r.m.Close()
		r.m = nil
	}
}

// Map returns the attached map, or nil before MapReady.
func (r *Renderer) Map() Map {
	return r.m
}

// RenderMarker places one new marker for w with its popup.
//
// Each call adds a marker; callers must not render the same workout twice
// on one map.
func (r *Renderer) RenderMarker(w workout.Workout) error {
	if r.m == nil {
		return ErrMapNotReady
	}
	id := r.m.AddMarker(w.Coords)
	r.m.BindPopup(id, PopupFor(w))
	slog.Debug("marker rendered", "id", w.ID, "marker", id)
	return nil
}

// RenderList re-renders the whole list from ordered. The entry whose
// identity equals selected is marked selected.
func (r *Renderer) RenderList(ordered []workout.Workout, selected string) error {
	entries := make([]Entry, 0, len(ordered))
	for _, w := range ordered {
		e, err := EntryFor(w, w.ID == selected)
		if err != nil {
			return fmt.Errorf("render entry %s: %w", w.ID, err)
		}
		entries = append(entries, e)
	}
	r.list.Replace(entries)
	slog.Debug("list rendered", "entries", len(entries))
	return nil
}

// ShowEmptyState shows the "no workouts" indicator.
func (r *Renderer) ShowEmptyState() {
	r.list.SetEmpty(true)
}

// HideEmptyState hides the "no workouts" indicator.
func (r *Renderer) HideEmptyState() {
	r.list.SetEmpty(false)
}

// Select marks one entry selected, deselecting any other.
func (r *Renderer) Select(id string) {
	r.list.MarkSelected(id)
}

// MarkRemoving flags an entry for its exit animation.
func (r *Renderer) MarkRemoving(id string) {
	r.list.MarkRemoving(id)
}

// PopupFor returns the marker popup for w.
func PopupFor(w workout.Workout) Popup {
	return Popup{
		Content:      w.Kind.Glyph() + " " + w.Description,
		ClassName:    string(w.Kind) + "-popup",
		MaxWidth:     250,
		MinWidth:     100,
		AutoClose:    false,
		CloseOnClick: false,
	}
}
