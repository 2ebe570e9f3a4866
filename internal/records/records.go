// Package records holds the authoritative in-memory workout collection.
//
// The collection keeps canonical order, which is creation order. Display
// sorts are projections returned as new slices and never written back, so
// persisting All() always uses creation order.
//
// Collection is not safe for concurrent use. It is owned by the controller's
// single-writer loop.
package records

import (
	"log/slog"
	"sort"

	"github.com/roach88/mapty/internal/workout"
)

// Collection is the ordered set of workouts for one session.
type Collection struct {
	items []workout.Workout
}

// New creates an empty collection.
func New() *Collection {
	return &Collection{}
}

// Add appends w in O(1). Identities are assumed unique; no check is made.
func (c *Collection) Add(w workout.Workout) {
	c.items = append(c.items, w)
}

// RemoveByID removes the first workout with the given identity.
// Returns false (and changes nothing) if no workout matches.
func (c *Collection) RemoveByID(id string) bool {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the workout with the given identity.
func (c *Collection) Find(id string) (workout.Workout, bool) {
	for _, w := range c.items {
		if w.ID == id {
			return w, true
		}
	}
	return workout.Workout{}, false
}

// All returns a copy of the collection in canonical order.
func (c *Collection) All() []workout.Workout {
	out := make([]workout.Workout, len(c.items))
	copy(out, c.items)
	return out
}

// SortedByDistance returns a copy sorted by ascending distance.
// Equal distances keep canonical order.
func (c *Collection) SortedByDistance() []workout.Workout {
	out := c.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// Len returns the number of workouts.
func (c *Collection) Len() int {
	return len(c.items)
}

// Replace swaps in a rehydrated collection.
//
// Duplicate identities keep the first occurrence; later ones are dropped and
// logged so the uniqueness invariant holds even for hand-edited storage.
func (c *Collection) Replace(ws []workout.Workout) {
	seen := make(map[string]bool, len(ws))
	items := make([]workout.Workout, 0, len(ws))
	for _, w := range ws {
		if seen[w.ID] {
			slog.Warn("dropping duplicate workout identity", "id", w.ID)
			continue
		}
		seen[w.ID] = true
		items = append(items, w)
	}
	c.items = items
}
