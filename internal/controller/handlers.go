package controller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/mapty/internal/geo"
	"github.com/roach88/mapty/internal/render"
	"github.com/roach88/mapty/internal/workout"
)

// Notification texts.
const (
	MsgInvalidInput = "Inputs have to be positive numbers!"
	MsgNoLocation   = "Click on the map to choose a location first"
	MsgAdded        = "Workout added"
	MsgDeleted      = "Workout deleted"
	MsgSaveFailed   = "Could not save your workouts"
	MsgMapFailed    = "Could not load the map"
	MsgCleared      = "All workouts cleared"
)

// panDuration is the recenter animation length for entry clicks.
const panDuration = time.Second

// bootstrap (re)initializes the session: it discards the current map and
// transient UI state, rehydrates from storage, renders the list in
// canonical order and starts a new Geo Session. Markers follow at MapReady.
func (c *Controller) bootstrap(ctx context.Context) error {
	c.renderer.DetachMap()
	c.generation++
	gen := c.generation

	c.pending = nil
	c.selected = ""
	c.sorted = false
	if c.deps.Form != nil {
		c.deps.Form.Hide()
		c.deps.Form.Reset()
	}

	ws, err := c.deps.Persister.LoadWorkouts(ctx)
	if err != nil {
		// Unreadable storage starts the session empty and is not surfaced.
		slog.Warn("stored workouts unreadable, starting empty", "error", err)
	}
	c.records.Replace(ws)
	slog.Info("workouts loaded", "count", c.records.Len(), "generation", gen)

	if err := c.refreshList(); err != nil {
		return err
	}

	c.setSettled()
	c.session = geo.NewSession(c.deps.Locator, c.zoom)
	c.session.Start(ctx, geo.Callbacks{
		OnReady: func(r geo.Ready) {
			c.queue.Enqueue(Event{Type: eventPositionAcquired, ready: r, generation: gen})
		},
		OnFailed: func(err error) {
			c.queue.Enqueue(Event{Type: eventPositionFailed, err: err, generation: gen})
		},
	})
	return nil
}

func (c *Controller) onPositionAcquired(ev Event) error {
	if ev.generation != c.generation {
		slog.Debug("ignoring position from discarded session", "generation", ev.generation)
		return nil
	}
	defer c.markSettled()

	if c.deps.Maps == nil {
		c.notify(LevelError, MsgMapFailed)
		return fmt.Errorf("open map: no map opener configured")
	}
	m, err := c.deps.Maps.Open(ev.ready.Center, ev.ready.Zoom)
	if err != nil {
		c.notify(LevelError, MsgMapFailed)
		return fmt.Errorf("open map: %w", err)
	}
	m.SetView(ev.ready.Center, ev.ready.Zoom, render.PanOptions{})
	m.OnClick(func(at workout.Coords) {
		c.queue.Enqueue(MapClicked(at))
	})
	c.renderer.AttachMap(m)

	// Replay every stored workout now that a live map exists.
	for _, w := range c.records.All() {
		if err := c.renderer.RenderMarker(w); err != nil {
			return fmt.Errorf("replay marker %s: %w", w.ID, err)
		}
	}
	slog.Info("map ready", "markers", c.records.Len(), "generation", c.generation)
	return nil
}

func (c *Controller) onPositionFailed(ev Event) error {
	if ev.generation != c.generation {
		return nil
	}
	defer c.markSettled()

	// One alert, no retry. Without a map no click can reach the form.
	c.notify(LevelError, geo.FailureMessage)
	return ev.err
}

func (c *Controller) onMapClicked(at workout.Coords) error {
	if c.renderer.Map() == nil {
		return ErrMapNotReady
	}
	p := at
	c.pending = &p
	if c.deps.Form != nil {
		c.deps.Form.Reveal()
	}
	slog.Debug("location selected", "lat", at.Lat, "lng", at.Lng)
	return nil
}

func (c *Controller) onKindChanged(k workout.Kind) error {
	if !k.Valid() {
		return &workout.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown workout kind %q", k)}
	}
	if c.deps.Form != nil {
		c.deps.Form.ShowKindFields(k)
	}
	return nil
}

func (c *Controller) onFormSubmitted(ctx context.Context, f workout.Form) error {
	if c.pending == nil {
		c.notify(LevelError, MsgNoLocation)
		return ErrNoLocation
	}

	in := workout.ParseForm(f, *c.pending)
	if err := workout.Validate(in); err != nil {
		c.notify(LevelError, MsgInvalidInput)
		return err
	}

	w, err := workout.New(in, c.ids.Generate(), c.now())
	if err != nil {
		c.notify(LevelError, MsgInvalidInput)
		return err
	}

	c.records.Add(w)
	if err := c.renderer.RenderMarker(w); err != nil {
		slog.Warn("marker not rendered", "id", w.ID, "error", err)
	}
	c.sorted = true
	if err := c.refreshList(); err != nil {
		return err
	}

	saveErr := c.save(ctx)

	c.pending = nil
	if c.deps.Form != nil {
		c.deps.Form.Hide()
		c.deps.Form.Reset()
	}
	if saveErr != nil {
		return saveErr
	}

	slog.Info("workout created", "id", w.ID, "kind", w.Kind, "distance_km", w.DistanceKm)
	c.notify(LevelSuccess, MsgAdded)
	return nil
}

func (c *Controller) onEntryClicked(id string) error {
	w, ok := c.records.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWorkout, id)
	}
	if m := c.renderer.Map(); m != nil {
		m.SetView(w.Coords, c.zoom, render.PanOptions{Animate: true, Duration: panDuration})
	}
	c.selected = id
	c.renderer.Select(id)
	return nil
}

func (c *Controller) onDeleteClicked(ev Event) error {
	if _, ok := c.records.Find(ev.ID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWorkout, ev.ID)
	}
	if waiting, busy := c.removing[ev.ID]; busy {
		c.removing[ev.ID] = appendReply(waiting, ev.reply)
		return errDeferred
	}

	c.removing[ev.ID] = appendReply(nil, ev.reply)
	c.renderer.MarkRemoving(ev.ID)

	id := ev.ID
	time.AfterFunc(c.deleteDelay, func() {
		c.queue.Enqueue(Event{Type: eventDeleteDue, ID: id})
	})
	slog.Debug("delete scheduled", "id", id, "delay", c.deleteDelay)
	return errDeferred
}

func (c *Controller) onDeleteDue(ctx context.Context, id string) error {
	replies := c.removing[id]
	delete(c.removing, id)

	err := c.deleteNow(ctx, id)
	if err != nil {
		logEventError(Event{Type: eventDeleteDue, ID: id}, err)
	}
	for _, reply := range replies {
		reply <- err
	}
	return errDeferred
}

func appendReply(replies []chan<- error, reply chan<- error) []chan<- error {
	if reply == nil {
		return replies
	}
	return append(replies, reply)
}

func (c *Controller) deleteNow(ctx context.Context, id string) error {
	if !c.records.RemoveByID(id) {
		// Removed meanwhile, e.g. by a reset.
		return nil
	}
	if err := c.save(ctx); err != nil {
		// Reloading now would resurrect the workout from storage.
		if rerr := c.refreshList(); rerr != nil {
			return rerr
		}
		return err
	}
	slog.Info("workout deleted", "id", id)

	if err := c.bootstrap(ctx); err != nil {
		return err
	}
	c.notify(LevelInfo, MsgDeleted)
	return nil
}

func (c *Controller) onSortRequested() error {
	c.sorted = true
	return c.refreshList()
}

func (c *Controller) onResetRequested(ctx context.Context) error {
	if err := c.deps.Persister.ClearWorkouts(ctx); err != nil {
		c.notify(LevelError, MsgSaveFailed)
		return err
	}
	if err := c.bootstrap(ctx); err != nil {
		return err
	}
	c.notify(LevelInfo, MsgCleared)
	return nil
}

// refreshList re-renders the list in the current display order and
// toggles the empty state.
func (c *Controller) refreshList() error {
	ordered := c.records.All()
	if c.sorted {
		ordered = c.records.SortedByDistance()
	}
	if err := c.renderer.RenderList(ordered, c.selected); err != nil {
		return err
	}
	if c.records.Len() == 0 {
		c.renderer.ShowEmptyState()
	} else {
		c.renderer.HideEmptyState()
	}
	return nil
}

// save writes the canonical collection through to storage and surfaces
// a failure to the user.
func (c *Controller) save(ctx context.Context) error {
	if err := c.deps.Persister.SaveWorkouts(ctx, c.records.All()); err != nil {
		slog.Error("write-through failed", "error", err, "count", c.records.Len())
		c.notify(LevelError, MsgSaveFailed)
		return err
	}
	return nil
}
