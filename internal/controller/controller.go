package controller

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/roach88/mapty/internal/geo"
	"github.com/roach88/mapty/internal/records"
	"github.com/roach88/mapty/internal/render"
	"github.com/roach88/mapty/internal/workout"
)

// DefaultDeleteDelay is the pause between marking an entry for removal and
// deleting it, long enough for the exit animation.
const DefaultDeleteDelay = time.Second

// Form is the workout entry form.
type Form interface {
	Reveal()
	Hide()
	Reset()
	ShowKindFields(k workout.Kind)
}

// Level classifies a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a transient user-visible notification.
type Notice struct {
	Level   Level  `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// Persister is the durable write-through target.
// Implemented by *store.Store.
type Persister interface {
	LoadWorkouts(ctx context.Context) ([]workout.Workout, error)
	SaveWorkouts(ctx context.Context, ws []workout.Workout) error
	ClearWorkouts(ctx context.Context) error
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Persister Persister
	Locator   geo.Locator
	Maps      render.MapOpener
	List      render.ListView
	Form      Form
	Notifier  Notifier
}

// Option allows configuration of controller parameters.
type Option func(*Controller)

// WithZoom sets the map zoom used at MapReady and when panning.
func WithZoom(zoom int) Option {
	return func(c *Controller) {
		if zoom > 0 {
			c.zoom = zoom
		}
	}
}

// WithDeleteDelay sets the pause before a marked entry is deleted.
func WithDeleteDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.deleteDelay = d
		}
	}
}

// WithIDGenerator overrides the identity generator (tests).
func WithIDGenerator(g workout.IDGenerator) Option {
	return func(c *Controller) {
		c.ids = g
	}
}

// WithNow overrides the creation-time source (tests).
func WithNow(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// Controller owns every piece of mutable session state and mediates all
// record mutations.
//
// Thread-safety model:
//   - Enqueue(), Do(), Start(), Snapshot(), Settled(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
//
// All handler code runs on the Run goroutine, one event at a time.
type Controller struct {
	deps        Deps
	queue       *eventQueue
	records     *records.Collection
	renderer    *render.Renderer
	ids         workout.IDGenerator
	now         func() time.Time
	zoom        int
	deleteDelay time.Duration

	// loop-owned state
	session    *geo.Session
	generation int
	pending    *workout.Coords
	selected   string
	sorted     bool
	removing   map[string][]chan<- error // pending deletes and their waiting callers

	mu      sync.Mutex
	settled chan struct{}
}

// New creates a Controller. Call Run, then Start.
func New(deps Deps, opts ...Option) *Controller {
	c := &Controller{
		deps:        deps,
		queue:       newEventQueue(),
		records:     records.New(),
		renderer:    render.New(deps.List),
		ids:         workout.UUIDv7Generator{},
		now:         time.Now,
		zoom:        geo.DefaultZoom,
		deleteDelay: DefaultDeleteDelay,
		removing:    make(map[string][]chan<- error),
		settled:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Enqueue submits an event without waiting for it.
// Returns false if the controller has been stopped.
func (c *Controller) Enqueue(ev Event) bool {
	return c.queue.Enqueue(ev)
}

// Do submits an event and waits until its handler has finished.
//
// The handler's error is returned: validation failures, storage write
// failures, unknown identities. A delete returns once the delayed removal
// and the reload have completed; a repeated delete of a workout that is
// already pending waits for the same removal and gets the same result.
func (c *Controller) Do(ctx context.Context, ev Event) error {
	reply := make(chan error, 1)
	ev.reply = reply
	if !c.queue.Enqueue(ev) {
		return ErrStopped
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start loads stored workouts, renders them and starts the Geo Session.
func (c *Controller) Start(ctx context.Context) error {
	return c.Do(ctx, Start())
}

// Snapshot returns a copy of the controller state.
func (c *Controller) Snapshot(ctx context.Context) (Snapshot, error) {
	ch := make(chan Snapshot, 1)
	if !c.queue.Enqueue(Event{Type: eventSnapshot, snapshot: ch}) {
		return Snapshot{}, ErrStopped
	}
	select {
	case s := <-ch:
		return s, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Settled blocks until the current Geo Session outcome has been handled:
// markers are replayed after MapReady, or the failure has been notified.
func (c *Controller) Settled(ctx context.Context) error {
	c.mu.Lock()
	ch := c.settled
	c.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run starts the single-writer event loop.
// Blocks until context is cancelled or Stop() is called.
//
// ERROR HANDLING: handler errors are logged with the event context and
// returned to the Do caller; the loop always continues.
func (c *Controller) Run(ctx context.Context) error {
	slog.Info("controller starting")

	for {
		event, ok := c.queue.TryDequeue()
		if ok {
			c.process(ctx, event)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("controller stopping: context cancelled")
			c.queue.Close()
			c.renderer.DetachMap()
			return ctx.Err()

		case <-c.queue.Wait():
			// A stale coalesced signal can arrive with nothing queued; only a
			// closed, drained queue ends the loop.
			if c.queue.Len() == 0 && c.queue.Closed() {
				slog.Info("controller stopping: queue closed")
				c.renderer.DetachMap()
				return nil
			}
		}
	}
}

// Stop closes the event queue, which makes Run return.
func (c *Controller) Stop() {
	c.queue.Close()
}

// process runs one handler to completion and answers the Do caller.
func (c *Controller) process(ctx context.Context, ev Event) {
	slog.Debug("processing event", "type", ev.Type, "id", ev.ID, "generation", c.generation)

	err := c.handle(ctx, ev)
	if errors.Is(err, errDeferred) {
		return
	}
	if err != nil {
		logEventError(ev, err)
	}
	if ev.reply != nil {
		ev.reply <- err
	}
}

func (c *Controller) handle(ctx context.Context, ev Event) error {
	switch ev.Type {
	case EventStart:
		return c.bootstrap(ctx)
	case EventMapClicked:
		return c.onMapClicked(ev.Coords)
	case EventKindChanged:
		return c.onKindChanged(ev.Kind)
	case EventFormSubmitted:
		return c.onFormSubmitted(ctx, ev.Form)
	case EventEntryClicked:
		return c.onEntryClicked(ev.ID)
	case EventDeleteClicked:
		return c.onDeleteClicked(ev)
	case eventDeleteDue:
		return c.onDeleteDue(ctx, ev.ID)
	case EventSortRequested:
		return c.onSortRequested()
	case EventResetRequested:
		return c.onResetRequested(ctx)
	case eventPositionAcquired:
		return c.onPositionAcquired(ev)
	case eventPositionFailed:
		return c.onPositionFailed(ev)
	case eventSnapshot:
		c.takeSnapshot(ev.snapshot)
		return nil
	default:
		return errUnknownEvent(ev.Type)
	}
}

func (c *Controller) takeSnapshot(ch chan<- Snapshot) {
	s := Snapshot{
		State:      geo.Idle,
		Workouts:   c.records.All(),
		Selected:   c.selected,
		Sorted:     c.sorted,
		Generation: c.generation,
	}
	if c.session != nil {
		s.State = c.session.State()
	}
	if c.pending != nil {
		p := *c.pending
		s.Pending = &p
	}
	for id := range c.removing {
		s.Removing = append(s.Removing, id)
	}
	sort.Strings(s.Removing)
	ch <- s
}

// setSettled installs a fresh settled channel for a new Geo Session.
func (c *Controller) setSettled() {
	c.mu.Lock()
	c.settled = make(chan struct{})
	c.mu.Unlock()
}

func (c *Controller) markSettled() {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.settled:
	default:
		close(c.settled)
	}
}

func (c *Controller) notify(level Level, msg string) {
	if c.deps.Notifier != nil {
		c.deps.Notifier.Notify(Notice{Level: level, Message: msg})
	}
}

// logEventError logs a handler failure with full event context.
func logEventError(ev Event, err error) {
	switch ev.Type {
	case EventFormSubmitted:
		slog.Warn("form submission rejected",
			"error", err,
			"kind", ev.Form.Kind,
		)
	case EventDeleteClicked, eventDeleteDue, EventEntryClicked:
		slog.Warn("workout event failed",
			"error", err,
			"event_type", ev.Type,
			"id", ev.ID,
		)
	default:
		slog.Error("event processing failed",
			"error", err,
			"event_type", ev.Type,
		)
	}
}
