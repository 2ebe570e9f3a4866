package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/mapty/internal/controller"
	"github.com/roach88/mapty/internal/geo"
	"github.com/roach88/mapty/internal/store"
	"github.com/roach88/mapty/internal/testutil"
	"github.com/roach88/mapty/internal/view"
	"github.com/roach88/mapty/internal/workout"
)

// ScenarioTime is the creation time of every workout in a scenario.
var ScenarioTime = time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

// stepTimeout bounds each step so a stuck session fails instead of hanging.
const stepTimeout = 10 * time.Second

// Harness is the test execution engine.
// It drives one controller with deterministic identities and time.
type Harness struct {
	store  *store.Store
	ctl    *controller.Controller
	ui     *view.Surfaces
	logger *slog.Logger

	seen int // notices already reported in the trace
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database and seed storage
// 2. Start the controller and wait for the Geo Session outcome
// 3. Execute steps, checking each outcome
// 4. Capture the final state and evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with harness progress logged to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := seed(ctx, st, scenario); err != nil {
		return nil, fmt.Errorf("failed to seed storage: %w", err)
	}

	var locator geo.Locator = geo.UnavailableLocator{}
	if scenario.Position != nil {
		locator = geo.FixedLocator{Position: scenario.Position.Coords()}
	}

	ui := view.NewSurfaces()
	clock := testutil.NewDeterministicClock(ScenarioTime)
	ctl := controller.New(ui.Deps(st, locator),
		controller.WithIDGenerator(testutil.NewFixedIDs()),
		controller.WithNow(clock.Now),
		controller.WithDeleteDelay(0),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctl.Run(ctx)
	}()
	defer func() {
		ctl.Stop()
		<-done
	}()

	h := &Harness{store: st, ctl: ctl, ui: ui, logger: logger}
	result := NewResult()

	if err := h.start(ctx, result); err != nil {
		return nil, err
	}
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	state, err := h.capture(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to capture final state: %w", err)
	}
	result.State = state

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// seed writes the scenario's stored collection.
func seed(ctx context.Context, st *store.Store, s *Scenario) error {
	if s.StoredRaw != "" {
		return st.Put(ctx, st.Key(), s.StoredRaw)
	}
	if len(s.Stored) == 0 {
		return nil
	}

	ws := make([]workout.Workout, 0, len(s.Stored))
	for i, sw := range s.Stored {
		w, err := workout.New(workout.ParseForm(sw.Form, sw.At.Coords()), sw.ID, ScenarioTime)
		if err != nil {
			return fmt.Errorf("stored[%d]: %w", i, err)
		}
		ws = append(ws, w)
	}
	return st.SaveWorkouts(ctx, ws)
}

func (h *Harness) start(ctx context.Context, result *Result) error {
	if err := h.ctl.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	if err := h.settle(ctx); err != nil {
		return err
	}
	h.trace(result, "start", "", OutcomeOK)
	h.logger.Info("session started", "records", len(h.ui.List.IDs()))
	return nil
}

// executeStep sends one user event and records what followed.
//
// A step whose outcome differs from its expect clause fails the result but
// does not stop the scenario.
func (h *Harness) executeStep(ctx context.Context, i int, step Step, result *Result) error {
	name, target, _ := step.action()

	stepCtx, cancel := context.WithTimeout(ctx, stepTimeout)
	defer cancel()

	err := h.ctl.Do(stepCtx, eventFor(step))
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, controller.ErrStopped) {
		return err
	}
	if err := h.settle(stepCtx); err != nil {
		return err
	}

	outcome := Outcome(err)
	expected := step.Expect
	if expected == "" {
		expected = OutcomeOK
	}
	if outcome != expected {
		result.AddError(fmt.Sprintf("steps[%d] %s %s: expected outcome %s, got %s (%v)",
			i, name, target, expected, outcome, err))
	}

	h.trace(result, name, target, outcome)
	h.logger.Info("step completed", "step", i, "action", name, "target", target, "outcome", outcome)
	return nil
}

func eventFor(step Step) controller.Event {
	switch {
	case step.Click != nil:
		return controller.MapClicked(step.Click.Coords())
	case step.Kind != "":
		return controller.KindChanged(workout.Kind(step.Kind))
	case step.Submit != nil:
		return controller.FormSubmitted(*step.Submit)
	case step.Select != "":
		return controller.EntryClicked(step.Select)
	case step.Delete != "":
		return controller.DeleteClicked(step.Delete)
	case step.Sort:
		return controller.SortRequested()
	default:
		return controller.ResetRequested()
	}
}

// settle waits for any Geo Session started by the last event.
func (h *Harness) settle(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, stepTimeout)
	defer cancel()
	if err := h.ctl.Settled(ctx); err != nil {
		return fmt.Errorf("session did not settle: %w", err)
	}
	return nil
}

func (h *Harness) trace(result *Result, action, target, outcome string) {
	all := h.ui.Notices.All()
	var fresh []string
	for _, n := range all[h.seen:] {
		fresh = append(fresh, n.Message)
	}
	h.seen = len(all)

	result.AddTrace(TraceEvent{
		Action:  action,
		Target:  target,
		Outcome: outcome,
		List:    h.ui.List.IDs(),
		Markers: len(h.ui.LiveMarkers()),
		Notices: fresh,
	})
}

func (h *Harness) capture(ctx context.Context) (FinalState, error) {
	snap, err := h.ctl.Snapshot(ctx)
	if err != nil {
		return FinalState{}, err
	}
	stored, err := h.store.LoadWorkouts(ctx)
	if err != nil && !store.IsReadError(err) {
		return FinalState{}, err
	}

	return FinalState{
		Records:  ids(snap.Workouts),
		Stored:   ids(stored),
		List:     h.ui.List.IDs(),
		Markers:  len(h.ui.LiveMarkers()),
		Empty:    h.ui.List.Empty(),
		Selected: h.ui.List.Selected(),
		Notices:  h.ui.Notices.All(),
	}, nil
}

func ids(ws []workout.Workout) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.ID
	}
	return out
}

// Outcome classifies a controller error as a scenario outcome.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case workout.IsValidationError(err):
		return OutcomeValidation
	case errors.Is(err, controller.ErrNoLocation):
		return OutcomeNoLocation
	case errors.Is(err, controller.ErrMapNotReady):
		return OutcomeMapNotReady
	case errors.Is(err, controller.ErrUnknownWorkout):
		return OutcomeUnknownWorkout
	case store.IsWriteError(err):
		return OutcomeWriteFailed
	default:
		return OutcomeError
	}
}
