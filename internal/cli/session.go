package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mapty/internal/config"
	"github.com/roach88/mapty/internal/controller"
	"github.com/roach88/mapty/internal/geo"
	"github.com/roach88/mapty/internal/store"
	"github.com/roach88/mapty/internal/view"
	"github.com/roach88/mapty/internal/workout"
)

// session is one bootstrapped controller over the configured database.
type session struct {
	cfg   config.Config
	store *store.Store
	ctl   *controller.Controller
	ui    *view.Surfaces
	out   *OutputFormatter

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// openSession loads configuration, opens the database and starts a
// controller, returning once the Geo Session outcome has been handled.
//
// The device position comes from the position settings. When those are
// disabled, at (if non-nil) stands in for it.
func openSession(cmd *cobra.Command, opts *RootOptions, at *workout.Coords) (*session, error) {
	cfg, err := config.Load(".", opts.ConfigFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}

	st, err := store.Open(cfg.Database, store.WithKey(cfg.Storage.Key))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	out := newFormatter(cmd, opts)
	ui := view.NewSurfaces()
	ui.Notices.Sink = func(n controller.Notice) {
		out.VerboseLog("[%s] %s", n.Level, n.Message)
	}

	ctl := controller.New(ui.Deps(st, locatorFor(cfg, at)),
		controller.WithZoom(cfg.Map.Zoom),
		controller.WithDeleteDelay(cfg.UI.DeleteDelay),
	)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	s := &session{
		cfg:    cfg,
		store:  st,
		ctl:    ctl,
		ui:     ui,
		out:    out,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		ctl.Run(ctx)
	}()

	if err := ctl.Start(ctx); err != nil {
		s.Close()
		return nil, WrapExitError(ExitFailure, "failed to start session", err)
	}
	if err := ctl.Settled(ctx); err != nil {
		s.Close()
		return nil, WrapExitError(ExitFailure, "failed to start session", err)
	}
	out.VerboseLog("session ready: %d workout(s), database %s", len(ui.List.Entries()), cfg.Database)
	return s, nil
}

func locatorFor(cfg config.Config, at *workout.Coords) geo.Locator {
	if cfg.Position.Enabled || at == nil {
		return cfg.Position.Locator()
	}
	return geo.FixedLocator{Position: *at}
}

// Do submits ev and waits for its handler.
func (s *session) Do(ev controller.Event) error {
	return s.ctl.Do(s.ctx, ev)
}

// Snapshot returns the controller state.
func (s *session) Snapshot() (controller.Snapshot, error) {
	return s.ctl.Snapshot(s.ctx)
}

// Workout returns the stored workout with the given identity.
func (s *session) Workout(id string) (workout.Workout, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return workout.Workout{}, err
	}
	for _, w := range snap.Workouts {
		if w.ID == id {
			return w, nil
		}
	}
	return workout.Workout{}, fmt.Errorf("%w: %s", controller.ErrUnknownWorkout, id)
}

// Notices returns the notifications raised so far.
func (s *session) Notices() []controller.Notice {
	return s.ui.Notices.All()
}

// Close stops the controller and closes the database.
func (s *session) Close() error {
	s.ctl.Stop()
	<-s.done
	s.cancel()
	return s.store.Close()
}

func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

var errBadCoords = errors.New("coordinates must be LAT,LNG")

// parseCoords parses "LAT,LNG".
func parseCoords(s string) (workout.Coords, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return workout.Coords{}, fmt.Errorf("%w: %q", errBadCoords, s)
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return workout.Coords{}, fmt.Errorf("%w: %q", errBadCoords, s)
	}
	ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return workout.Coords{}, fmt.Errorf("%w: %q", errBadCoords, s)
	}
	if la < -90 || la > 90 || ln < -180 || ln > 180 {
		return workout.Coords{}, fmt.Errorf("coordinates out of range: %q", s)
	}
	return workout.Coords{Lat: la, Lng: ln}, nil
}
