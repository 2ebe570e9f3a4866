// Package geo acquires the device position once and reports when the map
// can be initialized.
//
// A Session moves Idle → Acquiring → {MapReady, Failed}. Acquisition is
// single-shot: there is no retry, and no timeout beyond the caller's
// context. If the Locator never answers, the session stays Acquiring.
package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/mapty/internal/workout"
)

// DefaultZoom is the initial map zoom level.
const DefaultZoom = 13

// FailureMessage is the notification shown when acquisition fails.
const FailureMessage = "Could not get your position"

// State is a Session lifecycle state.
type State int

const (
	Idle State = iota
	Acquiring
	MapReady
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Acquiring:
		return "acquiring"
	case MapReady:
		return "map_ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Locator is the host geolocation capability.
// CurrentPosition blocks until a fix is available or acquisition fails.
type Locator interface {
	CurrentPosition(ctx context.Context) (workout.Coords, error)
}

// AcquisitionError reports that no position could be obtained.
type AcquisitionError struct {
	Err error
}

// Error implements the error interface.
func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("position acquisition failed: %v", e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// IsAcquisitionError returns true if err wraps an AcquisitionError.
func IsAcquisitionError(err error) bool {
	var ae *AcquisitionError
	return errors.As(err, &ae)
}

// Ready is the outcome carried by a MapReady transition.
type Ready struct {
	Center workout.Coords
	Zoom   int
}

// Callbacks receive the single outcome of a Session.
// Exactly one of them is called, from the acquisition goroutine.
type Callbacks struct {
	OnReady  func(Ready)
	OnFailed func(error)
}

// Session is one position acquisition.
//
// Thread-safety: State, Done and Start are safe from any goroutine.
type Session struct {
	locator Locator
	zoom    int

	mu    sync.Mutex
	state State
	ready Ready
	err   error
	done  chan struct{}
}

// NewSession creates an Idle session. A zoom of 0 selects DefaultZoom.
func NewSession(locator Locator, zoom int) *Session {
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	return &Session{
		locator: locator,
		zoom:    zoom,
		done:    make(chan struct{}),
	}
}

// Start enters Acquiring and runs the locator in a new goroutine.
// Only the first call has any effect.
func (s *Session) Start(ctx context.Context, cb Callbacks) {
	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return
	}
	s.state = Acquiring
	s.mu.Unlock()

	slog.Info("acquiring position")

	go func() {
		pos, err := s.locator.CurrentPosition(ctx)
		if err != nil {
			s.fail(&AcquisitionError{Err: err}, cb)
			return
		}
		s.succeed(pos, cb)
	}()
}

func (s *Session) succeed(pos workout.Coords, cb Callbacks) {
	s.mu.Lock()
	s.state = MapReady
	s.ready = Ready{Center: pos, Zoom: s.zoom}
	ready := s.ready
	s.mu.Unlock()
	defer close(s.done)

	slog.Info("position acquired", "lat", pos.Lat, "lng", pos.Lng, "zoom", ready.Zoom)
	if cb.OnReady != nil {
		cb.OnReady(ready)
	}
}

func (s *Session) fail(err error, cb Callbacks) {
	s.mu.Lock()
	s.state = Failed
	s.err = err
	s.mu.Unlock()
	defer close(s.done)

	slog.Warn("position acquisition failed", "error", err)
	if cb.OnFailed != nil {
		cb.OnFailed(err)
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the MapReady outcome, or the failure.
// Only meaningful once Done is closed.
func (s *Session) Result() (Ready, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready, s.err
}

// Done is closed once the session reaches MapReady or Failed and the
// matching callback has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
