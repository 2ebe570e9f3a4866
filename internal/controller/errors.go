package controller

import (
	"errors"
	"fmt"
)

var (
	// ErrStopped is returned when an event is submitted after Stop.
	ErrStopped = errors.New("controller stopped")

	// ErrMapNotReady is returned for map clicks before MapReady. After a
	// failed acquisition click-to-create stays unavailable for the session.
	ErrMapNotReady = errors.New("map not ready: click-to-create unavailable")

	// ErrNoLocation is returned when the form is submitted before any map click.
	ErrNoLocation = errors.New("no map location selected")

	// ErrUnknownWorkout is returned for entry events naming an absent identity.
	ErrUnknownWorkout = errors.New("unknown workout")

	// errDeferred tells the loop that the handler will answer the Do caller later.
	errDeferred = errors.New("reply deferred")
)

func errUnknownEvent(t EventType) error {
	return fmt.Errorf("unknown event type: %s", t)
}
