package geo

import (
	"context"
	"errors"

	"github.com/roach88/mapty/internal/workout"
)

// ErrUnavailable is returned when no position source is configured.
var ErrUnavailable = errors.New("geolocation unavailable")

// FixedLocator reports a preconfigured position.
type FixedLocator struct {
	Position workout.Coords
}

// CurrentPosition returns the fixed position unless ctx is already done.
func (l FixedLocator) CurrentPosition(ctx context.Context) (workout.Coords, error) {
	if err := ctx.Err(); err != nil {
		return workout.Coords{}, err
	}
	return l.Position, nil
}

// UnavailableLocator always fails, like a host that denies geolocation.
type UnavailableLocator struct{}

// CurrentPosition returns ErrUnavailable.
func (UnavailableLocator) CurrentPosition(context.Context) (workout.Coords, error) {
	return workout.Coords{}, ErrUnavailable
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(ctx context.Context) (workout.Coords, error)

// CurrentPosition calls f(ctx).
func (f LocatorFunc) CurrentPosition(ctx context.Context) (workout.Coords, error) {
	return f(ctx)
}
