package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/mapty/internal/workout"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testTime = time.Date(2026, time.March, 3, 7, 0, 0, 0, time.UTC)

// createTestRun builds a valid running workout.
func createTestRun(t *testing.T, id string, distance float64) workout.Workout {
	t.Helper()
	w, err := workout.New(workout.Input{
		Kind:        workout.Running,
		Coords:      workout.Coords{Lat: 51.5, Lng: -0.1},
		DistanceKm:  distance,
		DurationMin: 30,
		CadenceSPM:  150,
	}, id, testTime)
	if err != nil {
		t.Fatalf("workout.New() failed: %v", err)
	}
	return w
}

// createTestRide builds a valid cycling workout.
func createTestRide(t *testing.T, id string, distance, gain float64) workout.Workout {
	t.Helper()
	w, err := workout.New(workout.Input{
		Kind:           workout.Cycling,
		Coords:         workout.Coords{Lat: 45.76, Lng: 4.83},
		DistanceKm:     distance,
		DurationMin:    60,
		ElevationGainM: gain,
	}, id, testTime)
	if err != nil {
		t.Fatalf("workout.New() failed: %v", err)
	}
	return w
}
