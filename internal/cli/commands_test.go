package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mapty/internal/controller"
	"github.com/roach88/mapty/internal/geo"
	"github.com/roach88/mapty/internal/workout"
)

// newDB returns a fresh database path and disables the delete delay.
func newDB(t *testing.T) string {
	t.Helper()
	t.Setenv("MAPTY_UI_DELETE_DELAY", "0s")
	return filepath.Join(t.TempDir(), "mapty.db")
}

func enablePosition(t *testing.T) {
	t.Helper()
	t.Setenv("MAPTY_POSITION_ENABLED", "true")
	t.Setenv("MAPTY_POSITION_LAT", "51.5")
	t.Setenv("MAPTY_POSITION_LNG", "-0.09")
}

func execute(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--db", db}, args...))
	err := cmd.Execute()
	return out.String(), err
}

type response[T any] struct {
	Status string    `json:"status"`
	Data   T         `json:"data"`
	Error  *CLIError `json:"error"`
}

func decode[T any](t *testing.T, out string) response[T] {
	t.Helper()
	var resp response[T]
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

func addRun(t *testing.T, db, distance string) workout.Workout {
	t.Helper()
	out, err := execute(t, db, "add", "running", "--format", "json",
		"--at", "51.51,-0.1", "--distance", distance, "--duration", "30", "--cadence", "170")
	require.NoError(t, err, out)
	return decode[WorkoutResult](t, out).Data.Workout
}

func TestAddRunning(t *testing.T) {
	db := newDB(t)

	out, err := execute(t, db, "add", "running", "--format", "json",
		"--at", "51.51,-0.1", "--distance", "5", "--duration", "30", "--cadence", "170")
	require.NoError(t, err, out)

	resp := decode[WorkoutResult](t, out)
	assert.Equal(t, "ok", resp.Status)
	w := resp.Data.Workout
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, workout.Running, w.Kind)
	assert.Equal(t, workout.Coords{Lat: 51.51, Lng: -0.1}, w.Coords)
	assert.InDelta(t, 6.0, w.PaceMinPerKm, 1e-9)
	assert.Equal(t, "6.0", resp.Data.Entry.Metric)
	assert.True(t, strings.HasPrefix(w.Description, "Running on "))

	// Persisted across sessions.
	out, err = execute(t, db, "list", "--format", "json")
	require.NoError(t, err)
	list := decode[ListResult](t, out).Data
	require.Len(t, list.Entries, 1)
	assert.Equal(t, w.ID, list.Entries[0].ID)
}

func TestAddCyclingText(t *testing.T) {
	db := newDB(t)

	out, err := execute(t, db, "add", "cycling",
		"--at", "51.5,-0.12", "--distance", "27", "--duration", "95", "--elevation", "-40")
	require.NoError(t, err, out)
	assert.Contains(t, out, controller.MsgAdded)
	assert.Contains(t, out, "Cycling on ")
	assert.Contains(t, out, "17.1 km/h")
	assert.Contains(t, out, "-40 m")
}

func TestAddRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative_distance", []string{"running", "--distance", "-5", "--duration", "30", "--cadence", "170"}},
		{"missing_cadence", []string{"running", "--distance", "5", "--duration", "30"}},
		{"zero_duration", []string{"cycling", "--distance", "20", "--duration", "0", "--elevation", "100"}},
		{"non_numeric", []string{"running", "--distance", "five", "--duration", "30", "--cadence", "170"}},
		{"unknown_kind", []string{"swimming", "--distance", "1", "--duration", "30"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newDB(t)
			args := append([]string{"add", "--at", "51.5,-0.1"}, tt.args...)
			out, err := execute(t, db, args...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, out, "Error [E001]")
			assert.Contains(t, out, controller.MsgInvalidInput)

			out, err = execute(t, db, "list")
			require.NoError(t, err)
			assert.Contains(t, out, "No workouts yet")
		})
	}
}

func TestAddBadCoordinates(t *testing.T) {
	db := newDB(t)

	for _, at := range []string{"51.5", "north,west", "91,0"} {
		_, err := execute(t, db, "add", "running", "--at", at,
			"--distance", "5", "--duration", "30", "--cadence", "170")
		require.Error(t, err, at)
		assert.Equal(t, ExitCommandError, GetExitCode(err), at)
	}
}

func TestListEmpty(t *testing.T) {
	out, err := execute(t, newDB(t), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No workouts yet")
}

func TestListSortedByDistance(t *testing.T) {
	db := newDB(t)
	long := addRun(t, db, "10")
	short := addRun(t, db, "3")
	mid := addRun(t, db, "5")

	out, err := execute(t, db, "list", "--format", "json")
	require.NoError(t, err)
	var ids []string
	for _, e := range decode[ListResult](t, out).Data.Entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{long.ID, short.ID, mid.ID}, ids, "creation order")

	for _, args := range [][]string{{"list", "--sort"}, {"sort"}} {
		out, err := execute(t, db, append(args, "--format", "json")...)
		require.NoError(t, err)
		data := decode[ListResult](t, out).Data
		assert.True(t, data.Sorted)
		ids = ids[:0]
		for _, e := range data.Entries {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, []string{short.ID, mid.ID, long.ID}, ids, "%v", args)
	}
}

func TestShow(t *testing.T) {
	db := newDB(t)
	w := addRun(t, db, "5")

	out, err := execute(t, db, "show", w.ID, "--format", "json")
	require.NoError(t, err)
	data := decode[WorkoutResult](t, out).Data
	assert.Equal(t, w.ID, data.Workout.ID)
	assert.True(t, data.Entry.Selected)

	out, err = execute(t, db, "show", w.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "* "+w.ID)
}

func TestShowUnknown(t *testing.T) {
	out, err := execute(t, newDB(t), "show", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E004]")
}

func TestDelete(t *testing.T) {
	db := newDB(t)
	first := addRun(t, db, "5")
	second := addRun(t, db, "8")

	out, err := execute(t, db, "delete", first.ID, "--format", "json")
	require.NoError(t, err, out)
	data := decode[MessageResult](t, out).Data
	assert.Equal(t, controller.MsgDeleted, data.Message)
	assert.Equal(t, 1, data.Remaining)

	out, err = execute(t, db, "list", "--format", "json")
	require.NoError(t, err)
	entries := decode[ListResult](t, out).Data.Entries
	require.Len(t, entries, 1)
	assert.Equal(t, second.ID, entries[0].ID)

	// A new workout never reuses an identity.
	third := addRun(t, db, "2")
	assert.NotEqual(t, first.ID, third.ID)
	assert.NotEqual(t, second.ID, third.ID)
}

func TestDeleteUnknown(t *testing.T) {
	out, err := execute(t, newDB(t), "delete", "missing")
	require.Error(t, err)
	assert.Contains(t, out, "Error [E004]")
}

func TestMarkersNeedPosition(t *testing.T) {
	db := newDB(t)
	addRun(t, db, "5")

	out, err := execute(t, db, "markers")
	require.Error(t, err)
	assert.Contains(t, out, "Error [E003]")
	assert.Contains(t, out, geo.FailureMessage)
}

func TestMarkersReplayedAtMapReady(t *testing.T) {
	db := newDB(t)
	addRun(t, db, "5")
	addRun(t, db, "7")
	enablePosition(t)

	out, err := execute(t, db, "markers", "--format", "json")
	require.NoError(t, err, out)
	data := decode[MarkersResult](t, out).Data
	assert.Equal(t, workout.Coords{Lat: 51.5, Lng: -0.09}, data.Center)
	assert.Equal(t, geo.DefaultZoom, data.Zoom)
	require.Len(t, data.Markers, 2)
	assert.Equal(t, "running-popup", data.Markers[0].Variant)
	assert.Contains(t, data.Markers[0].Popup, "Running on ")
}

func TestExport(t *testing.T) {
	db := newDB(t)
	w := addRun(t, db, "5")
	enablePosition(t)

	page := filepath.Join(t.TempDir(), "page.html")
	out, err := execute(t, db, "export", "--out", page, "--format", "json")
	require.NoError(t, err, out)
	data := decode[ExportResult](t, out).Data
	assert.Equal(t, 1, data.Entries)
	assert.Equal(t, 1, data.Markers)

	html, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Contains(t, string(html), "leaflet")
	assert.Contains(t, string(html), `data-id="`+w.ID+`"`)
}

func TestReset(t *testing.T) {
	db := newDB(t)
	addRun(t, db, "5")

	out, err := execute(t, db, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, controller.MsgCleared)

	out, err = execute(t, db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No workouts yet")
}

func TestExplicitConfigFile(t *testing.T) {
	db := newDB(t)

	_, err := execute(t, db, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	cfg := filepath.Join(t.TempDir(), "mapty.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("storage:\n  key: runs\n"), 0644))
	addRun(t, db, "5")

	// A different storage key sees an empty log in the same database.
	out, err := execute(t, db, "--config", cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No workouts yet")
}
