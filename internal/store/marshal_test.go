package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mapty/internal/workout"
)

func TestLoadWorkouts_AbsentIsEmpty(t *testing.T) {
	s := createTestStore(t)

	ws, err := s.LoadWorkouts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ws)
	assert.NotNil(t, ws)
}

func TestSaveLoadWorkouts_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun(t, "run-1", 5)
	ride := createTestRide(t, "ride-1", 20, 400)
	flat := createTestRide(t, "ride-2", 12, 0)

	require.NoError(t, s.SaveWorkouts(ctx, []workout.Workout{run, ride, flat}))

	got, err := s.LoadWorkouts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"run-1", "ride-1", "ride-2"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, run.Coords, got[0].Coords)
	assert.Equal(t, 150.0, got[0].CadenceSPM)
	assert.Equal(t, 6.0, got[0].PaceMinPerKm)
	assert.Equal(t, 400.0, got[1].ElevationGainM)
	assert.Equal(t, 20.0, got[1].SpeedKmPerH)
	assert.Equal(t, 0.0, got[2].ElevationGainM)
	assert.Equal(t, run.Description, got[0].Description)
}

func TestSaveWorkouts_StoresDerivedFieldsAsPlainValues(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveWorkouts(ctx, []workout.Workout{createTestRun(t, "r", 5)}))

	raw, ok, err := s.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(raw, "["))
	assert.Contains(t, raw, `"pace":6`)
	assert.Contains(t, raw, `"description":"Running on March 3"`)
	assert.Contains(t, raw, `"id":"r"`)
}

func TestLoadWorkouts_MalformedIsEmptyWithReadError(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, DefaultKey, "{not json"))

	ws, err := s.LoadWorkouts(ctx)
	assert.Empty(t, ws)
	require.Error(t, err)
	assert.True(t, IsReadError(err))
	assert.False(t, IsWriteError(err))
}

func TestLoadWorkouts_NullIsEmpty(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, DefaultKey, "null"))

	ws, err := s.LoadWorkouts(ctx)
	require.NoError(t, err)
	assert.Empty(t, ws)
}

func TestLoadWorkouts_SkipsInvalidRecords(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	raw := `[
		{"id":"good","date":"2026-03-03T07:00:00Z","type":"running","coords":[1,2],"distance":5,"duration":30,"cadence":150},
		{"id":"bad","date":"2026-03-03T07:00:00Z","type":"running","coords":[1,2],"distance":-5,"duration":30,"cadence":150},
		{"id":"alien","date":"2026-03-03T07:00:00Z","type":"rowing","coords":[1,2],"distance":5,"duration":30}
	]`
	require.NoError(t, s.Put(ctx, DefaultKey, raw))

	ws, err := s.LoadWorkouts(ctx)
	require.NoError(t, err)
	require.Len(t, ws, 1)
	assert.Equal(t, "good", ws[0].ID)
	assert.Equal(t, 6.0, ws[0].PaceMinPerKm, "derived pace recomputed although absent in storage")
	assert.Equal(t, "Running on March 3", ws[0].Description)
}

func TestClearWorkouts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveWorkouts(ctx, []workout.Workout{createTestRun(t, "r", 5)}))

	require.NoError(t, s.ClearWorkouts(ctx))

	ws, err := s.LoadWorkouts(ctx)
	require.NoError(t, err)
	assert.Empty(t, ws)
}

func TestSaveWorkouts_FailureIsWriteError(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.Close())

	err := s.SaveWorkouts(context.Background(), []workout.Workout{createTestRun(t, "r", 5)})
	require.Error(t, err)
	assert.True(t, IsWriteError(err))

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, DefaultKey, we.Key)
}

func TestMarshalWorkouts_NoHTMLEscaping(t *testing.T) {
	data, err := marshalWorkouts([]workout.Workout{{ID: "<a&b>", Kind: workout.Running}})
	require.NoError(t, err)
	assert.Contains(t, data, `"id":"<a&b>"`)

	empty, err := marshalWorkouts(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}
