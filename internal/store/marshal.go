package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/mapty/internal/workout"
)

// SaveWorkouts writes the canonical collection under the store's key.
// The slice order is preserved; pass the collection in creation order.
func (s *Store) SaveWorkouts(ctx context.Context, ws []workout.Workout) error {
	data, err := marshalWorkouts(ws)
	if err != nil {
		return &WriteError{Key: s.key, Err: err}
	}
	if err := s.Put(ctx, s.key, data); err != nil {
		return &WriteError{Key: s.key, Err: err}
	}
	slog.Debug("workouts saved", "key", s.key, "count", len(ws))
	return nil
}

// LoadWorkouts reads and rehydrates the stored collection.
//
// An absent key returns an empty slice. A malformed value returns an empty
// slice and a *ReadError. Records that fail rehydration are skipped and
// logged; the rest load normally.
func (s *Store) LoadWorkouts(ctx context.Context) ([]workout.Workout, error) {
	raw, ok, err := s.Get(ctx, s.key)
	if err != nil {
		return []workout.Workout{}, &ReadError{Key: s.key, Err: err}
	}
	if !ok {
		return []workout.Workout{}, nil
	}

	stored, err := unmarshalWorkouts(raw)
	if err != nil {
		return []workout.Workout{}, &ReadError{Key: s.key, Err: err}
	}

	out := make([]workout.Workout, 0, len(stored))
	for _, sw := range stored {
		w, err := workout.Rehydrate(sw)
		if err != nil {
			slog.Warn("skipping stored workout", "key", s.key, "id", sw.ID, "error", err)
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

// ClearWorkouts removes the stored collection.
func (s *Store) ClearWorkouts(ctx context.Context) error {
	if err := s.Delete(ctx, s.key); err != nil {
		return &WriteError{Key: s.key, Err: err}
	}
	return nil
}

// marshalWorkouts encodes ws as a JSON array without HTML escaping, so
// descriptions are stored as typed.
func marshalWorkouts(ws []workout.Workout) (string, error) {
	if ws == nil {
		ws = []workout.Workout{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ws); err != nil {
		return "", fmt.Errorf("marshal workouts: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

func unmarshalWorkouts(data string) ([]workout.Workout, error) {
	if strings.TrimSpace(data) == "" || data == "null" {
		return []workout.Workout{}, nil
	}
	var ws []workout.Workout
	if err := json.Unmarshal([]byte(data), &ws); err != nil {
		return nil, fmt.Errorf("unmarshal workouts: %w", err)
	}
	return ws, nil
}
