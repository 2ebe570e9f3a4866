package workout

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind discriminates the workout variants.
type Kind string

const (
	// Running workouts carry cadence and derive pace.
	Running Kind = "running"
	// Cycling workouts carry elevation gain and derive speed.
	Cycling Kind = "cycling"
)

// Kinds lists the supported variants in form order.
var Kinds = []Kind{Running, Cycling}

// Valid reports whether k is one of the supported variants.
func (k Kind) Valid() bool {
	return k == Running || k == Cycling
}

// Title returns the capitalized kind name used in descriptions.
func (k Kind) Title() string {
	return cases.Title(language.English).String(string(k))
}

// Glyph returns the icon shown next to a workout of this kind.
func (k Kind) Glyph() string {
	if k == Running {
		return "🏃‍♂️"
	}
	return "🚴‍♀️"
}

// Coords is a (latitude, longitude) pair.
// It serializes as a two-element JSON array: [lat, lng].
type Coords struct {
	Lat float64
	Lng float64
}

// MarshalJSON encodes the pair as [lat, lng].
func (c Coords) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lng})
}

// UnmarshalJSON decodes a [lat, lng] array.
func (c *Coords) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("coords: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("coords: expected [lat, lng], got %d values", len(pair))
	}
	c.Lat, c.Lng = pair[0], pair[1]
	return nil
}

// String formats the pair as "lat,lng".
func (c Coords) String() string {
	return fmt.Sprintf("%g,%g", c.Lat, c.Lng)
}

// Workout is one logged exercise session.
//
// Variant-specific fields are zero for the other kind. PaceMinPerKm,
// SpeedKmPerH and Description are derived; see New and Rehydrate.
type Workout struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"date"`
	Kind        Kind      `json:"type"`
	Coords      Coords    `json:"coords"`
	DistanceKm  float64   `json:"distance"`
	DurationMin float64   `json:"duration"`
	Description string    `json:"description"`

	// Running
	CadenceSPM   float64 `json:"cadence,omitempty"`
	PaceMinPerKm float64 `json:"pace,omitempty"`

	// Cycling
	ElevationGainM float64 `json:"elevationGain,omitempty"`
	SpeedKmPerH    float64 `json:"speed,omitempty"`
}

// Input is the user-supplied part of a workout.
type Input struct {
	Kind           Kind
	Coords         Coords
	DistanceKm     float64
	DurationMin    float64
	CadenceSPM     float64
	ElevationGainM float64
}

// New validates in and builds a fully derived workout.
func New(in Input, id string, createdAt time.Time) (Workout, error) {
	if err := Validate(in); err != nil {
		return Workout{}, err
	}
	if id == "" {
		return Workout{}, fmt.Errorf("workout identity is required")
	}

	w := Workout{
		ID:          id,
		CreatedAt:   createdAt,
		Kind:        in.Kind,
		Coords:      in.Coords,
		DistanceKm:  in.DistanceKm,
		DurationMin: in.DurationMin,
	}
	switch in.Kind {
	case Running:
		w.CadenceSPM = in.CadenceSPM
	case Cycling:
		w.ElevationGainM = in.ElevationGainM
	}
	w.derive()
	return w, nil
}

// Rehydrate rebuilds a workout read back from storage.
//
// ID and CreatedAt are kept as stored. Everything else goes through New, so
// derived fields are recomputed and invalid stored data is rejected.
func Rehydrate(stored Workout) (Workout, error) {
	w, err := New(stored.Input(), stored.ID, stored.CreatedAt)
	if err != nil {
		return Workout{}, fmt.Errorf("rehydrate workout %q: %w", stored.ID, err)
	}
	return w, nil
}

// Input returns the user-supplied fields of w.
func (w Workout) Input() Input {
	return Input{
		Kind:           w.Kind,
		Coords:         w.Coords,
		DistanceKm:     w.DistanceKm,
		DurationMin:    w.DurationMin,
		CadenceSPM:     w.CadenceSPM,
		ElevationGainM: w.ElevationGainM,
	}
}

// Metric returns the kind-specific derived metric and its unit.
func (w Workout) Metric() (float64, string) {
	if w.Kind == Running {
		return w.PaceMinPerKm, "min/km"
	}
	return w.SpeedKmPerH, "km/h"
}

// Secondary returns the kind-specific user-supplied metric and its unit.
func (w Workout) Secondary() (float64, string) {
	if w.Kind == Running {
		return w.CadenceSPM, "spm"
	}
	return w.ElevationGainM, "m"
}

func (w *Workout) derive() {
	w.PaceMinPerKm, w.SpeedKmPerH = 0, 0
	switch w.Kind {
	case Running:
		w.PaceMinPerKm = w.DurationMin / w.DistanceKm
	case Cycling:
		w.SpeedKmPerH = w.DistanceKm / (w.DurationMin / 60)
	}
	w.Description = Describe(w.Kind, w.CreatedAt)
}

// Describe returns "<Kind> on <Month> <Day>", e.g. "Running on October 14".
func Describe(k Kind, at time.Time) string {
	return fmt.Sprintf("%s on %s %d", k.Title(), at.Month(), at.Day())
}
