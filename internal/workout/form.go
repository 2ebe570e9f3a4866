package workout

import (
	"math"
	"strconv"
	"strings"
)

// Form holds the raw form field values as typed by the user.
type Form struct {
	Kind      string `json:"kind" yaml:"kind"`
	Distance  string `json:"distance" yaml:"distance"`
	Duration  string `json:"duration" yaml:"duration"`
	Cadence   string `json:"cadence,omitempty" yaml:"cadence,omitempty"`
	Elevation string `json:"elevation,omitempty" yaml:"elevation,omitempty"`
}

// ParseForm coerces the form fields into an Input at the given coordinates.
//
// Blank fields become 0 and non-numeric fields become NaN, so a blank
// required field fails the positive check and a blank elevation is 0. Only the
// field that belongs to the selected kind is read.
func ParseForm(f Form, at Coords) Input {
	in := Input{
		Kind:        Kind(strings.ToLower(strings.TrimSpace(f.Kind))),
		Coords:      at,
		DistanceKm:  number(f.Distance),
		DurationMin: number(f.Duration),
	}
	switch in.Kind {
	case Running:
		in.CadenceSPM = number(f.Cadence)
	case Cycling:
		in.ElevationGainM = number(f.Elevation)
	}
	return in
}

func number(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
