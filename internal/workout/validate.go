package workout

import (
	"errors"
	"fmt"
	"math"
)

// ValidationError reports a required field that is missing, non-finite or
// out of range. Create flows recover from it locally.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "kind" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// IsValidationError returns true if err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks in against the creation constraints.
//
// Distance and duration must be finite and positive for both kinds. Running
// cadence must be finite and positive. Cycling elevation gain must only be
// finite: zero and negative gains are accepted.
func Validate(in Input) error {
	if !in.Kind.Valid() {
		return &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown workout kind %q", in.Kind)}
	}
	if err := positive("distance", in.DistanceKm); err != nil {
		return err
	}
	if err := positive("duration", in.DurationMin); err != nil {
		return err
	}

	switch in.Kind {
	case Running:
		return positive("cadence", in.CadenceSPM)
	case Cycling:
		return finite("elevation", in.ElevationGainM)
	}
	return nil
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Value: v, Reason: "must be a finite number"}
	}
	return nil
}

func positive(field string, v float64) error {
	if err := finite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return &ValidationError{Field: field, Value: v, Reason: "must be positive"}
	}
	return nil
}
