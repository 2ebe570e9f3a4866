// Package workout defines the logged exercise session and its two variants.
//
// A Workout is pure data. Derived metrics (pace for running, speed for
// cycling) and the human-readable description are computed once by New and
// stored on the value. Records read back from storage carry no behavior, so
// Rehydrate runs the same validation and derivation path again instead of
// trusting the stored derived fields.
//
// Identity is assigned by an IDGenerator at creation and never reassigned.
// It survives a storage round-trip as a plain string.
package workout
