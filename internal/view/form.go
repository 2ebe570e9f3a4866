package view

import (
	"sync"

	"github.com/roach88/mapty/internal/workout"
)

// Form is an in-memory controller.Form.
type Form struct {
	mu      sync.Mutex
	visible bool
	kind    workout.Kind
	resets  int
}

// Reveal shows the form.
func (f *Form) Reveal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = true
}

// Hide hides the form.
func (f *Form) Hide() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = false
}

// Reset clears the field values.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
}

// ShowKindFields shows the row for k (cadence or elevation).
func (f *Form) ShowKindFields(k workout.Kind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kind = k
}

// Visible reports whether the form is shown.
func (f *Form) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// Kind returns the kind whose row is shown. Running until changed.
func (f *Form) Kind() workout.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.kind == "" {
		return workout.Running
	}
	return f.kind
}

// Resets returns how many times the form was cleared.
func (f *Form) Resets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resets
}
