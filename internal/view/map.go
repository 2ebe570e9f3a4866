package view

import (
	"errors"
	"sync"

	"github.com/roach88/mapty/internal/render"
	"github.com/roach88/mapty/internal/workout"
)

// ErrOpenFailed is returned by an Opener configured to fail.
var ErrOpenFailed = errors.New("map could not be created")

// Marker is one pin placed on a Map.
type Marker struct {
	ID    render.MarkerID `json:"id"`
	At    workout.Coords  `json:"at"`
	Popup render.Popup    `json:"popup"`
}

// View is one recorded SetView call.
type View struct {
	Center workout.Coords    `json:"center"`
	Zoom   int               `json:"zoom"`
	Pan    render.PanOptions `json:"pan"`
}

// Map is an in-memory render.Map.
type Map struct {
	mu      sync.Mutex
	views   []View
	markers []Marker
	onClick func(workout.Coords)
	closed  bool
}

// SetView records a recenter.
func (m *Map) SetView(center workout.Coords, zoom int, pan render.PanOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views = append(m.views, View{Center: center, Zoom: zoom, Pan: pan})
}

// AddMarker places a marker and returns its handle.
func (m *Map) AddMarker(at workout.Coords) render.MarkerID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := render.MarkerID(len(m.markers) + 1)
	m.markers = append(m.markers, Marker{ID: id, At: at})
	return id
}

// BindPopup attaches a popup to a placed marker. Unknown handles are ignored.
func (m *Map) BindPopup(id render.MarkerID, p render.Popup) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := int(id) - 1
	if i >= 0 && i < len(m.markers) {
		m.markers[i].Popup = p
	}
}

// OnClick registers the click handler, replacing any previous one.
func (m *Map) OnClick(fn func(workout.Coords)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClick = fn
}

// Close discards the map. Later clicks are not delivered.
func (m *Map) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.onClick = nil
}

// Click simulates a user click at c.
// Returns false if the map is closed or has no click handler.
func (m *Map) Click(c workout.Coords) bool {
	m.mu.Lock()
	fn := m.onClick
	closed := m.closed
	m.mu.Unlock()

	if closed || fn == nil {
		return false
	}
	fn(c)
	return true
}

// Markers returns the placed markers in placement order.
func (m *Map) Markers() []Marker {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Marker, len(m.markers))
	copy(out, m.markers)
	return out
}

// Views returns every recorded SetView call.
func (m *Map) Views() []View {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]View, len(m.views))
	copy(out, m.views)
	return out
}

// LastView returns the most recent SetView call.
func (m *Map) LastView() (View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.views) == 0 {
		return View{}, false
	}
	return m.views[len(m.views)-1], true
}

// Closed reports whether Close has been called.
func (m *Map) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Opener is a render.MapOpener that creates in-memory Maps.
type Opener struct {
	// Fail makes Open return ErrOpenFailed.
	Fail bool

	mu     sync.Mutex
	opened []*Map
}

// Open creates a new Map centered at center.
func (o *Opener) Open(center workout.Coords, zoom int) (render.Map, error) {
	if o.Fail {
		return nil, ErrOpenFailed
	}
	m := &Map{}
	o.mu.Lock()
	o.opened = append(o.opened, m)
	o.mu.Unlock()
	return m, nil
}

// Current returns the most recently opened map, or nil.
func (o *Opener) Current() *Map {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.opened) == 0 {
		return nil
	}
	return o.opened[len(o.opened)-1]
}

// Opened returns the number of maps created so far.
func (o *Opener) Opened() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.opened)
}
