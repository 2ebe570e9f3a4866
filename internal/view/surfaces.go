package view

import (
	"github.com/roach88/mapty/internal/controller"
	"github.com/roach88/mapty/internal/geo"
)

// Surfaces bundles one headless instance of every rendered surface.
type Surfaces struct {
	Maps    *Opener
	List    *List
	Form    *Form
	Notices *Notices
}

// NewSurfaces creates empty surfaces.
func NewSurfaces() *Surfaces {
	return &Surfaces{
		Maps:    &Opener{},
		List:    &List{},
		Form:    &Form{},
		Notices: &Notices{},
	}
}

// Deps wires the surfaces into controller dependencies.
func (s *Surfaces) Deps(p controller.Persister, l geo.Locator) controller.Deps {
	return controller.Deps{
		Persister: p,
		Locator:   l,
		Maps:      s.Maps,
		List:      s.List,
		Form:      s.Form,
		Notifier:  s.Notices,
	}
}

// Map returns the current map, or nil before MapReady.
func (s *Surfaces) Map() *Map {
	return s.Maps.Current()
}

// LiveMarkers returns the markers on the current map.
func (s *Surfaces) LiveMarkers() []Marker {
	m := s.Map()
	if m == nil || m.Closed() {
		return nil
	}
	return m.Markers()
}
