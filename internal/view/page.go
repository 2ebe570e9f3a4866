package view

import (
	"fmt"
	"html/template"
	"io"

	"github.com/roach88/mapty/internal/geo"
	"github.com/roach88/mapty/internal/render"
	"github.com/roach88/mapty/internal/workout"
)

// Page is a static snapshot of the list and map.
type Page struct {
	Title   string
	Center  workout.Coords
	Zoom    int
	Entries []render.Entry
	Markers []Marker
}

type pageMarker struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Content   string  `json:"content"`
	ClassName string  `json:"className"`
	MaxWidth  int     `json:"maxWidth"`
	MinWidth  int     `json:"minWidth"`
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
</head>
<body>
<div class="sidebar">
<ul class="workouts">
{{- if not .Entries}}
<li class="workouts__empty">No workouts yet</li>
{{- end}}
{{- range .Entries}}
{{.HTML}}
{{- end}}
</ul>
</div>
<div id="map"></div>
<script>
const map = L.map("map").setView([{{.Lat}}, {{.Lng}}], {{.Zoom}});
L.tileLayer("https://{s}.tile.openstreetmap.fr/hot/{z}/{x}/{y}.png").addTo(map);
for (const m of {{.Markers}}) {
  L.marker([m.lat, m.lng]).addTo(map).bindPopup(L.popup({
    maxWidth: m.maxWidth, minWidth: m.minWidth,
    autoClose: false, closeOnClick: false, className: m.className,
  })).setPopupContent(m.content).openPopup();
}
</script>
</body>
</html>
`))

// WritePage renders p as a standalone HTML document.
func WritePage(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = "mapty"
	}
	if p.Zoom <= 0 {
		p.Zoom = geo.DefaultZoom
	}

	markers := make([]pageMarker, 0, len(p.Markers))
	for _, m := range p.Markers {
		markers = append(markers, pageMarker{
			Lat:       m.At.Lat,
			Lng:       m.At.Lng,
			Content:   m.Popup.Content,
			ClassName: m.Popup.ClassName,
			MaxWidth:  m.Popup.MaxWidth,
			MinWidth:  m.Popup.MinWidth,
		})
	}

	data := struct {
		Title    string
		Lat, Lng float64
		Zoom     int
		Entries  []render.Entry
		Markers  []pageMarker
	}{p.Title, p.Center.Lat, p.Center.Lng, p.Zoom, p.Entries, markers}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
