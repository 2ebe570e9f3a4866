package render

import (
	"bytes"
	"html/template"
	"strconv"

	"github.com/roach88/mapty/internal/workout"
)

// Entry is one rendered list item.
type Entry struct {
	ID             string        `json:"id"`
	Kind           workout.Kind  `json:"kind"`
	Title          string        `json:"title"`
	Glyph          string        `json:"glyph"`
	Distance       string        `json:"distance"`
	Duration       string        `json:"duration"`
	Metric         string        `json:"metric"`
	MetricUnit     string        `json:"metric_unit"`
	SecondaryGlyph string        `json:"-"`
	Secondary      string        `json:"secondary"`
	SecondaryUnit  string        `json:"secondary_unit"`
	Selected       bool          `json:"selected,omitempty"`
	HTML           template.HTML `json:"-"`
}

var entryTemplate = template.Must(template.New("entry").Parse(
	`<li class="workout workout--{{.Kind}}{{if .Selected}} workout--selected{{end}}" data-id="{{.ID}}">
  <button class="description__close--btn">x</button>
  <h2 class="workout__title">{{.Title}}</h2>
  <div class="workout__details">
    <span class="workout__icon">{{.Glyph}}</span>
    <span class="workout__value">{{.Distance}}</span>
    <span class="workout__unit">km</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">⏱</span>
    <span class="workout__value">{{.Duration}}</span>
    <span class="workout__unit">min</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">⚡️</span>
    <span class="workout__value">{{.Metric}}</span>
    <span class="workout__unit">{{.MetricUnit}}</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">{{.SecondaryGlyph}}</span>
    <span class="workout__value">{{.Secondary}}</span>
    <span class="workout__unit">{{.SecondaryUnit}}</span>
  </div>
</li>`))

// EntryFor builds the list entry for w, including its HTML.
// Derived metrics are shown with one decimal; user values as typed.
func EntryFor(w workout.Workout, selected bool) (Entry, error) {
	metric, metricUnit := w.Metric()
	secondary, secondaryUnit := w.Secondary()

	e := Entry{
		ID:            w.ID,
		Kind:          w.Kind,
		Title:         w.Description,
		Glyph:         w.Kind.Glyph(),
		Distance:      plain(w.DistanceKm),
		Duration:      plain(w.DurationMin),
		Metric:        strconv.FormatFloat(metric, 'f', 1, 64),
		MetricUnit:    metricUnit,
		Secondary:     plain(secondary),
		SecondaryUnit: secondaryUnit,
		Selected:      selected,
	}
	if w.Kind == workout.Running {
		e.SecondaryGlyph = "🦶🏼"
	} else {
		e.SecondaryGlyph = "⛰"
	}
	return e.withHTML()
}

func (e Entry) withHTML() (Entry, error) {
	var buf bytes.Buffer
	if err := entryTemplate.Execute(&buf, e); err != nil {
		return Entry{}, err
	}
	e.HTML = template.HTML(buf.String())
	return e, nil
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
