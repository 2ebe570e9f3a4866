package view

import (
	"sort"
	"sync"

	"github.com/roach88/mapty/internal/render"
)

// List is an in-memory render.ListView.
type List struct {
	mu       sync.Mutex
	entries  []render.Entry
	empty    bool
	selected string
	removing map[string]bool
	renders  int
}

// Replace swaps every entry. Removal marks do not survive a re-render.
func (l *List) Replace(entries []render.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make([]render.Entry, len(entries))
	copy(l.entries, entries)
	l.removing = nil
	l.renders++

	l.selected = ""
	for _, e := range entries {
		if e.Selected {
			l.selected = e.ID
		}
	}
}

// SetEmpty toggles the empty-state indicator.
func (l *List) SetEmpty(empty bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.empty = empty
}

// MarkSelected selects one entry and deselects the rest.
func (l *List) MarkSelected(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = ""
	for i := range l.entries {
		l.entries[i].Selected = l.entries[i].ID == id
		if l.entries[i].Selected {
			l.selected = id
		}
	}
}

// MarkRemoving flags an entry for its exit animation.
func (l *List) MarkRemoving(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.removing == nil {
		l.removing = make(map[string]bool)
	}
	l.removing[id] = true
}

// Entries returns the rendered entries in display order.
func (l *List) Entries() []render.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]render.Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// IDs returns the entry identities in display order.
func (l *List) IDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, len(l.entries))
	for i, e := range l.entries {
		ids[i] = e.ID
	}
	return ids
}

// Empty reports whether the empty-state indicator is shown.
func (l *List) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.empty
}

// Selected returns the selected identity, or "".
func (l *List) Selected() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected
}

// Removing returns the identities marked for removal, sorted.
func (l *List) Removing() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, 0, len(l.removing))
	for id := range l.removing {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Renders returns how many times the list was re-rendered.
func (l *List) Renders() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.renders
}
