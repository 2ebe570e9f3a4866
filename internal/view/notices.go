package view

import (
	"strings"
	"sync"

	"github.com/roach88/mapty/internal/controller"
)

// Notices collects notifications in arrival order.
type Notices struct {
	mu  sync.Mutex
	all []controller.Notice

	// Sink, if set, is also called for each notice.
	Sink func(controller.Notice)
}

// Notify records n.
func (n *Notices) Notify(notice controller.Notice) {
	n.mu.Lock()
	n.all = append(n.all, notice)
	sink := n.Sink
	n.mu.Unlock()

	if sink != nil {
		sink(notice)
	}
}

// All returns every recorded notice.
func (n *Notices) All() []controller.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]controller.Notice, len(n.all))
	copy(out, n.all)
	return out
}

// Count returns the number of notices containing substr.
func (n *Notices) Count(substr string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, notice := range n.all {
		if strings.Contains(notice.Message, substr) {
			count++
		}
	}
	return count
}

// Contains reports whether any notice contains substr.
func (n *Notices) Contains(substr string) bool {
	return n.Count(substr) > 0
}
