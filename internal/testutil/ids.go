package testutil

import (
	"fmt"
	"sync"
)

// FixedIDs generates predictable identities for tests.
//
// Without a fixed list it returns "<prefix>-1", "<prefix>-2", ... in order.
// With a list it returns the listed values first, then falls back to the
// counter.
//
// Thread-safety: Generate is safe for concurrent use.
type FixedIDs struct {
	Prefix string
	IDs    []string

	mu      sync.Mutex
	counter int
}

// NewFixedIDs creates a generator that yields ids in order.
func NewFixedIDs(ids ...string) *FixedIDs {
	return &FixedIDs{Prefix: "w", IDs: ids}
}

// Generate returns the next identity.
func (g *FixedIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.counter
	g.counter++
	if i < len(g.IDs) {
		return g.IDs[i]
	}
	prefix := g.Prefix
	if prefix == "" {
		prefix = "w"
	}
	return fmt.Sprintf("%s-%d", prefix, i-len(g.IDs)+1)
}

// Reset restarts the sequence.
func (g *FixedIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter = 0
}
