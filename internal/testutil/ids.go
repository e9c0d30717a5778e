package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates predictable record identifiers for tests.
//
// Production code uses random UUIDs; substituting this generator makes
// every record ID stable ("id-0001", "id-0002", ...) so tests can
// reference records created earlier in the scenario and golden files
// stay deterministic.
//
// Thread-safety: safe for concurrent use.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator with the given prefix.
// An empty prefix defaults to "id".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "id"
	}
	return &SequentialIDs{prefix: prefix}
}

// Next returns the next identifier in the sequence.
func (g *SequentialIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
