package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/rps-matchmaker/internal/dependencies/idgen"
)

// MockIDGen is a mock implementation of IDGen for testing
type MockIDGen struct {
	mu sync.Mutex

	// IDs is a queue of results to return from NewID
	IDs   []string
	index int

	// fallback counter used once the queue is drained
	generated int
}

// Ensure MockIDGen implements IDGen
var _ idgen.IDGen = (*MockIDGen)(nil)

// NewMockIDGen creates a new MockIDGen
func NewMockIDGen() *MockIDGen {
	return &MockIDGen{}
}

// NewID returns the next queued ID, or a sequential "id-N" once the queue is empty
func (g *MockIDGen) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.index < len(g.IDs) {
		id := g.IDs[g.index]
		g.index++
		return id
	}
	g.generated++
	return fmt.Sprintf("id-%d", g.generated)
}

// Queue adds values to the NewID result queue
func (g *MockIDGen) Queue(ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.IDs = append(g.IDs, ids...)
}

// Reset clears all queued results
func (g *MockIDGen) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.IDs = nil
	g.index = 0
	g.generated = 0
}
