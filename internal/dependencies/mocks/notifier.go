package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/rps-matchmaker/internal/events"
	"github.com/mcoot/rps-matchmaker/internal/model"
)

// MockNotifier records every event it is given
type MockNotifier struct {
	mu     sync.Mutex
	Events []model.Event
}

// Ensure MockNotifier implements Notifier
var _ events.Notifier = (*MockNotifier)(nil)

// NewMockNotifier creates an empty MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify records the event
func (n *MockNotifier) Notify(ctx context.Context, event model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Events = append(n.Events, event)
}

// For returns the events addressed to a player, in order
func (n *MockNotifier) For(id model.PlayerID) []model.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []model.Event
	for _, e := range n.Events {
		if e.PlayerID == id {
			out = append(out, e)
		}
	}
	return out
}

// Types returns the types of all recorded events, in order
func (n *MockNotifier) Types() []model.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.EventType, len(n.Events))
	for i, e := range n.Events {
		out[i] = e.Type
	}
	return out
}

// Reset clears all recorded events
func (n *MockNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Events = nil
}
