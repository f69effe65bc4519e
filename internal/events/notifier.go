package events

import (
	"context"

	"github.com/mcoot/rps-matchmaker/internal/model"
)

// Notifier receives matchmaking events addressed to a single player.
// Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, event model.Event)
}

// Ensure Broadcaster implements Notifier
var _ Notifier = (*Broadcaster)(nil)

// Nop discards every event
type Nop struct{}

// Notify does nothing
func (Nop) Notify(context.Context, model.Event) {}
