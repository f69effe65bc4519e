package activity

import (
	"context"
	"time"

	"github.com/mcoot/rps-matchmaker/internal/dependencies/clock"
	"github.com/mcoot/rps-matchmaker/internal/model"
	"github.com/mcoot/rps-matchmaker/internal/storage"
)

// DefaultThreshold is how long a player may stay silent before eviction
const DefaultThreshold = 20 * time.Second

// Tracker records when each player was last seen
type Tracker struct {
	storage storage.Storage
	clock   clock.Clock
}

// New creates a new activity Tracker
func New(storage storage.Storage, clock clock.Clock) *Tracker {
	return &Tracker{
		storage: storage,
		clock:   clock,
	}
}

// Touch marks the player as seen now. Returns model.ErrPlayerNotFound for
// players that are not registered; no record is created for them.
func (t *Tracker) Touch(ctx context.Context, id model.PlayerID) error {
	return t.storage.TouchActivity(ctx, id, t.clock.Now())
}

// LastSeen returns the player's last activity time
func (t *Tracker) LastSeen(ctx context.Context, id model.PlayerID) (time.Time, error) {
	return t.storage.GetActivity(ctx, id)
}

// IdleFor returns how long the player has been silent
func (t *Tracker) IdleFor(ctx context.Context, id model.PlayerID) (time.Duration, error) {
	last, err := t.LastSeen(ctx, id)
	if err != nil {
		return 0, err
	}
	return t.clock.Now().Sub(last), nil
}

// Stale lists players whose last activity is more than threshold before now
func (t *Tracker) Stale(ctx context.Context, now time.Time, threshold time.Duration) ([]model.PlayerID, error) {
	return t.storage.StaleActivity(ctx, Cutoff(now, threshold))
}

// Cutoff returns the instant before which activity counts as stale.
// A player is stale iff now - last > threshold, i.e. last < now - threshold.
func Cutoff(now time.Time, threshold time.Duration) time.Time {
	return now.Add(-threshold)
}
