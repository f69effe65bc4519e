package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mcoot/rps-matchmaker/internal/dependencies/clock"
	"github.com/mcoot/rps-matchmaker/internal/model"
	"github.com/mcoot/rps-matchmaker/internal/services/activity"
	"github.com/mcoot/rps-matchmaker/internal/storage"
)

// Controller is the player registry: presence, status transitions and eviction
type Controller struct {
	storage  storage.Storage
	activity *activity.Tracker
	clock    clock.Clock
	logger   *slog.Logger
}

// NewController creates a new player Controller
func NewController(
	storage storage.Storage,
	activity *activity.Tracker,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		activity: activity,
		clock:    clock,
		logger:   logger,
	}
}

// Join registers a new player in the waiting state
func (c *Controller) Join(ctx context.Context, id model.PlayerID, name string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if strings.TrimSpace(string(id)) == "" || name == "" {
		return nil, fmt.Errorf("%w: id and name are required", model.ErrInvalidInput)
	}
	if model.IsReservedPlayerID(id) {
		return nil, fmt.Errorf("%w: %q is a reserved id", model.ErrInvalidInput, id)
	}

	now := c.clock.Now()
	player := &model.Player{
		ID:          id,
		DisplayName: name,
		Status:      model.StatusWaiting,
		JoinedAt:    now,
		UpdatedAt:   now,
	}

	if err := c.storage.CreatePlayer(ctx, player, now); err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("player_id", string(id)),
		slog.String("name", name),
	)

	return player, nil
}

// Get retrieves a player by ID
func (c *Controller) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return c.storage.GetPlayer(ctx, id)
}

// List returns a snapshot of all players, oldest first
func (c *Controller) List(ctx context.Context) ([]model.Player, error) {
	stored, err := c.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	players := make([]model.Player, len(stored))
	for i, p := range stored {
		players[i] = *p
	}
	sort.Slice(players, func(i, j int) bool {
		if !players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].JoinedAt.Before(players[j].JoinedAt)
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

// Invite marks the invitee as invited by the inviter
func (c *Controller) Invite(ctx context.Context, inviterID, inviteeID model.PlayerID) (*model.Player, error) {
	if inviterID == "" || inviteeID == "" {
		return nil, fmt.Errorf("%w: inviter_id and invitee_id are required", model.ErrInvalidInput)
	}
	if inviterID == inviteeID {
		return nil, fmt.Errorf("%w: a player cannot invite themselves", model.ErrInvalidInput)
	}

	inviter, err := c.storage.GetPlayer(ctx, inviterID)
	if err != nil {
		return nil, fmt.Errorf("inviter %s: %w", inviterID, err)
	}

	invitee, err := c.storage.UpdatePlayer(ctx, inviteeID, func(p *model.Player) error {
		if p.Status == model.StatusInGame {
			return model.ErrPlayerUnavailable
		}
		p.SetStatus(model.StatusInvited)
		p.InviterID = inviter.ID
		p.InviterName = inviter.DisplayName
		p.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player invited",
		slog.String("inviter_id", string(inviterID)),
		slog.String("invitee_id", string(inviteeID)),
	)

	return invitee, nil
}

// SetStatus forces a player's status
func (c *Controller) SetStatus(ctx context.Context, id model.PlayerID, status model.PlayerStatus) (*model.Player, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", model.ErrInvalidInput, status)
	}
	return c.storage.UpdatePlayer(ctx, id, func(p *model.Player) error {
		p.SetStatus(status)
		p.UpdatedAt = c.clock.Now()
		return nil
	})
}

// GetStatus returns a player's current status
func (c *Controller) GetStatus(ctx context.Context, id model.PlayerID) (model.PlayerStatus, error) {
	p, err := c.storage.GetPlayer(ctx, id)
	if err != nil {
		return "", err
	}
	return p.Status, nil
}

// ReservePair moves both players of a new game to in_game in one atomic step
// and returns their records as they were before, for Restore. Player2 must
// exist and not already be in a game, otherwise model.ErrPlayerUnavailable;
// a missing player1 is model.ErrPlayerNotFound.
func (c *Controller) ReservePair(ctx context.Context, player1ID, player2ID model.PlayerID) (prev1, prev2 *model.Player, err error) {
	now := c.clock.Now()
	_, err = c.storage.UpdatePlayers(ctx, []model.PlayerID{player1ID, player2ID}, func(players []*model.Player) error {
		p1, p2 := players[0], players[1]
		if p2 == nil {
			return fmt.Errorf("player %s: %w", player2ID, model.ErrPlayerUnavailable)
		}
		if p2.Status == model.StatusInGame {
			return fmt.Errorf("player %s: %w", player2ID, model.ErrPlayerUnavailable)
		}
		if p1 == nil {
			return fmt.Errorf("player %s: %w", player1ID, model.ErrPlayerNotFound)
		}

		prev1, prev2 = storage.ClonePlayer(p1), storage.ClonePlayer(p2)
		for _, p := range players {
			p.SetStatus(model.StatusInGame)
			p.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return prev1, prev2, nil
}

// AttachGame records the game a reserved player is playing
func (c *Controller) AttachGame(ctx context.Context, id model.PlayerID, gameID model.GameID) error {
	_, err := c.storage.UpdatePlayer(ctx, id, func(p *model.Player) error {
		if p.Status != model.StatusInGame {
			return nil
		}
		g := gameID
		p.CurrentGame = &g
		return nil
	})
	return err
}

// Restore undoes a ReservePair, provided nothing else has touched the player since
func (c *Controller) Restore(ctx context.Context, previous *model.Player) error {
	_, err := c.storage.UpdatePlayer(ctx, previous.ID, func(p *model.Player) error {
		if p.Status != model.StatusInGame || p.CurrentGame != nil {
			return nil
		}
		p.Status = previous.Status
		p.InviterID = previous.InviterID
		p.InviterName = previous.InviterName
		p.CurrentGame = previous.CurrentGame
		p.UpdatedAt = c.clock.Now()
		return nil
	})
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil
	}
	return err
}

// EvictStale removes every player whose last activity is more than
// threshold before now. Each removal re-checks freshness, so a player
// refreshed mid-sweep survives.
func (c *Controller) EvictStale(ctx context.Context, now time.Time, threshold time.Duration) ([]model.PlayerID, error) {
	candidates, err := c.activity.Stale(ctx, now, threshold)
	if err != nil {
		return nil, err
	}

	cutoff := activity.Cutoff(now, threshold)
	var evicted []model.PlayerID
	var errs []error
	for _, id := range candidates {
		idle, idleErr := c.activity.IdleFor(ctx, id)
		removed, err := c.storage.DeletePlayerIfStale(ctx, id, cutoff)
		if err != nil {
			errs = append(errs, fmt.Errorf("evict %s: %w", id, err))
			continue
		}
		if !removed {
			continue
		}
		evicted = append(evicted, id)
		if idleErr == nil {
			c.logger.Debug("player evicted",
				slog.String("player_id", string(id)),
				slog.Duration("idle", idle),
			)
		}
	}

	if len(evicted) > 0 {
		c.logger.Info("evicted inactive players",
			slog.Int("count", len(evicted)),
			slog.Duration("threshold", threshold),
		)
	}

	return evicted, errors.Join(errs...)
}
