package storage

import (
	"context"
	"time"

	"github.com/mcoot/rps-matchmaker/internal/model"
)

// PlayerUpdateFunc mutates a player in place. Returning an error aborts the
// update and nothing is written.
type PlayerUpdateFunc func(player *model.Player) error

// PlayersUpdateFunc mutates several players in place, in the order they were
// requested. A requested player that does not exist is passed as nil and is
// not written. Returning an error aborts the update and nothing is written.
type PlayersUpdateFunc func(players []*model.Player) error

// GameUpdateFunc mutates a game in place. Returning an error aborts the
// update and nothing is written.
type GameUpdateFunc func(game *model.Game) error

// Storage defines the interface for matchmaking state.
//
// Implementations must make each Update* call atomic with respect to other
// calls touching the same key, and must hand out copies so callers never
// share mutable state with the store.
type Storage interface {
	// Player operations
	CreatePlayer(ctx context.Context, player *model.Player, seenAt time.Time) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	UpdatePlayer(ctx context.Context, id model.PlayerID, fn PlayerUpdateFunc) (*model.Player, error)
	// UpdatePlayers applies fn to several distinct players as one atomic step
	UpdatePlayers(ctx context.Context, ids []model.PlayerID, fn PlayersUpdateFunc) ([]*model.Player, error)
	// DeletePlayerIfStale removes the player and its activity record only if
	// the last activity is strictly before cutoff. Reports whether a player was removed.
	DeletePlayerIfStale(ctx context.Context, id model.PlayerID, cutoff time.Time) (bool, error)

	// Activity operations
	TouchActivity(ctx context.Context, id model.PlayerID, at time.Time) error
	GetActivity(ctx context.Context, id model.PlayerID) (time.Time, error)
	StaleActivity(ctx context.Context, cutoff time.Time) ([]model.PlayerID, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	UpdateGame(ctx context.Context, id model.GameID, fn GameUpdateFunc) (*model.Game, error)
	DeleteGamesCreatedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// ClonePlayer returns a deep copy of p
func ClonePlayer(p *model.Player) *model.Player {
	if p == nil {
		return nil
	}
	c := *p
	if p.CurrentGame != nil {
		g := *p.CurrentGame
		c.CurrentGame = &g
	}
	return &c
}

// CloneGame returns a deep copy of g
func CloneGame(g *model.Game) *model.Game {
	if g == nil {
		return nil
	}
	c := *g
	c.Moves = make(map[model.PlayerID]model.Choice, len(g.Moves))
	for id, choice := range g.Moves {
		c.Moves[id] = choice
	}
	if g.ResolvedAt != nil {
		t := *g.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}
