package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/rps-matchmaker/internal/dependencies/clock"
	"github.com/mcoot/rps-matchmaker/internal/dependencies/idgen"
	"github.com/mcoot/rps-matchmaker/internal/model"
	"github.com/mcoot/rps-matchmaker/internal/services/resolution"
	"github.com/mcoot/rps-matchmaker/internal/storage"
)

// Controller owns the game table: creation, hidden moves and resolution
type Controller struct {
	storage storage.Storage
	idgen   idgen.IDGen
	clock   clock.Clock
	logger  *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	idgen idgen.IDGen,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		idgen:   idgen,
		clock:   clock,
		logger:  logger,
	}
}

// Create starts a new game between two participants. Player1 is always the
// first argument to resolution.
func (c *Controller) Create(ctx context.Context, player1, player2 model.Participant) (*model.Game, error) {
	if player1.ID == "" || player2.ID == "" {
		return nil, fmt.Errorf("%w: both players are required", model.ErrInvalidInput)
	}
	if player1.ID == player2.ID {
		return nil, fmt.Errorf("%w: a player cannot play themselves", model.ErrInvalidInput)
	}

	game := &model.Game{
		ID:        model.GameID(c.idgen.NewID()),
		Player1:   player1,
		Player2:   player2,
		Moves:     make(map[model.PlayerID]model.Choice),
		Winner:    model.WinnerNone,
		CreatedAt: c.clock.Now(),
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("player1_id", string(player1.ID)),
		slog.String("player2_id", string(player2.ID)),
	)

	return game, nil
}

// Get retrieves a game by ID
func (c *Controller) Get(ctx context.Context, id model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, id)
}

// SubmitMove records a participant's hidden choice. Before resolution a
// repeat submission replaces the earlier one; once both moves are in the
// game resolves and later submissions just report the stored winner.
func (c *Controller) SubmitMove(ctx context.Context, gameID model.GameID, playerID model.PlayerID, choice model.Choice) (*model.MoveResult, error) {
	if _, err := resolution.Beats(choice); err != nil {
		return nil, err
	}

	var resolvedNow bool
	game, err := c.storage.UpdateGame(ctx, gameID, func(g *model.Game) error {
		resolvedNow = false
		if !g.HasParticipant(playerID) {
			return model.ErrNotParticipant
		}
		if g.IsResolved() {
			return nil
		}

		g.Moves[playerID] = choice

		first, ok1 := g.Moves[g.Player1.ID]
		second, ok2 := g.Moves[g.Player2.ID]
		if !ok1 || !ok2 {
			return nil
		}

		outcome, err := resolution.Resolve(first, second)
		if err != nil {
			return err
		}
		now := c.clock.Now()
		g.Winner = resolution.Winner(outcome, g.Player1.ID, g.Player2.ID)
		g.ResolvedAt = &now
		resolvedNow = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resolvedNow {
		c.logger.Info("game resolved",
			slog.String("game_id", string(game.ID)),
			slog.String("winner", string(game.Winner)),
		)
	}

	return &model.MoveResult{
		GameID:      game.ID,
		Resolved:    game.IsResolved(),
		Winner:      game.Winner,
		ResolvedNow: resolvedNow,
	}, nil
}

// GetWinner returns the winner field: model.WinnerNone until both moves are in
func (c *Controller) GetWinner(ctx context.Context, id model.GameID) (model.Winner, error) {
	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return "", err
	}
	return game.Winner, nil
}

// PruneBefore drops games created before cutoff
func (c *Controller) PruneBefore(ctx context.Context, cutoff time.Time) (int, error) {
	n, err := c.storage.DeleteGamesCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.logger.Info("pruned old games", slog.Int("count", n))
	}
	return n, nil
}
