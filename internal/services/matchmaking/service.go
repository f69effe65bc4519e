// Package matchmaking ties the player registry, activity tracking and the
// game table together into the operations exposed over HTTP.
package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/rps-matchmaker/internal/dependencies/clock"
	"github.com/mcoot/rps-matchmaker/internal/events"
	"github.com/mcoot/rps-matchmaker/internal/metrics"
	"github.com/mcoot/rps-matchmaker/internal/model"
	"github.com/mcoot/rps-matchmaker/internal/services/activity"
	"github.com/mcoot/rps-matchmaker/internal/services/game"
	"github.com/mcoot/rps-matchmaker/internal/services/player"
	"github.com/mcoot/rps-matchmaker/internal/services/resolution"
)

// Config holds matchmaking timing
type Config struct {
	// Players silent for longer than this are evicted
	InactivityThreshold time.Duration
	// Games created longer ago than this are pruned
	GameRetention time.Duration
}

// DefaultConfig returns the standard timings
func DefaultConfig() Config {
	return Config{
		InactivityThreshold: activity.DefaultThreshold,
		GameRetention:       time.Hour,
	}
}

// WithDefaults fills each unset timing from DefaultConfig
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.InactivityThreshold <= 0 {
		c.InactivityThreshold = def.InactivityThreshold
	}
	if c.GameRetention <= 0 {
		c.GameRetention = def.GameRetention
	}
	return c
}

// Service is the matchmaking facade
type Service struct {
	players  *player.Controller
	games    *game.Controller
	activity *activity.Tracker
	notifier events.Notifier
	metrics  *metrics.Metrics
	clock    clock.Clock
	cfg      Config
	logger   *slog.Logger
}

// New creates a new matchmaking Service
func New(
	players *player.Controller,
	games *game.Controller,
	tracker *activity.Tracker,
	notifier events.Notifier,
	metrics *metrics.Metrics,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if notifier == nil {
		notifier = events.Nop{}
	}
	return &Service{
		players:  players,
		games:    games,
		activity: tracker,
		notifier: notifier,
		metrics:  metrics,
		clock:    clock,
		cfg:      cfg,
		logger:   logger,
	}
}

// Join registers a new waiting player
func (s *Service) Join(ctx context.Context, id model.PlayerID, name string) (*model.Player, error) {
	p, err := s.players.Join(ctx, id, name)
	if err != nil {
		return nil, err
	}
	s.metrics.PlayersJoined.Inc()
	s.metrics.PlayersOnline.Inc()
	return p, nil
}

// ListPlayers returns every registered player
func (s *Service) ListPlayers(ctx context.Context) ([]model.Player, error) {
	return s.players.List(ctx)
}

// InvitePlayer records an invitation and tells the invitee about it
func (s *Service) InvitePlayer(ctx context.Context, inviterID, inviteeID model.PlayerID) error {
	invitee, err := s.players.Invite(ctx, inviterID, inviteeID)
	if err != nil {
		return err
	}
	s.touch(ctx, inviterID)

	s.notify(ctx, model.EventInvited, inviteeID, "", model.InvitedPayload{
		InviterID:   invitee.InviterID,
		InviterName: invitee.InviterName,
	})
	return nil
}

// StartGame puts both players in a new game. Player2 must be known and not
// already in a game; player1 only has to exist.
func (s *Service) StartGame(ctx context.Context, player1ID, player2ID model.PlayerID) (*model.Game, error) {
	if player1ID == "" || player2ID == "" {
		return nil, fmt.Errorf("%w: player1_id and player2_id are required", model.ErrInvalidInput)
	}
	if player1ID == player2ID {
		return nil, fmt.Errorf("%w: a player cannot play themselves", model.ErrInvalidInput)
	}

	prev1, prev2, err := s.players.ReservePair(ctx, player1ID, player2ID)
	if err != nil {
		return nil, err
	}

	g, err := s.games.Create(ctx,
		model.Participant{ID: prev1.ID, DisplayName: prev1.DisplayName},
		model.Participant{ID: prev2.ID, DisplayName: prev2.DisplayName},
	)
	if err != nil {
		s.restore(ctx, prev1)
		s.restore(ctx, prev2)
		return nil, err
	}

	for _, id := range []model.PlayerID{player1ID, player2ID} {
		if err := s.players.AttachGame(ctx, id, g.ID); err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
			s.logger.Warn("failed to attach game to player",
				slog.String("player_id", string(id)),
				slog.String("game_id", string(g.ID)),
				slog.String("error", err.Error()),
			)
		}
	}
	s.touch(ctx, player1ID)
	s.metrics.GamesStarted.Inc()

	s.notify(ctx, model.EventGameStarted, player1ID, g.ID, model.GameStartedPayload{
		OpponentID: g.Player2.ID, OpponentName: g.Player2.DisplayName,
	})
	s.notify(ctx, model.EventGameStarted, player2ID, g.ID, model.GameStartedPayload{
		OpponentID: g.Player1.ID, OpponentName: g.Player1.DisplayName,
	})

	return g, nil
}

// PlayerStatus returns what the player should see when polling: their
// status, plus the game and opponent while in a game or the inviter while
// invited
func (s *Service) PlayerStatus(ctx context.Context, id model.PlayerID) (*model.StatusView, error) {
	p, err := s.players.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.touch(ctx, id)

	view := &model.StatusView{Status: p.Status}
	switch p.Status {
	case model.StatusInvited:
		view.InviterID = p.InviterID
		view.InviterName = p.InviterName
	case model.StatusInGame:
		if p.CurrentGame == nil {
			break
		}
		view.GameID = *p.CurrentGame
		g, err := s.games.Get(ctx, *p.CurrentGame)
		if errors.Is(err, model.ErrGameNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		opponent := g.Opponent(id)
		view.OpponentID = opponent.ID
		view.OpponentName = opponent.DisplayName
	}
	return view, nil
}

// MakeMove submits a hidden choice for the player
func (s *Service) MakeMove(ctx context.Context, playerID model.PlayerID, gameID model.GameID, choice model.Choice) (*model.MoveResult, error) {
	if playerID == "" || gameID == "" || choice == "" {
		return nil, fmt.Errorf("%w: player_id, game_id and choice are required", model.ErrInvalidInput)
	}
	parsed, err := resolution.ParseChoice(string(choice))
	if err != nil {
		return nil, err
	}

	result, err := s.games.SubmitMove(ctx, gameID, playerID, parsed)
	if err != nil {
		return nil, err
	}
	s.touch(ctx, playerID)

	switch {
	case result.ResolvedNow:
		s.metrics.ObserveResolution(result.Winner == model.WinnerDraw)
		g, err := s.games.Get(ctx, gameID)
		if err != nil {
			s.logger.Warn("failed to load resolved game",
				slog.String("game_id", string(gameID)),
				slog.String("error", err.Error()),
			)
			break
		}
		payload := model.GameResolvedPayload{Winner: g.Winner, Moves: g.Moves}
		s.notify(ctx, model.EventGameResolved, g.Player1.ID, g.ID, payload)
		s.notify(ctx, model.EventGameResolved, g.Player2.ID, g.ID, payload)
	case !result.Resolved:
		g, err := s.games.Get(ctx, gameID)
		if err == nil {
			s.notify(ctx, model.EventMoveReceived, g.Opponent(playerID).ID, g.ID, model.MoveReceivedPayload{
				FromPlayerID: playerID,
			})
		}
	}

	return result, nil
}

// GameStatus returns the winner field of a game
func (s *Service) GameStatus(ctx context.Context, gameID model.GameID) (model.Winner, error) {
	return s.games.GetWinner(ctx, gameID)
}

// GetGame returns the full game record
func (s *Service) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return s.games.Get(ctx, gameID)
}

// EndGame returns both players to waiting. Players that have already been
// evicted are skipped; the game record is left as is.
func (s *Service) EndGame(ctx context.Context, player1ID, player2ID model.PlayerID) error {
	if player1ID == "" || player2ID == "" {
		return fmt.Errorf("%w: player1_id and player2_id are required", model.ErrInvalidInput)
	}

	for _, id := range []model.PlayerID{player1ID, player2ID} {
		var gameID model.GameID
		if p, err := s.players.Get(ctx, id); err == nil && p.CurrentGame != nil {
			gameID = *p.CurrentGame
		}

		_, err := s.players.SetStatus(ctx, id, model.StatusWaiting)
		if errors.Is(err, model.ErrPlayerNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		s.notify(ctx, model.EventGameEnded, id, gameID, nil)
	}
	s.touch(ctx, player1ID)

	return nil
}

// SweepInactive evicts players past the inactivity threshold and prunes
// games past the retention window. Returns the evicted players.
func (s *Service) SweepInactive(ctx context.Context) ([]model.PlayerID, error) {
	now := s.clock.Now()
	var errs []error

	evicted, err := s.players.EvictStale(ctx, now, s.cfg.InactivityThreshold)
	if err != nil {
		errs = append(errs, err)
	}
	s.metrics.PlayersEvicted.Add(float64(len(evicted)))
	for _, id := range evicted {
		s.notify(ctx, model.EventEvicted, id, "", nil)
	}

	pruned, err := s.games.PruneBefore(ctx, now.Add(-s.cfg.GameRetention))
	if err != nil {
		errs = append(errs, err)
	}
	s.metrics.GamesPruned.Add(float64(pruned))

	if players, err := s.players.List(ctx); err == nil {
		s.metrics.PlayersOnline.Set(float64(len(players)))
	}

	return evicted, errors.Join(errs...)
}

// touch refreshes a player's activity. A player evicted mid-request is not
// an error for the caller.
func (s *Service) touch(ctx context.Context, id model.PlayerID) {
	err := s.activity.Touch(ctx, id)
	if err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
		s.logger.Warn("failed to refresh activity",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) restore(ctx context.Context, previous *model.Player) {
	if err := s.players.Restore(ctx, previous); err != nil {
		s.logger.Error("failed to restore player after aborted start",
			slog.String("player_id", string(previous.ID)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) notify(ctx context.Context, typ model.EventType, to model.PlayerID, gameID model.GameID, payload any) {
	s.notifier.Notify(ctx, model.Event{
		Type:      typ,
		Timestamp: s.clock.Now(),
		PlayerID:  to,
		GameID:    gameID,
		Payload:   payload,
	})
}
