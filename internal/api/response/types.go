package response

import (
	"time"

	"github.com/mcoot/rps-matchmaker/internal/model"
)

// StatusWaitingForOpponent is reported by make_move until both moves are in
const StatusWaitingForOpponent = "waiting_for_opponent"

// Message is a plain acknowledgement
type Message struct {
	Message string `json:"message"`
}

// Player represents a player in the players listing
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:     string(p.ID),
		Name:   p.DisplayName,
		Status: string(p.Status),
	}
}

// PlayersFromModel converts a slice of players, never returning nil
func PlayersFromModel(players []model.Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return out
}

// PlayerStatus is what a player sees when polling
type PlayerStatus struct {
	Status       string `json:"status"`
	GameID       string `json:"game_id,omitempty"`
	OpponentID   string `json:"opponent_id,omitempty"`
	OpponentName string `json:"opponent_name,omitempty"`
	InviterID    string `json:"inviter_id,omitempty"`
	InviterName  string `json:"inviter_name,omitempty"`
}

// PlayerStatusFromModel converts a model.StatusView
func PlayerStatusFromModel(v *model.StatusView) PlayerStatus {
	return PlayerStatus{
		Status:       string(v.Status),
		GameID:       string(v.GameID),
		OpponentID:   string(v.OpponentID),
		OpponentName: v.OpponentName,
		InviterID:    string(v.InviterID),
		InviterName:  v.InviterName,
	}
}

// GameCreated is returned by start_game
type GameCreated struct {
	GameID string `json:"game_id"`
}

// Winner reports a game's winner field
type Winner struct {
	Winner string `json:"winner"`
}

// Waiting is returned by make_move while the opponent has not moved
type Waiting struct {
	Status string `json:"status"`
}

// Game is the full game record
type Game struct {
	GameID      string            `json:"game_id"`
	Player1ID   string            `json:"player1_id"`
	Player1Name string            `json:"player1_name"`
	Player2ID   string            `json:"player2_id"`
	Player2Name string            `json:"player2_name"`
	Winner      string            `json:"winner"`
	Moves       map[string]string `json:"moves"`
	CreatedAt   time.Time         `json:"created_at"`
	ResolvedAt  *time.Time        `json:"resolved_at"`
}

// GameFromModel converts a model.Game
func GameFromModel(g *model.Game) Game {
	moves := make(map[string]string, len(g.Moves))
	for id, choice := range g.Moves {
		moves[string(id)] = string(choice)
	}
	return Game{
		GameID:      string(g.ID),
		Player1ID:   string(g.Player1.ID),
		Player1Name: g.Player1.DisplayName,
		Player2ID:   string(g.Player2.ID),
		Player2Name: g.Player2.DisplayName,
		Winner:      string(g.Winner),
		Moves:       moves,
		CreatedAt:   g.CreatedAt,
		ResolvedAt:  g.ResolvedAt,
	}
}

// Health is the health check body
type Health struct {
	Status string `json:"status"`
}
