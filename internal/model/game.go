package model

import "time"

// GameID uniquely identifies a game
type GameID string

// Choice is a hidden move submitted by a player
type Choice string

const (
	ChoiceRock     Choice = "rock"
	ChoicePaper    Choice = "paper"
	ChoiceScissors Choice = "scissors"
)

// Choices returns every valid choice
func Choices() []Choice {
	return []Choice{ChoiceRock, ChoicePaper, ChoiceScissors}
}

// Winner is the result field of a game: WinnerNone, WinnerDraw, or the ID of
// the winning player
type Winner string

const (
	WinnerNone Winner = "None"
	WinnerDraw Winner = "draw"
)

// IsReservedPlayerID reports whether id collides with a winner token
func IsReservedPlayerID(id PlayerID) bool {
	return Winner(id) == WinnerNone || Winner(id) == WinnerDraw
}

// Game is a single round between exactly two players
type Game struct {
	ID GameID

	// Order matters: resolution always compares Player1's choice against Player2's
	Player1 Participant
	Player2 Participant

	Moves  map[PlayerID]Choice
	Winner Winner

	CreatedAt  time.Time
	ResolvedAt *time.Time // nil until both moves are in
}

// IsResolved returns true once a winner (or draw) has been recorded
func (g *Game) IsResolved() bool {
	return g.Winner != "" && g.Winner != WinnerNone
}

// HasParticipant returns true if the player is one of the two participants
func (g *Game) HasParticipant(id PlayerID) bool {
	return g.Player1.ID == id || g.Player2.ID == id
}

// Opponent returns the participant on the other side from id
func (g *Game) Opponent(id PlayerID) Participant {
	if g.Player1.ID == id {
		return g.Player2
	}
	return g.Player1
}

// MoveResult is returned after a move is submitted
type MoveResult struct {
	GameID   GameID
	Resolved bool
	Winner   Winner

	// True only for the submission that completed the game
	ResolvedNow bool
}
