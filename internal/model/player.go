package model

import "time"

// PlayerID uniquely identifies a player across the system.
// It is supplied by the client, never generated by the server.
type PlayerID string

// PlayerStatus is the matchmaking state of a player
type PlayerStatus string

const (
	StatusWaiting PlayerStatus = "waiting" // Online and free to be invited or matched
	StatusInvited PlayerStatus = "invited" // Another player has sent an invite
	StatusInGame  PlayerStatus = "in_game" // Currently playing a round
)

// Valid returns true if s is one of the known statuses
func (s PlayerStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusInvited, StatusInGame:
		return true
	}
	return false
}

// Player is a registered participant and their presence record
type Player struct {
	ID          PlayerID
	DisplayName string
	Status      PlayerStatus

	// Present only while Status is invited
	InviterID   PlayerID
	InviterName string

	// Game the player was last matched into; nil unless in_game
	CurrentGame *GameID

	JoinedAt  time.Time
	UpdatedAt time.Time
}

// SetStatus moves the player to a new status, keeping the inviter fields
// consistent with it
func (p *Player) SetStatus(status PlayerStatus) {
	p.Status = status
	if status != StatusInvited {
		p.InviterID = ""
		p.InviterName = ""
	}
	if status != StatusInGame {
		p.CurrentGame = nil
	}
}

// Participant is a snapshot of a player taken when a game is created
type Participant struct {
	ID          PlayerID
	DisplayName string
}

// StatusView is what a player sees when polling their own status
type StatusView struct {
	Status PlayerStatus

	// Set when Status is in_game
	GameID       GameID
	OpponentID   PlayerID
	OpponentName string

	// Set when Status is invited
	InviterID   PlayerID
	InviterName string
}
