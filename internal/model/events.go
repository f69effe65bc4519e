package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventInvited      EventType = "invited"
	EventGameStarted  EventType = "game_started"
	EventMoveReceived EventType = "move_received"
	EventGameResolved EventType = "game_resolved"
	EventGameEnded    EventType = "game_ended"
	EventEvicted      EventType = "evicted"
)

// Event is a notification addressed to a single player
type Event struct {
	Type      EventType
	Timestamp time.Time
	PlayerID  PlayerID // Recipient
	GameID    GameID   // Empty for non-game events
	Payload   any      // Type-specific data
}

// InvitedPayload contains data for invited events
type InvitedPayload struct {
	InviterID   PlayerID
	InviterName string
}

// GameStartedPayload contains data for game started events
type GameStartedPayload struct {
	OpponentID   PlayerID
	OpponentName string
}

// MoveReceivedPayload tells a player their opponent has moved, without the choice
type MoveReceivedPayload struct {
	FromPlayerID PlayerID
}

// GameResolvedPayload contains data for game resolved events
type GameResolvedPayload struct {
	Winner Winner
	Moves  map[PlayerID]Choice
}
