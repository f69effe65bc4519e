package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mcoot/rps-matchmaker/internal/model"
)

// Broadcaster delivers matchmaking events to the recipient's open streams
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Notify sends the event to its recipient if they are listening. An evicted
// event also closes the recipient's streams.
func (b *Broadcaster) Notify(ctx context.Context, event model.Event) {
	hub := b.hubManager.GetHub(event.PlayerID)
	if hub == nil {
		return
	}

	data, err := encodeEvent(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("type", string(event.Type)),
			slog.String("player_id", string(event.PlayerID)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(string(event.Type), string(data))

	if event.Type == model.EventEvicted {
		b.hubManager.RemoveHub(event.PlayerID)
	}
}

type eventMessage struct {
	Type      model.EventType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	PlayerID  model.PlayerID  `json:"player_id"`
	GameID    model.GameID    `json:"game_id,omitempty"`
	Payload   any             `json:"payload,omitempty"`
}

type invitedMessage struct {
	InviterID   model.PlayerID `json:"inviter_id"`
	InviterName string         `json:"inviter_name"`
}

type gameStartedMessage struct {
	OpponentID   model.PlayerID `json:"opponent_id"`
	OpponentName string         `json:"opponent_name"`
}

type moveReceivedMessage struct {
	FromPlayerID model.PlayerID `json:"from_player_id"`
}

type gameResolvedMessage struct {
	Winner model.Winner                    `json:"winner"`
	Moves  map[model.PlayerID]model.Choice `json:"moves"`
}

// encodeEvent renders an event as single-line JSON
func encodeEvent(event model.Event) ([]byte, error) {
	msg := eventMessage{
		Type:      event.Type,
		Timestamp: event.Timestamp,
		PlayerID:  event.PlayerID,
		GameID:    event.GameID,
	}

	switch p := event.Payload.(type) {
	case model.InvitedPayload:
		msg.Payload = invitedMessage{InviterID: p.InviterID, InviterName: p.InviterName}
	case model.GameStartedPayload:
		msg.Payload = gameStartedMessage{OpponentID: p.OpponentID, OpponentName: p.OpponentName}
	case model.MoveReceivedPayload:
		msg.Payload = moveReceivedMessage{FromPlayerID: p.FromPlayerID}
	case model.GameResolvedPayload:
		msg.Payload = gameResolvedMessage{Winner: p.Winner, Moves: p.Moves}
	case nil:
	default:
		msg.Payload = p
	}

	return json.Marshal(msg)
}
