package events

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rps-matchmaker/internal/model"
	"github.com/mcoot/rps-matchmaker/internal/testutil"
)

var eventTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// readData pulls the next message off the client and decodes its data line
func readData(t *testing.T, client *Client) (string, map[string]any) {
	t.Helper()
	select {
	case msg, ok := <-client.send:
		require.True(t, ok, "client channel closed")
		lines := strings.Split(strings.TrimSpace(string(msg)), "\n")
		require.Len(t, lines, 2)
		name := strings.TrimPrefix(lines[0], "event: ")
		var data map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &data))
		return name, data
	default:
		t.Fatal("client did not receive message")
		return "", nil
	}
}

func TestBroadcasterNotifyInvited(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())
	client := manager.Connect("p2")

	broadcaster.Notify(context.Background(), model.Event{
		Type:      model.EventInvited,
		Timestamp: eventTime,
		PlayerID:  "p2",
		Payload:   model.InvitedPayload{InviterID: "p1", InviterName: "Alice"},
	})

	name, data := readData(t, client)
	assert.Equal(t, "invited", name)
	assert.Equal(t, "p2", data["player_id"])
	assert.NotContains(t, data, "game_id")
	assert.Equal(t, map[string]any{"inviter_id": "p1", "inviter_name": "Alice"}, data["payload"])
}

func TestBroadcasterNotifyGameResolved(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())
	client := manager.Connect("p1")

	broadcaster.Notify(context.Background(), model.Event{
		Type:      model.EventGameResolved,
		Timestamp: eventTime,
		PlayerID:  "p1",
		GameID:    "g1",
		Payload: model.GameResolvedPayload{
			Winner: "p1",
			Moves:  map[model.PlayerID]model.Choice{"p1": model.ChoiceRock, "p2": model.ChoiceScissors},
		},
	})

	name, data := readData(t, client)
	assert.Equal(t, "game_resolved", name)
	assert.Equal(t, "g1", data["game_id"])
	payload := data["payload"].(map[string]any)
	assert.Equal(t, "p1", payload["winner"])
	assert.Equal(t, map[string]any{"p1": "rock", "p2": "scissors"}, payload["moves"])
}

func TestBroadcasterSkipsPlayersWithoutStreams(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())
	other := manager.Connect("p1")

	broadcaster.Notify(context.Background(), model.Event{
		Type:     model.EventGameEnded,
		PlayerID: "p2",
	})

	assert.Empty(t, other.send)
	assert.Nil(t, manager.GetHub("p2"))
}

func TestBroadcasterEvictedClosesStreams(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())
	client := manager.Connect("p1")

	broadcaster.Notify(context.Background(), model.Event{
		Type:      model.EventEvicted,
		Timestamp: eventTime,
		PlayerID:  "p1",
	})

	name, _ := readData(t, client)
	assert.Equal(t, "evicted", name)

	_, ok := <-client.send
	assert.False(t, ok)
	assert.Nil(t, manager.GetHub("p1"))
}
