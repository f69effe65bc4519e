package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetStatusClearsInviterOutsideInvited(t *testing.T) {
	p := &Player{ID: "p2", Status: StatusWaiting}
	p.Status = StatusInvited
	p.InviterID = "p1"
	p.InviterName = "Alice"

	p.SetStatus(StatusInvited)
	assert.Equal(t, PlayerID("p1"), p.InviterID)

	p.SetStatus(StatusInGame)
	assert.Empty(t, p.InviterID)
	assert.Empty(t, p.InviterName)
}

func TestSetStatusClearsCurrentGameOutsideInGame(t *testing.T) {
	gameID := GameID("g1")
	p := &Player{ID: "p1", Status: StatusInGame, CurrentGame: &gameID}

	p.SetStatus(StatusWaiting)
	assert.Nil(t, p.CurrentGame)
}

func TestPlayerStatusValid(t *testing.T) {
	assert.True(t, StatusWaiting.Valid())
	assert.True(t, StatusInvited.Valid())
	assert.True(t, StatusInGame.Valid())
	assert.False(t, PlayerStatus("away").Valid())
}

func TestGameOpponentIsTheOtherParticipant(t *testing.T) {
	g := &Game{
		Player1: Participant{ID: "p1", DisplayName: "Alice"},
		Player2: Participant{ID: "p2", DisplayName: "Bob"},
	}

	assert.Equal(t, PlayerID("p2"), g.Opponent("p1").ID)
	assert.Equal(t, PlayerID("p1"), g.Opponent("p2").ID)
	assert.True(t, g.HasParticipant("p1"))
	assert.False(t, g.HasParticipant("p3"))
}

func TestGameIsResolved(t *testing.T) {
	g := &Game{Winner: WinnerNone}
	assert.False(t, g.IsResolved())

	g.Winner = WinnerDraw
	assert.True(t, g.IsResolved())

	g.Winner = "p1"
	assert.True(t, g.IsResolved())
}

func TestReservedPlayerIDs(t *testing.T) {
	assert.True(t, IsReservedPlayerID("None"))
	assert.True(t, IsReservedPlayerID("draw"))
	assert.False(t, IsReservedPlayerID("p1"))
}
