package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEvents(t *testing.T) {
	stream := strings.Join([]string{
		"event: connected",
		`data: {"status":"connected"}`,
		"",
		": keepalive",
		"",
		"event: invited",
		`data: {"type":"invited",`,
		`data: "player_id":"p2"}`,
		"",
		"event: partial",
	}, "\n")

	type got struct{ event, data string }
	var events []got
	err := readEvents(strings.NewReader(stream), func(event, data string) {
		events = append(events, got{event, data})
	})

	require.NoError(t, err)
	assert.Equal(t, []got{
		{"connected", `{"status":"connected"}`},
		{"invited", "{\"type\":\"invited\",\n\"player_id\":\"p2\"}"},
	}, events)
}

func TestPrintEvent(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	var text bytes.Buffer
	printEvent(&text, now, "game_ended", "a\nb", false)
	assert.Equal(t, "[2024-01-01 12:00:00] game_ended: a b\n", text.String())

	var js bytes.Buffer
	printEvent(&js, now, "game_ended", "{}", true)
	assert.JSONEq(t, `{"time":"2024-01-01T12:00:00Z","event":"game_ended","data":"{}"}`, js.String())
}

func TestConfigPlayerFile(t *testing.T) {
	cfg := &Config{PlayerFile: t.TempDir() + "/nested/player", Output: FormatText}

	require.NoError(t, cfg.LoadPlayer())
	_, err := cfg.RequirePlayer()
	assert.ErrorIs(t, err, ErrNoPlayer)

	require.NoError(t, cfg.SavePlayer("p1"))

	reloaded := &Config{PlayerFile: cfg.PlayerFile}
	require.NoError(t, reloaded.LoadPlayer())
	id, err := reloaded.RequirePlayer()
	require.NoError(t, err)
	assert.Equal(t, "p1", id)
}

func TestConfigExplicitPlayerWins(t *testing.T) {
	cfg := &Config{PlayerID: "flag", PlayerFile: t.TempDir() + "/player"}
	require.NoError(t, cfg.SavePlayer("file"))

	cfg.PlayerID = "flag"
	require.NoError(t, cfg.LoadPlayer())
	assert.Equal(t, "flag", cfg.PlayerID)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, (&Config{Output: FormatJSON}).Validate())
	assert.Error(t, (&Config{Output: "xml"}).Validate())
}
