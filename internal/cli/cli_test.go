package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rps-matchmaker/internal/cli"
	"github.com/mcoot/rps-matchmaker/internal/factory"
)

// harness runs rpsctl commands against an in-process server and records a transcript
type harness struct {
	t          *testing.T
	app        *factory.TestApp
	serverURL  string
	playerFile string
	transcript bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("RPS_PLAYER_ID", "")

	app := factory.NewTestApp()
	server := httptest.NewServer(app.Handler())
	t.Cleanup(server.Close)

	return &harness{
		t:          t,
		app:        app,
		serverURL:  server.URL,
		playerFile: filepath.Join(t.TempDir(), "player"),
	}
}

// run executes one command, appending the command line and its output to the transcript
func (h *harness) run(args ...string) error {
	h.t.Helper()
	fmt.Fprintf(&h.transcript, "$ rpsctl %s\n", strings.Join(args, " "))

	cmd := cli.NewRootCmd()
	cmd.SetOut(&h.transcript)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--server", h.serverURL, "--player-file", h.playerFile}, args...))
	return cmd.ExecuteContext(context.Background())
}

func (h *harness) mustRun(args ...string) {
	h.t.Helper()
	require.NoError(h.t, h.run(args...), "rpsctl %s", strings.Join(args, " "))
}

func (h *harness) assertGolden(name string) {
	h.t.Helper()
	g := goldie.New(h.t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(h.t, name, h.transcript.Bytes())
}

func TestRoundTranscript(t *testing.T) {
	h := newHarness(t)
	h.app.MockIDGen.Queue("game-1")

	h.mustRun("join", "p1", "Alice")
	h.mustRun("join", "p2", "Bob")
	h.mustRun("players")
	h.mustRun("--player", "p1", "start", "p2")
	h.mustRun("status", "p1")
	h.mustRun("--player", "p1", "move", "game-1", "rock")
	h.mustRun("game", "game-1", "--winner")
	h.mustRun("--player", "p2", "move", "game-1", "scissors")
	h.mustRun("game", "game-1")
	h.mustRun("--player", "p1", "end", "p2")
	h.mustRun("status", "p2")

	h.assertGolden("round")
}

func TestInviteTranscript(t *testing.T) {
	h := newHarness(t)

	h.mustRun("join", "p1", "Alice")
	h.mustRun("join", "p2", "Bob")
	h.mustRun("--player", "p1", "invite", "p2")
	// The last join is remembered
	h.mustRun("status")

	h.assertGolden("invite")
}

func TestJSONTranscript(t *testing.T) {
	h := newHarness(t)
	h.app.MockIDGen.Queue("game-1")

	h.mustRun("join", "p1", "Alice")
	h.mustRun("join", "p2", "Bob")
	h.mustRun("--player", "p1", "start", "p2")
	h.mustRun("-o", "json", "status", "p1")
	h.mustRun("-o", "json", "players")

	h.assertGolden("json")
}

func TestHealthTranscript(t *testing.T) {
	h := newHarness(t)

	h.mustRun("health")

	h.assertGolden("health")
}

func TestJoinRemembersPlayer(t *testing.T) {
	h := newHarness(t)

	h.mustRun("join", "p1", "Alice")

	data, err := os.ReadFile(h.playerFile)
	require.NoError(t, err)
	assert.Equal(t, "p1", string(data))
}

func TestAPIErrorsAreReturned(t *testing.T) {
	h := newHarness(t)
	h.mustRun("join", "p1", "Alice")

	err := h.run("start", "ghost")
	require.Error(t, err)

	var apiErr *cli.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "PLAYER_UNAVAILABLE", apiErr.Code)
	assert.Equal(t, 400, apiErr.Status)

	err = h.run("game", "missing")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "GAME_NOT_FOUND", apiErr.Code)
}

func TestCommandsNeedAPlayer(t *testing.T) {
	h := newHarness(t)

	err := h.run("invite", "p2")
	assert.ErrorIs(t, err, cli.ErrNoPlayer)

	err = h.run("status")
	assert.ErrorIs(t, err, cli.ErrNoPlayer)
}

func TestInvalidOutputFormat(t *testing.T) {
	h := newHarness(t)

	err := h.run("-o", "yaml", "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
