package e2e_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rps-matchmaker/internal/api"
	"github.com/mcoot/rps-matchmaker/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	playerFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	binaryPath := filepath.Join(t.TempDir(), "rpsctl")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/rpsctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		playerFile: filepath.Join(t.TempDir(), "player"),
	}
}

func (r *cliRunner) command(args ...string) *exec.Cmd {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--player-file", r.playerFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "RPS_PLAYER_ID=")
	return cmd
}

func (r *cliRunner) run(args ...string) (string, error) {
	output, err := r.command(args...).CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runJSON(t *testing.T, result any, args ...string) {
	t.Helper()
	output, err := r.run(args...)
	require.NoError(t, err, "rpsctl %v: %s", args, output)
	require.NoError(t, json.Unmarshal([]byte(output), result), output)
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer runs the real server on a loopback port
type testServer struct {
	server *api.Server
	url    string
	done   chan struct{}
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := api.DefaultServerConfig()
	cfg.ShutdownTimeout = 5 * time.Second
	server := api.NewServer(app.Handler(), cfg, logger)

	ts := &testServer{
		server: server,
		url:    "http://" + ln.Addr().String(),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(ts.done)
		if err := server.Serve(ln); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	t.Cleanup(func() {
		ts.shutdown()
		_ = app.Close()
	})
	return ts
}

func (ts *testServer) shutdown() {
	_ = ts.server.Shutdown(context.Background())
	<-ts.done
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status       string `json:"status"`
	GameID       string `json:"game_id"`
	OpponentID   string `json:"opponent_id"`
	OpponentName string `json:"opponent_name"`
}

type gameCreatedResponse struct {
	GameID string `json:"game_id"`
}

type moveResponse struct {
	Winner string `json:"winner"`
	Status string `json:"status"`
}

type gameResponse struct {
	GameID string            `json:"game_id"`
	Winner string            `json:"winner"`
	Moves  map[string]string `json:"moves"`
}

type eventLine struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.url)

	var health struct {
		Status string `json:"status"`
	}
	cli.runJSON(t, &health, "health")
	assert.Equal(t, "ok", health.Status)
}

func TestCLI_FullRound(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.url)

	var msg messageResponse
	cli.runJSON(t, &msg, "join", "alice", "Alice")
	assert.Equal(t, "Player Alice added successfully", msg.Message)
	cli.runJSON(t, &msg, "join", "bob", "Bob")

	var created gameCreatedResponse
	cli.runJSON(t, &created, "--player", "alice", "start", "bob")
	require.NotEmpty(t, created.GameID)

	var status statusResponse
	cli.runJSON(t, &status, "status", "bob")
	assert.Equal(t, "in_game", status.Status)
	assert.Equal(t, created.GameID, status.GameID)
	assert.Equal(t, "alice", status.OpponentID)

	var move moveResponse
	cli.runJSON(t, &move, "--player", "alice", "move", created.GameID, "paper")
	assert.Equal(t, "waiting_for_opponent", move.Status)

	cli.runJSON(t, &move, "--player", "bob", "move", created.GameID, "Paper")
	assert.Equal(t, "draw", move.Winner)

	var game gameResponse
	cli.runJSON(t, &game, "game", created.GameID)
	assert.Equal(t, "draw", game.Winner)
	assert.Equal(t, map[string]string{"alice": "paper", "bob": "paper"}, game.Moves)

	cli.runJSON(t, &msg, "--player", "alice", "end", "bob")
	assert.Equal(t, "Game ended", msg.Message)

	cli.runJSON(t, &status, "status", "alice")
	assert.Equal(t, "waiting", status.Status)
}

func TestCLI_ErrorExitCode(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.url)

	output, err := cli.run("status", "nobody")
	require.Error(t, err)
	assert.Contains(t, output, "PLAYER_NOT_FOUND")
}

func TestCLI_EventsStreamEndsOnShutdown(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.url)

	_, err := cli.run("join", "alice", "Alice")
	require.NoError(t, err)
	_, err = cli.run("join", "bob", "Bob")
	require.NoError(t, err)

	cmd := cli.command("events", "bob")
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())
	t.Cleanup(func() { _ = cmd.Process.Kill() })

	lines := bufio.NewScanner(stdout)
	readEvent := func() eventLine {
		t.Helper()
		require.True(t, lines.Scan(), "event stream closed early")
		var ev eventLine
		require.NoError(t, json.Unmarshal(lines.Bytes(), &ev), lines.Text())
		return ev
	}

	assert.Equal(t, "connected", readEvent().Event)

	_, err = cli.run("--player", "alice", "invite", "bob")
	require.NoError(t, err)

	invited := readEvent()
	assert.Equal(t, "invited", invited.Event)
	assert.True(t, strings.Contains(invited.Data, `"inviter_id":"alice"`), invited.Data)

	ts.shutdown()

	_, _ = io.Copy(io.Discard, stdout)
	assert.NoError(t, cmd.Wait())
}
