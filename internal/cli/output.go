package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == FormatJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case MessageResult:
		fmt.Fprintln(o.w, v.Message)
	case []Player:
		o.printPlayers(v)
	case PlayerStatus:
		o.printPlayerStatus(v)
	case GameCreated:
		fmt.Fprintf(o.w, "Game started: %s\n", v.GameID)
	case MoveResult:
		o.printMoveResult(v)
	case GameWinner:
		o.printWinner(v.Winner)
	case Game:
		o.printGame(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// MessageResult is a plain acknowledgement
type MessageResult struct {
	Message string `json:"message"`
}

// Player response type (matches API)
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// PlayerStatus response type
type PlayerStatus struct {
	Status       string `json:"status"`
	GameID       string `json:"game_id,omitempty"`
	OpponentID   string `json:"opponent_id,omitempty"`
	OpponentName string `json:"opponent_name,omitempty"`
	InviterID    string `json:"inviter_id,omitempty"`
	InviterName  string `json:"inviter_name,omitempty"`
}

// GameCreated response type
type GameCreated struct {
	GameID string `json:"game_id"`
}

// MoveResult is either a winner or a waiting status
type MoveResult struct {
	Winner string `json:"winner,omitempty"`
	Status string `json:"status,omitempty"`
}

// GameWinner response type
type GameWinner struct {
	Winner string `json:"winner"`
}

// Game response type
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

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayers(players []Player) {
	if len(players) == 0 {
		fmt.Fprintln(o.w, "No players online")
		return
	}
	fmt.Fprintf(o.w, "%-16s %-20s %s\n", "ID", "NAME", "STATUS")
	for _, p := range players {
		fmt.Fprintf(o.w, "%-16s %-20s %s\n", p.ID, p.Name, p.Status)
	}
}

func (o *Output) printPlayerStatus(s PlayerStatus) {
	fmt.Fprintf(o.w, "Status: %s\n", s.Status)
	if s.InviterID != "" {
		fmt.Fprintf(o.w, "Invited by: %s (%s)\n", s.InviterName, s.InviterID)
	}
	if s.GameID != "" {
		fmt.Fprintf(o.w, "Game: %s\n", s.GameID)
	}
	if s.OpponentID != "" {
		fmt.Fprintf(o.w, "Opponent: %s (%s)\n", s.OpponentName, s.OpponentID)
	}
}

func (o *Output) printMoveResult(m MoveResult) {
	if m.Winner == "" {
		fmt.Fprintln(o.w, "Move recorded, waiting for opponent")
		return
	}
	o.printWinner(m.Winner)
}

func (o *Output) printWinner(winner string) {
	switch winner {
	case "None", "":
		fmt.Fprintln(o.w, "No winner yet")
	case "draw":
		fmt.Fprintln(o.w, "Result: draw")
	default:
		fmt.Fprintf(o.w, "Winner: %s\n", winner)
	}
}

func (o *Output) printGame(g Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.GameID)
	fmt.Fprintf(o.w, "Player 1: %s (%s) %s\n", g.Player1Name, g.Player1ID, moveText(g.Moves[g.Player1ID]))
	fmt.Fprintf(o.w, "Player 2: %s (%s) %s\n", g.Player2Name, g.Player2ID, moveText(g.Moves[g.Player2ID]))
	o.printWinner(g.Winner)
	fmt.Fprintf(o.w, "Created: %s\n", g.CreatedAt.UTC().Format(time.RFC3339))
	if g.ResolvedAt != nil {
		fmt.Fprintf(o.w, "Resolved: %s\n", g.ResolvedAt.UTC().Format(time.RFC3339))
	}
}

func moveText(choice string) string {
	if choice == "" {
		return "has not moved"
	}
	return "played " + choice
}
