package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrNoPlayer is returned when a command needs a player and none is selected
var ErrNoPlayer = errors.New("no player selected: run join first or pass --player")

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	PlayerID   string
	PlayerFile string
	Output     string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("RPS_SERVER", "http://localhost:8080"),
		PlayerID:   os.Getenv("RPS_PLAYER_ID"),
		PlayerFile: getEnvOrDefault("RPS_PLAYER_FILE", defaultPlayerFile()),
		Output:     FormatText,
	}
}

// Validate checks the flags that cobra cannot
func (c *Config) Validate() error {
	if c.Output != FormatText && c.Output != FormatJSON {
		return fmt.Errorf("invalid output format %q: must be text or json", c.Output)
	}
	return nil
}

// LoadPlayer loads the player ID from file if not already set
func (c *Config) LoadPlayer() error {
	if c.PlayerID != "" {
		return nil
	}

	data, err := os.ReadFile(c.PlayerFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No player file is fine
		}
		return err
	}

	c.PlayerID = strings.TrimSpace(string(data))
	return nil
}

// SavePlayer records the player ID for later commands
func (c *Config) SavePlayer(id string) error {
	c.PlayerID = id

	dir := filepath.Dir(c.PlayerFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.PlayerFile, []byte(id), 0600)
}

// RequirePlayer returns the selected player ID
func (c *Config) RequirePlayer() (string, error) {
	if c.PlayerID == "" {
		return "", ErrNoPlayer
	}
	return c.PlayerID, nil
}

func defaultPlayerFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rpsctl/player"
	}
	return filepath.Join(home, ".rpsctl", "player")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
