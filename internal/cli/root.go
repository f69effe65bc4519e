package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// session is the state shared by every subcommand of one invocation
type session struct {
	cfg    *Config
	client *Client
	out    *Output
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	s := &session{cfg: DefaultConfig()}

	rootCmd := &cobra.Command{
		Use:   "rpsctl",
		Short: "CLI tool for the rock paper scissors matchmaker",
		Long: `rpsctl is a CLI tool for interacting with the matchmaking JSON API.

Join once and the player ID is remembered for later commands. Use --player to
act as someone else.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := s.cfg.Validate(); err != nil {
				return err
			}
			// Load player from file if not provided via flag/env
			if err := s.cfg.LoadPlayer(); err != nil {
				return err
			}

			s.client = NewClient(s.cfg.ServerURL)
			s.out = NewOutput(s.cfg.Output, cmd.OutOrStdout())
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&s.cfg.ServerURL, "server", s.cfg.ServerURL, "Server URL (env: RPS_SERVER)")
	rootCmd.PersistentFlags().StringVar(&s.cfg.PlayerID, "player", s.cfg.PlayerID, "Act as this player ID (env: RPS_PLAYER_ID)")
	rootCmd.PersistentFlags().StringVar(&s.cfg.PlayerFile, "player-file", s.cfg.PlayerFile, "File remembering the joined player (env: RPS_PLAYER_FILE)")
	rootCmd.PersistentFlags().StringVarP(&s.cfg.Output, "output", "o", s.cfg.Output, "Output format: text, json")

	rootCmd.AddCommand(newJoinCmd(s))
	rootCmd.AddCommand(newPlayersCmd(s))
	rootCmd.AddCommand(newInviteCmd(s))
	rootCmd.AddCommand(newStatusCmd(s))
	rootCmd.AddCommand(newStartCmd(s))
	rootCmd.AddCommand(newMoveCmd(s))
	rootCmd.AddCommand(newGameCmd(s))
	rootCmd.AddCommand(newEndCmd(s))
	rootCmd.AddCommand(newEventsCmd(s))
	rootCmd.AddCommand(newHealthCmd(s))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
