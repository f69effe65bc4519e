package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newJoinCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "join <player-id> <name>",
		Short: "Join the lobby and remember the player ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"id": args[0], "name": args[1]}
			var result MessageResult

			if err := s.client.Post(cmd.Context(), "/api/v1/join", req, &result); err != nil {
				return err
			}

			if err := s.cfg.SavePlayer(args[0]); err != nil {
				return fmt.Errorf("failed to save player: %w", err)
			}

			s.out.Print(result)
			return nil
		},
	}
}

func newPlayersCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List players in the lobby",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Player

			if err := s.client.Get(cmd.Context(), "/api/v1/players", &result); err != nil {
				return err
			}

			s.out.Print(result)
			return nil
		},
	}
}

func newInviteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "invite <player-id>",
		Short: "Invite another player to a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inviter, err := s.cfg.RequirePlayer()
			if err != nil {
				return err
			}

			req := map[string]string{"inviter_id": inviter, "invitee_id": args[0]}
			var result MessageResult

			if err := s.client.Post(cmd.Context(), "/api/v1/invite_player", req, &result); err != nil {
				return err
			}

			s.out.Print(result)
			return nil
		},
	}
}

func newStatusCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "status [player-id]",
		Short: "Show a player's status (defaults to the current player)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := playerArg(s, args)
			if err != nil {
				return err
			}

			var result PlayerStatus
			if err := s.client.Get(cmd.Context(), "/api/v1/player_status/"+pathID(id), &result); err != nil {
				return err
			}

			s.out.Print(result)
			return nil
		},
	}
}

// playerArg returns the first argument, falling back to the current player
func playerArg(s *session, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return s.cfg.RequirePlayer()
}
