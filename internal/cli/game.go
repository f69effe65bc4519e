package cli

import (
	"github.com/spf13/cobra"
)

func newStartCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "start <opponent-id>",
		Short: "Start a game against another player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := s.cfg.RequirePlayer()
			if err != nil {
				return err
			}

			req := map[string]string{"player1_id": me, "player2_id": args[0]}
			var result GameCreated

			if err := s.client.Post(cmd.Context(), "/api/v1/start_game", req, &result); err != nil {
				return err
			}

			s.out.Print(result)
			return nil
		},
	}
}

func newMoveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "move <game-id> <rock|paper|scissors>",
		Short: "Submit a move",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := s.cfg.RequirePlayer()
			if err != nil {
				return err
			}

			req := map[string]string{"player_id": me, "game_id": args[0], "choice": args[1]}
			var result MoveResult

			if err := s.client.Post(cmd.Context(), "/api/v1/make_move", req, &result); err != nil {
				return err
			}

			s.out.Print(result)
			return nil
		},
	}
}

func newGameCmd(s *session) *cobra.Command {
	var winnerOnly bool

	cmd := &cobra.Command{
		Use:   "game <game-id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if winnerOnly {
				var result GameWinner
				if err := s.client.Get(cmd.Context(), "/api/v1/game_status/"+pathID(args[0]), &result); err != nil {
					return err
				}
				s.out.Print(result)
				return nil
			}

			var result Game
			if err := s.client.Get(cmd.Context(), "/api/v1/game/"+pathID(args[0]), &result); err != nil {
				return err
			}

			s.out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&winnerOnly, "winner", false, "Only show the winner field")

	return cmd
}

func newEndCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "end <opponent-id>",
		Short: "End the game with an opponent and return both players to waiting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := s.cfg.RequirePlayer()
			if err != nil {
				return err
			}

			req := map[string]string{"player1_id": me, "player2_id": args[0]}
			var result MessageResult

			if err := s.client.Post(cmd.Context(), "/api/v1/end_game", req, &result); err != nil {
				return err
			}

			s.out.Print(result)
			return nil
		},
	}
}
