package cli

import (
	"github.com/spf13/cobra"
)

func newHealthCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			if err := s.client.Get(cmd.Context(), "/api/v1/health", &result); err != nil {
				return err
			}

			s.out.Print(result)
			return nil
		},
	}
}
