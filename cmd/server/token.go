package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/service/auth"
	"github.com/spf13/cobra"
)

// newTokenCmd prints an access token for a user. Account management lives
// outside this service, so this is how local clients obtain a token.
func newTokenCmd(opts *rootOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed access token for a user (development)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}

			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}

			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to create jwt service: %w", err)
			}

			token, err := jwtService.GenerateToken(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user ID to issue the token for (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
