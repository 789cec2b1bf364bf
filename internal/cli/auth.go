package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tlesnik44-code/origocode/internal/store/gdrive"
)

func newAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Drive",
		Long:  "Runs the interactive OAuth flow and stores the resulting token for later sessions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)
			auth := gdrive.NewAuthenticator(cfg.Drive.ClientID, cfg.Drive.ClientSecret, cfg.Drive.TokenPath)

			if _, err := auth.Authenticate(cmd.Context()); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			fmt.Printf("Authorized. Token stored at %s\n", auth.TokenPath())
			return nil
		},
	}

	cmd.AddCommand(newAuthStatusCommand())

	return cmd
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether a valid token is present",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)
			auth := gdrive.NewAuthenticator(cfg.Drive.ClientID, cfg.Drive.ClientSecret, cfg.Drive.TokenPath)

			if _, err := auth.Authorized(cmd.Context()); err != nil {
				fmt.Println("Not authorized:", err)
				return nil
			}
			fmt.Println("Authorized.")
			return nil
		},
	}
}
