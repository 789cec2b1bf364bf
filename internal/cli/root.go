// Package cli wires configuration, the remote store session, and the
// hierarchy store into cobra commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tlesnik44-code/origocode/internal/config"
	"github.com/tlesnik44-code/origocode/internal/hierarchy"
	"github.com/tlesnik44-code/origocode/internal/logger"
	"github.com/tlesnik44-code/origocode/internal/store/gdrive"
)

type ctxKey string

const configCtxKey ctxKey = "config"

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "origocode",
		Short:         "origocode serves project file trees stored in Google Drive",
		Long:          "origocode maps hierarchical project paths onto a flat Google Drive folder tree and exposes file operations over HTTP and the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if err := initLogger(cfg); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			cmd.SetContext(context.WithValue(cmd.Context(), configCtxKey, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (yaml)")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newStopCommand())
	rootCmd.AddCommand(newAuthCommand())
	rootCmd.AddCommand(newFilesCommand())

	return rootCmd
}

// getConfig returns the configuration loaded by PersistentPreRunE.
func getConfig(cmd *cobra.Command) *config.Config {
	cfg, _ := cmd.Context().Value(configCtxKey).(*config.Config)
	return cfg
}

func initLogger(cfg *config.Config) error {
	lc := logger.Config{
		Level:   logger.ParseLevel(cfg.Log.Level),
		Format:  logger.ParseFormat(cfg.Log.Format),
		Outputs: []logger.OutputConfig{{Type: logger.OutputStderr}},
		File: logger.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			MaxBackups: cfg.Log.File.MaxBackups,
			Compress:   cfg.Log.File.Compress,
		},
	}
	if lc.File.Enabled {
		lc.Outputs = append(lc.Outputs, logger.OutputConfig{Type: logger.OutputFile})
	}
	return logger.Init(lc)
}

// newHierarchyStore builds the hierarchy store over a Drive session
// source from the loaded configuration.
func newHierarchyStore(cfg *config.Config) *hierarchy.Store {
	sessions := gdrive.NewSessionSource(cfg.Drive.ClientID, cfg.Drive.ClientSecret, cfg.Drive.TokenPath)
	return hierarchy.New(sessions, cfg.Drive.RootFolder)
}
