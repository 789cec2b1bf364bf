package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tlesnik44-code/origocode/internal/api"
	"github.com/tlesnik44-code/origocode/internal/daemon"
	"github.com/tlesnik44-code/origocode/internal/history"
	"github.com/tlesnik44-code/origocode/internal/logger"
	"github.com/tlesnik44-code/origocode/internal/scheduler"
)

func newServeCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)
			log := logger.With("component", "serve")

			if listen != "" {
				cfg.Server.Listen = listen
			}

			pidPath := cfg.Server.PIDFile
			if pidPath == "" {
				var err error
				pidPath, err = daemon.DefaultPIDPath()
				if err != nil {
					return err
				}
			}
			pidFile := daemon.NewPIDFile(pidPath)
			if err := pidFile.Write(); err != nil {
				return err
			}
			defer pidFile.Remove()

			var hist *history.Store
			if cfg.History.Enabled {
				var err error
				hist, err = history.NewStore(cfg.History.DataDir)
				if err != nil {
					return fmt.Errorf("failed to open history store: %w", err)
				}
				defer hist.Close()

				retention := time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
				prune, err := scheduler.NewIntervalScheduler(24*time.Hour, scheduler.JobFunc(func(context.Context) error {
					removed, err := hist.Prune(retention)
					if err != nil {
						log.Warn("history prune failed", "error", err)
						return err
					}
					if removed > 0 {
						log.Info("pruned operation history", "removed", removed)
					}
					return nil
				}))
				if err != nil {
					return err
				}
				if err := prune.Start(cmd.Context()); err != nil {
					return err
				}
				defer func() { _ = prune.Stop() }()
			}

			files := newHierarchyStore(cfg)
			server := &http.Server{
				Addr:    cfg.Server.Listen,
				Handler: api.NewServer(files, hist).Handler(),
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("http server listening", "addr", cfg.Server.Listen)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				return fmt.Errorf("http server failed: %w", err)
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(),
				time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown incomplete: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address, overrides server.listen")

	return cmd
}

func newStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)

			pidPath := cfg.Server.PIDFile
			if pidPath == "" {
				var err error
				pidPath, err = daemon.DefaultPIDPath()
				if err != nil {
					return err
				}
			}

			pidFile := daemon.NewPIDFile(pidPath)
			running, err := pidFile.IsRunning()
			if err != nil {
				return fmt.Errorf("no running server found: %w", err)
			}
			if !running {
				_ = pidFile.Remove()
				return errors.New("server is not running")
			}

			return pidFile.Kill()
		},
	}
}
