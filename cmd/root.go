// Package cmd wires the cardsort command tree.
package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/cardsort/internal/api"
	"github.com/thenoetrevino/cardsort/internal/app"
	"github.com/thenoetrevino/cardsort/internal/cli/card"
	"github.com/thenoetrevino/cardsort/internal/config"
	"github.com/thenoetrevino/cardsort/internal/daemon"
	"github.com/thenoetrevino/cardsort/internal/logging"
)

var logCloser io.Closer

var rootCmd = &cobra.Command{
	Use:   "cardsort",
	Short: "cardsort - drag-and-drop ordering for kanban cards",
	Long: `cardsort keeps a per-user kanban board in a dense, gap-free order and
lets cards be dragged between and within the Backlog, Todo, In Progress and
Done columns.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		closer, err := logging.Init(cfg.Log.File, cfg.Log.Level)
		if err != nil {
			// log to stderr instead
			logging.Setup(os.Stderr, cfg.Log.Level)
			slog.Warn("failed to open log file", "path", cfg.Log.File, "error", err)
			return nil
		}
		logCloser = closer
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(card.Commands()...)
	rootCmd.AddCommand(serveCmd(), daemonCmd())
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := app.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					slog.Error("failed to close app", "error", err)
				}
			}()

			gin.SetMode(gin.ReleaseMode)
			router := api.NewRouter(a.Service, cfg.Owner)
			slog.Info("serving board", "addr", cfg.Server.Addr, "owner", cfg.Owner)
			return api.Serve(ctx, cfg.Server.Addr, router)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the change-notification daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
			defer cancel()
			return daemon.Run(ctx, cfg.Daemon.Socket)
		},
	}
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
