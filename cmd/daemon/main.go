package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/cardsort/internal/config"
	"github.com/thenoetrevino/cardsort/internal/daemon"
	"github.com/thenoetrevino/cardsort/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(os.Stderr, cfg.Log.Level)

	if err := daemon.Run(ctx, cfg.Daemon.Socket); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}
}
