package daemon

import (
	"context"
	"log/slog"
	"os"
)

// Run starts a daemon on socketPath and blocks until ctx is cancelled.
func Run(ctx context.Context, socketPath string) error {
	server, err := NewServer(socketPath, DefaultOptions())
	if err != nil {
		return err
	}

	slog.Info("cardsort daemon starting", "socket_path", socketPath, "pid", os.Getpid())
	if err := server.Start(ctx); err != nil {
		return err
	}
	slog.Info("cardsort daemon shutting down gracefully")
	return nil
}
