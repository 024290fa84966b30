// Package cli holds what every cardsort command shares: opening the board,
// output formatting, exit codes and board rendering.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/thenoetrevino/cardsort/internal/app"
	"github.com/thenoetrevino/cardsort/internal/client"
	"github.com/thenoetrevino/cardsort/internal/config"
	"github.com/thenoetrevino/cardsort/internal/session"
)

// CLI represents the CLI application context
type CLI struct {
	Config *config.Config
	Owner  string

	// Board is the owner's board, in process or over HTTP
	Board app.Board

	// App is nil when commands go through the HTTP API
	App *app.App

	ownsApp bool
}

// NewCLI opens the configured board. With client.api_url set, commands go
// through the HTTP API; otherwise storage is opened directly.
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Client.APIURL != "" {
		return &CLI{
			Config: cfg,
			Owner:  cfg.Owner,
			Board:  client.New(cfg.Client.APIURL, client.WithTimeout(cfg.Client.CommitTimeout)),
		}, nil
	}

	application, err := app.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &CLI{
		Config:  cfg,
		Owner:   cfg.Owner,
		Board:   application.Board(cfg.Owner),
		App:     application,
		ownsApp: true,
	}, nil
}

// NewManager loads a drag session manager for the board. Failed commits are
// reported on stderr.
func (c *CLI) NewManager(ctx context.Context) (*session.Manager, error) {
	mgr := session.NewManager(c.Owner, c.Board,
		session.WithCommitTimeout(c.Config.Client.CommitTimeout),
		session.WithNotifier(session.NotifierFunc(func(n session.Notice) {
			fmt.Fprintf(os.Stderr, "⚠ Move of %s reverted (%s): %v\n", n.CardID, n.Outcome, n.Err)
		})),
	)
	if err := mgr.Resync(ctx); err != nil {
		return nil, err
	}
	return mgr, nil
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	if c.ownsApp && c.App != nil {
		return c.App.Close()
	}
	return nil
}
