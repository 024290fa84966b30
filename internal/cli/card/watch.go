package card

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/cardsort/internal/board"
	"github.com/thenoetrevino/cardsort/internal/cli"
	"github.com/thenoetrevino/cardsort/internal/cli/styles"
	"github.com/thenoetrevino/cardsort/internal/events"
)

const watchRefresh = 200 * time.Millisecond

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Redraw the board whenever it changes",
		Long: `Show the board and redraw it each time another process changes it.
Needs the cardsort daemon for change notifications.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := &cli.OutputFormatter{}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail("INITIALIZATION_ERROR", err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	var ec events.EventPublisher
	if cliInstance.App != nil {
		ec = cliInstance.App.Events()
	}
	if ec == nil {
		client := events.NewClient(cliInstance.Config.Daemon.Socket, events.WithReconnect(5, time.Second))
		if err := client.Connect(ctx); err != nil {
			return formatter.Fail("DAEMON_UNAVAILABLE", err, events.ClassifyDaemonError(err).Hint)
		}
		defer func() { _ = client.Close() }()
		ec = client
	}

	if err := ec.Subscribe(cliInstance.Owner); err != nil {
		return formatter.Fail("SUBSCRIBE_ERROR", err, "")
	}
	stream, err := ec.Listen(ctx)
	if err != nil {
		return formatter.Fail("LISTEN_ERROR", err, "")
	}

	mgr, err := cliInstance.NewManager(ctx)
	if err != nil {
		return formatter.Fail("BOARD_LOAD_ERROR", err, "")
	}
	go mgr.Follow(ctx, stream)

	styles.Init(cliInstance.Config.Theme)
	return redrawOnChange(ctx, mgr.Board, func(b *board.Board) {
		// clear screen, cursor home
		fmt.Print("\033[H\033[2J")
		fmt.Println(styles.RenderBoard(b.Cards()))
		fmt.Println(styles.SubtitleStyle.Render("watching " + cliInstance.Owner + "'s board, Ctrl+C to quit"))
	})
}

// redrawOnChange calls draw with the current board and again whenever
// current returns a different board, until ctx ends
func redrawOnChange(ctx context.Context, current func() *board.Board, draw func(*board.Board)) error {
	last := current()
	draw(last)

	ticker := time.NewTicker(watchRefresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if next := current(); next != last {
				last = next
				draw(next)
			}
		}
	}
}
