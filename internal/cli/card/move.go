package card

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/cardsort/internal/cli"
	"github.com/thenoetrevino/cardsort/internal/cli/styles"
	"github.com/thenoetrevino/cardsort/internal/models"
	"github.com/thenoetrevino/cardsort/internal/projector"
	"github.com/thenoetrevino/cardsort/internal/session"
)

// MoveCmd returns the move command
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <id> [status]",
		Short: "Drag a card to a new place on the board",
		Long: `Move a card the way a drag and drop would: next to another card, or to
the end of a column. Only the columns involved are renumbered, in one
atomic commit.

Examples:
  # End of the done column
  cardsort move 3f2a done

  # Just above another card (its column is implied)
  cardsort move 3f2a --before 9c1e

  # Just below another card
  cardsort move 3f2a --after 9c1e
`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runMove,
	}

	cmd.Flags().String("before", "", "Land directly above this card")
	cmd.Flags().String("after", "", "Land directly below this card")
	addOutputFlags(cmd)

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := formatterFor(cmd)

	before, _ := cmd.Flags().GetString("before")
	after, _ := cmd.Flags().GetString("after")

	targets := 0
	for _, set := range []bool{len(args) == 2, before != "", after != ""} {
		if set {
			targets++
		}
	}
	if targets != 1 {
		return formatter.Fail("INVALID_TARGET",
			fmt.Errorf("%w: give exactly one of a status, --before or --after", cli.ErrUsage),
			"Example: cardsort move <id> done")
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail("INITIALIZATION_ERROR", err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	cardID, err := resolveID(ctx, cliInstance.Board, args[0])
	if err != nil {
		return formatter.Fail(failCode(err, "CARD_FETCH_ERROR"), err, "Use 'cardsort list' to see card ids")
	}

	var target projector.Target
	switch {
	case len(args) == 2:
		status, err := models.ParseStatus(args[1])
		if err != nil {
			return formatter.Fail("INVALID_STATUS", err, "Valid statuses are: backlog, todo, in_progress, done")
		}
		target = projector.ColumnTarget(status)
	case before != "":
		neighbor, err := resolveID(ctx, cliInstance.Board, before)
		if err != nil {
			return formatter.Fail(failCode(err, "CARD_FETCH_ERROR"), err, "")
		}
		target = projector.NeighborTarget(neighbor, projector.Before)
	default:
		neighbor, err := resolveID(ctx, cliInstance.Board, after)
		if err != nil {
			return formatter.Fail(failCode(err, "CARD_FETCH_ERROR"), err, "")
		}
		target = projector.NeighborTarget(neighbor, projector.After)
	}

	mgr, err := cliInstance.NewManager(ctx)
	if err != nil {
		return formatter.Fail("BOARD_LOAD_ERROR", err, "")
	}

	drag, err := mgr.PickUp(cardID)
	if err != nil {
		return formatter.Fail("CARD_NOT_FOUND", fmt.Errorf("%w: %w", models.ErrCardNotFound, err), "")
	}
	if _, err := drag.Hover(target); err != nil {
		_ = drag.Cancel()
		return formatter.Fail("MOVE_ERROR", err, "")
	}

	pending, err := drag.Drop(ctx)
	if err != nil {
		return formatter.Fail("MOVE_ERROR", err, "")
	}
	outcome, err := pending.Wait(ctx)
	if outcome.Failed() {
		if err == nil {
			err = fmt.Errorf("move %s", outcome)
		}
		return formatter.Fail(failCode(err, "MOVE_FAILED"), err, "Run 'cardsort list' to see the current board")
	}

	card, _ := mgr.Board().Get(cardID)
	result := map[string]any{
		"id":       card.ID,
		"status":   card.Status,
		"position": card.Position,
		"outcome":  outcome.String(),
		"items":    pending.Items,
	}

	if formatter.Quiet {
		fmt.Println(card.ID)
		return nil
	}
	if formatter.JSON {
		return formatter.Success("move", result)
	}

	styles.Init(cliInstance.Config.Theme)
	if outcome == session.OutcomeSkipped {
		fmt.Printf("Card '%s' is already there\n", card.Title)
		return nil
	}
	fmt.Printf("%s Moved '%s' to %s, position %d (%d cards renumbered)\n",
		styles.SuccessStyle.Render("✓"), card.Title, card.Status.Label(), card.Position, len(pending.Items))
	return nil
}
