package card

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/cardsort/internal/cli"
)

// DeleteCmd returns the delete command
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
	addOutputFlags(cmd)
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := formatterFor(cmd)

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail("INITIALIZATION_ERROR", err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	id, err := resolveID(ctx, cliInstance.Board, args[0])
	if err != nil {
		return formatter.Fail(failCode(err, "CARD_FETCH_ERROR"), err, "Use 'cardsort list' to see card ids")
	}
	if err := cliInstance.Board.DeleteCard(ctx, id); err != nil {
		return formatter.Fail(failCode(err, "CARD_DELETE_ERROR"), err, "")
	}

	if formatter.Quiet {
		fmt.Println(id)
		return nil
	}
	if formatter.JSON {
		return formatter.Success("deleted", id)
	}
	fmt.Printf("✓ Card %s deleted\n", id)
	return nil
}
