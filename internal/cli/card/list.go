package card

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/cardsort/internal/cli"
	"github.com/thenoetrevino/cardsort/internal/cli/styles"
	"github.com/thenoetrevino/cardsort/internal/models"
)

// ListCmd returns the list command
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the board",
		Long: `Show every card, column by column, in board order.

Examples:
  cardsort list
  cardsort list --status todo
  cardsort list --json
`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().String("status", "", "Only list one column")
	addOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := formatterFor(cmd)

	var only models.Status
	if raw, _ := cmd.Flags().GetString("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return formatter.Fail("INVALID_STATUS", err, "Valid statuses are: backlog, todo, in_progress, done")
		}
		only = status
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

	cards, err := cliInstance.Board.List(ctx)
	if err != nil {
		return formatter.Fail("CARD_FETCH_ERROR", err, "")
	}
	if only != "" {
		filtered := cards[:0:0]
		for _, c := range cards {
			if c.Status == only {
				filtered = append(filtered, c)
			}
		}
		cards = filtered
	}
	if cards == nil {
		cards = []models.Card{}
	}

	if formatter.Quiet {
		for _, c := range cards {
			fmt.Println(c.ID)
		}
		return nil
	}

	if formatter.JSON {
		return formatter.Success("cards", cards)
	}

	styles.Init(cliInstance.Config.Theme)
	fmt.Println(styles.RenderBoard(cards))
	return nil
}
