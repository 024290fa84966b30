package card

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/cardsort/internal/cli"
	"github.com/thenoetrevino/cardsort/internal/cli/styles"
	"github.com/thenoetrevino/cardsort/internal/models"
)

// EditCmd returns the edit command
func EditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a card's fields or placement",
		Long: `Change a card's title, description, column or position.
Only the flags you pass are changed. Changing --status without --position
puts the card at the end of the new column.

Examples:
  cardsort edit 3f2a --title="Fix login bug"
  cardsort edit 3f2a --status=done
  cardsort edit 3f2a --position=0
`,
		Args: cobra.ExactArgs(1),
		RunE: runEdit,
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().String("status", "", "New column")
	cmd.Flags().Int("position", 0, "New position within the column (0 = top)")
	addOutputFlags(cmd)

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := formatterFor(cmd)

	var patch models.CardPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		patch.Title = &title
	}
	if flags.Changed("description") {
		description, _ := flags.GetString("description")
		patch.Description = &description
	}
	if flags.Changed("status") {
		raw, _ := flags.GetString("status")
		status, err := models.ParseStatus(raw)
		if err != nil {
			return formatter.Fail("INVALID_STATUS", err, "Valid statuses are: backlog, todo, in_progress, done")
		}
		patch.Status = &status
	}
	if flags.Changed("position") {
		position, _ := flags.GetInt("position")
		patch.Position = &position
	}
	if patch == (models.CardPatch{}) {
		return formatter.Fail("NO_CHANGES", fmt.Errorf("%w: nothing to change", cli.ErrUsage),
			"Pass at least one of --title, --description, --status, --position")
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

	id, err := resolveID(ctx, cliInstance.Board, args[0])
	if err != nil {
		return formatter.Fail(failCode(err, "CARD_FETCH_ERROR"), err, "Use 'cardsort list' to see card ids")
	}

	card, err := cliInstance.Board.UpdateCard(ctx, id, patch)
	if err != nil {
		return formatter.Fail(failCode(err, "CARD_UPDATE_ERROR"), err, "")
	}

	if formatter.Quiet {
		fmt.Println(card.ID)
		return nil
	}
	if formatter.JSON {
		return formatter.Success("card", card)
	}

	styles.Init(cliInstance.Config.Theme)
	fmt.Printf("%s Card '%s' updated (%s, position %d)\n",
		styles.SuccessStyle.Render("✓"), card.Title, card.Status.Label(), card.Position)
	return nil
}
