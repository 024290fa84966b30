package card

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/cardsort/internal/cli"
	"github.com/thenoetrevino/cardsort/internal/cli/styles"
	"github.com/thenoetrevino/cardsort/internal/models"
)

// CreateCmd returns the create command
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a card to the end of a column",
		Long: `Add a card to the end of a column.

Examples:
  # Simple card (goes to todo)
  cardsort create --title="Fix bug"

  # Straight into the backlog, description from stdin
  echo "details" | cardsort create --title="Spike" --status=backlog --description=-

  # Quiet mode for bash capture
  CARD_ID=$(cardsort create --title="Fix bug" --quiet)
`,
		Args: cobra.NoArgs,
		RunE: runCreate,
	}

	cmd.Flags().String("title", "", "Card title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().String("description", "", "Card description (use - for stdin)")
	cmd.Flags().String("status", "", "Column: backlog, todo, in_progress, done (default todo)")
	addOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := formatterFor(cmd)

	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	rawStatus, _ := cmd.Flags().GetString("status")

	var status models.Status
	if rawStatus != "" {
		parsed, err := models.ParseStatus(rawStatus)
		if err != nil {
			return formatter.Fail("INVALID_STATUS", err, "Valid statuses are: backlog, todo, in_progress, done")
		}
		status = parsed
	}

	if description == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return formatter.Fail("STDIN_READ_ERROR", err, "")
		}
		description = string(data)
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

	card, err := cliInstance.Board.CreateCard(ctx, title, description, status)
	if err != nil {
		return formatter.Fail(failCode(err, "CARD_CREATE_ERROR"), err, "")
	}

	if formatter.Quiet {
		fmt.Println(card.ID)
		return nil
	}
	if formatter.JSON {
		return formatter.Success("card", card)
	}

	styles.Init(cliInstance.Config.Theme)
	fmt.Fprintf(os.Stdout, "%s Card '%s' created in %s at position %d (ID: %s)\n",
		styles.SuccessStyle.Render("✓"), card.Title, card.Status.Label(), card.Position, card.ID)
	return nil
}
