package card

import (
	"fmt"
	"log/slog"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/cardsort/internal/cli"
	"github.com/thenoetrevino/cardsort/internal/cli/styles"
)

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one card",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	addOutputFlags(cmd)
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
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
	card, err := cliInstance.Board.GetCard(ctx, id)
	if err != nil {
		return formatter.Fail(failCode(err, "CARD_FETCH_ERROR"), err, "")
	}

	if formatter.Quiet {
		fmt.Println(card.ID)
		return nil
	}
	if formatter.JSON {
		return formatter.Success("card", card)
	}

	styles.Init(cliInstance.Config.Theme)
	var content strings.Builder
	content.WriteString(styles.TitleStyle.Render(card.Title) + "\n")
	content.WriteString(styles.SubtitleStyle.Render(card.ID) + "\n\n")
	content.WriteString(fmt.Sprintf("%s  position %d\n",
		styles.HeaderStyle(card.Status).UnsetBorderStyle().UnsetWidth().Render(card.Status.Label()), card.Position))
	if card.Description != "" {
		content.WriteString("\n" + card.Description + "\n")
	}
	content.WriteString("\n" + styles.SubtitleStyle.Render("updated "+card.UpdatedAt.Format("2006-01-02 15:04")))

	fmt.Println(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(content.String()))
	return nil
}
