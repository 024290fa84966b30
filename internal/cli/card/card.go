// Package card implements the cardsort board commands.
package card

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/cardsort/internal/app"
	"github.com/thenoetrevino/cardsort/internal/cli"
	"github.com/thenoetrevino/cardsort/internal/models"
)

// Commands returns every board command for registration on the root
func Commands() []*cobra.Command {
	return []*cobra.Command{
		ListCmd(),
		ShowCmd(),
		CreateCmd(),
		EditCmd(),
		DeleteCmd(),
		MoveCmd(),
		WatchCmd(),
	}
}

// addOutputFlags adds the agent-friendly flags every command carries
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
}

func formatterFor(cmd *cobra.Command) *cli.OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
}

// resolveID accepts a full card id or a unique prefix of one
func resolveID(ctx context.Context, board app.Board, raw string) (string, error) {
	cards, err := board.List(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, c := range cards {
		if c.ID == raw {
			return c.ID, nil
		}
		if strings.HasPrefix(c.ID, raw) {
			matches = append(matches, c.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", models.ErrCardNotFound, raw)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: id prefix %q matches %d cards", cli.ErrUsage, raw, len(matches))
	}
}

// failCode picks the machine-readable error code for err
func failCode(err error, fallback string) string {
	switch cli.ExitCode(err) {
	case cli.ExitNotFound:
		return "CARD_NOT_FOUND"
	case cli.ExitValidation:
		return "VALIDATION_ERROR"
	case cli.ExitConflict:
		return "CONFLICT"
	case cli.ExitUsage:
		return "USAGE_ERROR"
	}
	return fallback
}
