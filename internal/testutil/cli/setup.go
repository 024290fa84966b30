package cli

import (
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/cardsort/internal/app"
	cardcli "github.com/thenoetrevino/cardsort/internal/cli"
	"github.com/thenoetrevino/cardsort/internal/database"
	"github.com/thenoetrevino/cardsort/internal/testutil"
)

// Owner is the board owner every CLI test runs as
const Owner = "tester"

// SetupCLITest creates a fresh SQLite database and an App over it.
// It lives in its own package so service tests can import testutil without
// pulling in the app container.
func SetupCLITest(t *testing.T) (*database.Repository, *app.App) {
	t.Helper()
	repo := testutil.SetupTestRepo(t)
	return repo, app.New(repo)
}

// ExecuteCLICommand runs cmd with args against testApp and returns what it
// wrote to stdout
func ExecuteCLICommand(t *testing.T, testApp *app.App, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()

	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	ctx := cardcli.WithApp(context.Background(), testApp, Owner)

	cmd.SetArgs(args)
	cmd.SetContext(ctx)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	var executeErr error
	output := testutil.CaptureOutput(t, func() {
		executeErr = cmd.ExecuteContext(ctx)
	})

	return output, executeErr
}
