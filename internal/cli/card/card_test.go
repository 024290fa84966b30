package card

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/cardsort/internal/app"
	cardcli "github.com/thenoetrevino/cardsort/internal/cli"
	"github.com/thenoetrevino/cardsort/internal/database"
	"github.com/thenoetrevino/cardsort/internal/models"
	"github.com/thenoetrevino/cardsort/internal/testutil"
	"github.com/thenoetrevino/cardsort/internal/testutil/cli"
)

// seedBoard lays out todo: X Y Z and done: P
func seedBoard(t *testing.T) (*database.Repository, *app.App) {
	t.Helper()
	repo, testApp := cli.SetupCLITest(t)
	for _, title := range []string{"X", "Y", "Z"} {
		testutil.CreateTestCard(t, repo, cli.Owner, title, models.StatusTodo)
	}
	testutil.CreateTestCard(t, repo, cli.Owner, "P", models.StatusDone)
	return repo, testApp
}

func TestList(t *testing.T) {
	_, testApp := seedBoard(t)

	t.Run("human readable", func(t *testing.T) {
		output, err := cli.ExecuteCLICommand(t, testApp, ListCmd(), nil)
		require.NoError(t, err)
		assert.Contains(t, output, "Todo (3)")
		assert.Contains(t, output, "Done (1)")
		assert.Contains(t, output, "Backlog (0)")
	})

	t.Run("quiet", func(t *testing.T) {
		output, err := cli.ExecuteCLICommand(t, testApp, ListCmd(), []string{"--quiet", "--status", "todo"})
		require.NoError(t, err)
		assert.Equal(t, []string{"tester-X", "tester-Y", "tester-Z"}, strings.Fields(output))
	})

	t.Run("json", func(t *testing.T) {
		output, err := cli.ExecuteCLICommand(t, testApp, ListCmd(), []string{"--json"})
		require.NoError(t, err)

		var result struct {
			Success bool          `json:"success"`
			Cards   []models.Card `json:"cards"`
		}
		require.NoError(t, json.Unmarshal([]byte(output), &result))
		assert.True(t, result.Success)
		require.Len(t, result.Cards, 4)
		assert.Equal(t, "tester-P", result.Cards[3].ID)
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := cli.ExecuteCLICommand(t, testApp, ListCmd(), []string{"--status", "someday"})
		require.ErrorIs(t, err, models.ErrInvalidStatus)
		assert.Equal(t, cardcli.ExitValidation, cardcli.ExitCode(err))
	})
}

func TestCreate(t *testing.T) {
	repo, testApp := cli.SetupCLITest(t)

	output, err := cli.ExecuteCLICommand(t, testApp, CreateCmd(), []string{"--title", "Write tests", "--status", "In Progress", "--json"})
	require.NoError(t, err)
	result := testutil.ParseJSON(t, output)
	assert.Equal(t, true, result["success"])
	card := result["card"].(map[string]interface{})
	assert.Equal(t, "in_progress", card["status"])
	assert.EqualValues(t, 0, card["position"])

	output, err = cli.ExecuteCLICommand(t, testApp, CreateCmd(), []string{"--title", "Second", "--status", "in-progress", "--quiet"})
	require.NoError(t, err)
	assert.Len(t, testutil.Layout(t, repo, cli.Owner, models.StatusInProgress), 2)
	assert.Equal(t, testutil.Layout(t, repo, cli.Owner, models.StatusInProgress)[1], strings.TrimSpace(output))

	_, err = cli.ExecuteCLICommand(t, testApp, CreateCmd(), []string{"--title", "   "})
	assert.Equal(t, cardcli.ExitValidation, cardcli.ExitCode(err))
}

func TestEdit(t *testing.T) {
	repo, testApp := seedBoard(t)

	output, err := cli.ExecuteCLICommand(t, testApp, EditCmd(), []string{"tester-X", "--status", "done", "--json"})
	require.NoError(t, err)
	assert.Contains(t, output, `"status":"done"`)
	assert.Equal(t, []string{"tester-Y", "tester-Z"}, testutil.Layout(t, repo, cli.Owner, models.StatusTodo))
	assert.Equal(t, []string{"tester-P", "tester-X"}, testutil.Layout(t, repo, cli.Owner, models.StatusDone))

	_, err = cli.ExecuteCLICommand(t, testApp, EditCmd(), []string{"tester-Z", "--position", "0"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tester-Z", "tester-Y"}, testutil.Layout(t, repo, cli.Owner, models.StatusTodo))

	_, err = cli.ExecuteCLICommand(t, testApp, EditCmd(), []string{"tester-Z"})
	assert.Equal(t, cardcli.ExitUsage, cardcli.ExitCode(err))

	_, err = cli.ExecuteCLICommand(t, testApp, EditCmd(), []string{"nope", "--title", "x"})
	assert.Equal(t, cardcli.ExitNotFound, cardcli.ExitCode(err))
}

func TestDelete(t *testing.T) {
	repo, testApp := seedBoard(t)

	_, err := cli.ExecuteCLICommand(t, testApp, DeleteCmd(), []string{"tester-Y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tester-X", "tester-Z"}, testutil.Layout(t, repo, cli.Owner, models.StatusTodo))

	_, err = cli.ExecuteCLICommand(t, testApp, DeleteCmd(), []string{"tester-Y"})
	assert.Equal(t, cardcli.ExitNotFound, cardcli.ExitCode(err))
}

func TestShow_PrefixMatch(t *testing.T) {
	_, testApp := seedBoard(t)

	output, err := cli.ExecuteCLICommand(t, testApp, ShowCmd(), []string{"tester-P", "--json"})
	require.NoError(t, err)
	assert.Contains(t, output, `"title":"P"`)

	// every seeded id starts with "tester-"
	_, err = cli.ExecuteCLICommand(t, testApp, ShowCmd(), []string{"tester-"})
	assert.Equal(t, cardcli.ExitUsage, cardcli.ExitCode(err))
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantTodo []string
		wantDone []string
	}{
		{
			name:     "to column end",
			args:     []string{"tester-X", "done"},
			wantTodo: []string{"tester-Y", "tester-Z"},
			wantDone: []string{"tester-P", "tester-X"},
		},
		{
			name:     "before a neighbor in another column",
			args:     []string{"tester-Y", "--before", "tester-P"},
			wantTodo: []string{"tester-X", "tester-Z"},
			wantDone: []string{"tester-Y", "tester-P"},
		},
		{
			name:     "after a neighbor in the same column",
			args:     []string{"tester-X", "--after", "tester-Z"},
			wantTodo: []string{"tester-Y", "tester-Z", "tester-X"},
			wantDone: []string{"tester-P"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, testApp := seedBoard(t)

			output, err := cli.ExecuteCLICommand(t, testApp, MoveCmd(), append(tt.args, "--json"))
			require.NoError(t, err)
			result := testutil.ParseJSON(t, output)
			move := result["move"].(map[string]interface{})
			assert.Equal(t, "ok", move["outcome"])

			assert.Equal(t, tt.wantTodo, testutil.Layout(t, repo, cli.Owner, models.StatusTodo))
			assert.Equal(t, tt.wantDone, testutil.Layout(t, repo, cli.Owner, models.StatusDone))
		})
	}
}

func TestMove_UnchangedIsSkipped(t *testing.T) {
	_, testApp := seedBoard(t)

	output, err := cli.ExecuteCLICommand(t, testApp, MoveCmd(), []string{"tester-X", "--before", "tester-Y"})
	require.NoError(t, err)
	assert.Contains(t, output, "already there")
}

func TestMove_TargetValidation(t *testing.T) {
	_, testApp := seedBoard(t)

	_, err := cli.ExecuteCLICommand(t, testApp, MoveCmd(), []string{"tester-X"})
	assert.Equal(t, cardcli.ExitUsage, cardcli.ExitCode(err))

	_, err = cli.ExecuteCLICommand(t, testApp, MoveCmd(), []string{"tester-X", "done", "--after", "tester-P"})
	assert.Equal(t, cardcli.ExitUsage, cardcli.ExitCode(err))

	_, err = cli.ExecuteCLICommand(t, testApp, MoveCmd(), []string{"tester-X", "someday"})
	assert.Equal(t, cardcli.ExitValidation, cardcli.ExitCode(err))

	_, err = cli.ExecuteCLICommand(t, testApp, MoveCmd(), []string{"ghost", "done"})
	assert.Equal(t, cardcli.ExitNotFound, cardcli.ExitCode(err))
}
