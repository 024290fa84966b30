package styles

import (
	"strings"
	"testing"

	"github.com/thenoetrevino/cardsort/internal/config"
	"github.com/thenoetrevino/cardsort/internal/models"
)

func TestRenderBoard(t *testing.T) {
	Init(config.DefaultColorScheme())

	out := RenderBoard([]models.Card{
		{ID: "0f8fad5b-d9cb-469f-a165-70867728950e", Title: "Alpha", Status: models.StatusTodo},
		{ID: "7c9e6679-7425-40de-944b-e07fc1f90ae7", Title: "Beta", Status: models.StatusDone},
	})

	for _, want := range []string{"Backlog (0)", "Todo (1)", "In Progress (0)", "Done (1)", "Alpha", "Beta", "0f8fad5b", "empty"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered board missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "d9cb-469f") {
		t.Error("card ids should be shortened")
	}
}

func TestShortID(t *testing.T) {
	tests := map[string]string{
		"0f8fad5b-d9cb-469f-a165-70867728950e": "0f8fad5b",
		"tester-X":                             "tester-X",
		"abc":                                  "abc",
	}
	for in, want := range tests {
		if got := ShortID(in); got != want {
			t.Errorf("ShortID(%q) = %q, want %q", in, got, want)
		}
	}
}
