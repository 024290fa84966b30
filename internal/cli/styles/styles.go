package styles

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/cardsort/internal/config"
	"github.com/thenoetrevino/cardsort/internal/models"
)

// ColumnWidth is the rendered width of one board column
var ColumnWidth = 28

var (
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	CardStyle     lipgloss.Style
	ColumnStyle   lipgloss.Style
	SuccessStyle  lipgloss.Style
	ErrorStyle    lipgloss.Style

	headerStyles map[models.Status]lipgloss.Style
)

// Init initializes all CLI styles with the given color scheme
func Init(colors config.ColorScheme) {
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Subtle))

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.Subtle)).
		Foreground(lipgloss.Color(colors.Normal)).
		Padding(0, 1).
		Width(ColumnWidth - 2)

	ColumnStyle = lipgloss.NewStyle().
		Width(ColumnWidth).
		MarginRight(1)

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.InfoFg))

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.ErrorFg))

	headerColors := map[models.Status]string{
		models.StatusBacklog:    colors.Backlog,
		models.StatusTodo:       colors.Todo,
		models.StatusInProgress: colors.InProgress,
		models.StatusDone:       colors.Done,
	}
	headerStyles = make(map[models.Status]lipgloss.Style, len(headerColors))
	for status, color := range headerColors {
		headerStyles[status] = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color)).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color(colors.Accent)).
			Width(ColumnWidth)
	}
}

// HeaderStyle returns the column header style for status
func HeaderStyle(status models.Status) lipgloss.Style {
	if s, ok := headerStyles[status]; ok {
		return s
	}
	return TitleStyle
}

// RenderBoard lays the cards out as one column per status, side by side.
// cards must already be in board order.
func RenderBoard(cards []models.Card) string {
	byStatus := make(map[models.Status][]models.Card, len(models.Statuses))
	for _, c := range cards {
		byStatus[c.Status] = append(byStatus[c.Status], c)
	}

	columns := make([]string, 0, len(models.Statuses))
	for _, status := range models.Statuses {
		columns = append(columns, renderColumn(status, byStatus[status]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderColumn(status models.Status, cards []models.Card) string {
	var b strings.Builder
	b.WriteString(HeaderStyle(status).Render(fmt.Sprintf("%s (%d)", status.Label(), len(cards))))
	b.WriteString("\n")

	if len(cards) == 0 {
		b.WriteString(SubtitleStyle.Render("  empty"))
	}
	for _, c := range cards {
		body := c.Title + "\n" + SubtitleStyle.Render(ShortID(c.ID))
		b.WriteString(CardStyle.Render(body))
		b.WriteString("\n")
	}

	return ColumnStyle.Render(b.String())
}

// ShortID trims a uuid to its first block for display
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i >= 8 {
		return id[:i]
	}
	return id
}
