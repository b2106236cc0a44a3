package present

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tubeexpert/internal/seo"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("160")).
			Padding(0, 2)
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Padding(0, 2)
	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203"))
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			MarginBottom(1)
	emptyStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("240"))
)

const cardWidth = 78

// RenderTabs draws the tab bar with active highlighted.
func RenderTabs(active Tab) string {
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := strings.ToUpper(string(t))
		if t == active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Render draws every card of tab for the terminal.
func Render(pkg *seo.Package, tab Tab, language string) string {
	cards := Cards(pkg, tab, language)
	if len(cards) == 0 {
		return emptyStyle.Render("Nothing to show.")
	}

	blocks := make([]string, 0, len(cards)+1)
	blocks = append(blocks, RenderTabs(tab))
	for _, c := range cards {
		blocks = append(blocks, RenderCard(c))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func RenderCard(c Card) string {
	body := c.DisplayText()
	if strings.TrimSpace(body) == "" {
		body = emptyStyle.Render(noneDetected)
	}
	return cardStyle.Width(cardWidth).Render(cardTitleStyle.Render(strings.ToUpper(c.Title)) + "\n" + body)
}
