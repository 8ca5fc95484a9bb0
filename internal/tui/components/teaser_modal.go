package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/chapternode/internal/assistant"
	"github.com/mmcdole/chapternode/internal/tui/styles"
	"github.com/muesli/reflow/wordwrap"
)

const teaserWidth = 60

// RenderTeaser renders the teaser overlay for the current teaser state
func RenderTeaser(t assistant.Teaser, cursorFrame int) string {
	book := t.Book()

	summary := t.Summary()
	if t.Status() == assistant.TeaserGenerating {
		// Blinking block cursor while text is still arriving
		if cursorFrame%2 == 0 {
			summary += "▍"
		} else {
			summary += " "
		}
	}

	var footer string
	if t.CanStartReading() {
		footer = styles.HelpKeyStyle.Render("enter") + styles.HelpDescStyle.Render(" start reading  ") +
			styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" close")
	} else {
		footer = styles.DimStyle.Render("Generating summary...  esc close")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("✦ AI Teaser"),
		styles.TitleStyle.Render(book.Title),
		styles.SubtitleStyle.Render("by "+book.Author),
		"",
		lipgloss.NewStyle().Foreground(styles.White).Width(teaserWidth).Render(wordwrap.String(summary, teaserWidth)),
		"",
		footer,
	)
	return styles.ModalStyle.Render(content)
}
