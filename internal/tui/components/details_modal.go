package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/chapternode/internal/details"
	"github.com/mmcdole/chapternode/internal/tui/styles"
	"github.com/muesli/reflow/wordwrap"
)

// DetailsModal renders a details.Panel with a scrollable description
type DetailsModal struct {
	viewport viewport.Model
	width    int
	height   int
}

// NewDetailsModal creates a new details modal
func NewDetailsModal() DetailsModal {
	return DetailsModal{viewport: viewport.New(60, 10)}
}

// SetSize sets the maximum modal dimensions
func (m *DetailsModal) SetSize(width, height int) {
	m.width = min(max(width-8, 30), 80)
	m.height = max(height-4, 12)
	m.viewport.Width = m.width - 6
	m.viewport.Height = max(m.height-14, 3)
}

// SetPanel loads the panel's description into the scroll area
func (m *DetailsModal) SetPanel(p *details.Panel) {
	if p.State() != details.StateLoaded {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(wordwrap.String(p.Metadata().Description, m.viewport.Width))
	m.viewport.GotoTop()
}

// Update scrolls the description
func (m DetailsModal) Update(msg tea.Msg) (DetailsModal, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the modal
func (m DetailsModal) View(p *details.Panel, spin spinner.Model) string {
	book := p.Book()
	rows := []string{
		styles.ModalTitleStyle.Render("Book Details"),
		styles.TitleStyle.Render(styles.Truncate(book.Title, m.width-6)),
		styles.SubtitleStyle.Render("by " + book.Author),
		"",
	}

	switch p.State() {
	case details.StateLoading:
		rows = append(rows, spin.View()+styles.DimStyle.Render(" Fetching from the catalog..."))
	case details.StateNotFound, details.StateFailed:
		rows = append(rows, styles.ErrorStyle.Render(p.Message()))
	case details.StateLoaded:
		meta := p.Metadata()
		rows = append(rows, renderFacts(meta.PageCount, meta.Year, meta.Category, meta.FormattedRating()))
		rows = append(rows, "", styles.AccentStyle.Render("About this book"), m.viewport.View())
	}

	rows = append(rows, "", styles.DimStyle.Render("j/k scroll · esc close"))

	return styles.ModalStyle.
		Width(m.width).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderFacts(pages int, year, category, rating string) string {
	fact := func(label, value string) string {
		if value == "" {
			value = "Unknown"
		}
		return styles.DimStyle.Render(label+" ") + styles.TitleStyle.Render(value)
	}

	pageText := ""
	if pages > 0 {
		pageText = fmt.Sprintf("%d", pages)
	}
	parts := []string{
		fact("Pages", pageText),
		fact("Published", year),
		fact("Category", category),
	}
	if rating != "" {
		parts = append(parts, fact("Rating", "★ "+rating))
	}
	return strings.Join(parts, styles.DimStyle.Render("  ·  "))
}
