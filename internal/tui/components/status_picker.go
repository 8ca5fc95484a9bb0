package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/mmcdole/chapternode/internal/tui/styles"
)

// StatusPicker is a small popup for choosing a book's reading status
type StatusPicker struct {
	visible bool
	bookID  string
	title   string
	active  domain.BookStatus
	cursor  int
}

// NewStatusPicker creates a new status picker
func NewStatusPicker() StatusPicker {
	return StatusPicker{}
}

// Show opens the picker for a book with the cursor on its current status
func (p *StatusPicker) Show(book domain.TrackedBook) {
	p.visible = true
	p.bookID = book.ID
	p.title = book.Title
	p.active = book.Status
	p.cursor = 0
	for i, s := range domain.AllStatuses {
		if s == book.Status {
			p.cursor = i
			break
		}
	}
}

// Hide dismisses the picker
func (p *StatusPicker) Hide() {
	p.visible = false
}

// IsVisible returns whether the picker is shown
func (p StatusPicker) IsVisible() bool {
	return p.visible
}

// BookID returns the id of the book being edited
func (p StatusPicker) BookID() string {
	return p.bookID
}

// HandleKey processes a key press, returns (handled, selection).
// A non-nil selection means the user confirmed a status.
func (p *StatusPicker) HandleKey(key string) (handled bool, selection *domain.BookStatus) {
	if !p.visible {
		return false, nil
	}

	switch key {
	case "j", "down":
		if p.cursor < len(domain.AllStatuses)-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "enter":
		chosen := domain.AllStatuses[p.cursor]
		p.visible = false
		return true, &chosen
	case "esc", "s":
		p.visible = false
	}

	return true, nil // consume all keys when visible
}

// View renders the picker
func (p StatusPicker) View() string {
	if !p.visible {
		return ""
	}

	var lines []string
	for i, s := range domain.AllStatuses {
		prefix := "  "
		if s == p.active {
			prefix = "✓ "
		}
		text := styles.Pad(prefix+s.Label(), 20)

		style := lipgloss.NewStyle().Foreground(styles.LightGray)
		switch {
		case i == p.cursor:
			style = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
		case s == p.active:
			style = lipgloss.NewStyle().Foreground(styles.StatusColor(s))
		}
		lines = append(lines, style.Render(text))
	}

	title := styles.ModalTitleStyle.Render("Status · " + styles.Truncate(p.title, 24))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Indigo).
		Background(styles.SlateMid).
		Padding(0, 1).
		Render(title + "\n" + strings.Join(lines, "\n"))
}
