package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/mmcdole/chapternode/internal/tui/styles"
)

// ProgressEditor logs the page reached out of the book's total
type ProgressEditor struct {
	visible bool
	book    domain.TrackedBook
	inputs  [2]textinput.Model
	focus   int
	bar     progress.Model
}

const (
	fieldPage = iota
	fieldTotal
)

func newNumberInput() textinput.Model {
	ti := newFormInput("0", 6)
	ti.Width = 8
	ti.Validate = func(s string) error {
		for _, r := range s {
			if r < '0' || r > '9' {
				return fmt.Errorf("digits only")
			}
		}
		return nil
	}
	return ti
}

// NewProgressEditor creates a new progress editor
func NewProgressEditor() ProgressEditor {
	return ProgressEditor{
		inputs: [2]textinput.Model{newNumberInput(), newNumberInput()},
		bar:    progress.New(progress.WithSolidFill(string(styles.Indigo)), progress.WithWidth(30)),
	}
}

// Show opens the editor prefilled with the book's pages
func (e *ProgressEditor) Show(book domain.TrackedBook) {
	e.visible = true
	e.book = book
	e.inputs[fieldPage].SetValue(strconv.Itoa(book.CurrentPage))
	e.inputs[fieldTotal].SetValue(strconv.Itoa(book.TotalPages))
	e.inputs[fieldTotal].Blur()
	e.focus = fieldPage
	e.inputs[fieldPage].Focus()
	e.inputs[fieldPage].CursorEnd()
}

// Hide dismisses the editor
func (e *ProgressEditor) Hide() {
	e.visible = false
	for i := range e.inputs {
		e.inputs[i].Blur()
	}
}

// IsVisible returns whether the editor is shown
func (e ProgressEditor) IsVisible() bool {
	return e.visible
}

// BookID returns the id of the book being edited
func (e ProgressEditor) BookID() string {
	return e.book.ID
}

// Values returns the entered page and total. Unparseable input reads as 0.
func (e ProgressEditor) Values() (page, total int) {
	return atoiOrZero(e.inputs[fieldPage].Value()), atoiOrZero(e.inputs[fieldTotal].Value())
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// preview mirrors how the tracker will clamp the entered values
func (e ProgressEditor) preview() float64 {
	page, total := e.Values()
	total = max(total, 1)
	page = min(max(page, 0), total)
	return float64(page) / float64(total)
}

// Update handles input events, returns (editor, cmd, submitted)
func (e ProgressEditor) Update(msg tea.Msg) (ProgressEditor, tea.Cmd, bool) {
	if !e.visible {
		return e, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			e.Hide()
			return e, nil, false
		case "tab", "shift+tab", "left", "right":
			e.inputs[e.focus].Blur()
			e.focus = 1 - e.focus
			e.inputs[e.focus].Focus()
			return e, textinput.Blink, false
		case "enter":
			return e, nil, true
		}
	}

	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return e, cmd, false
}

// View renders the editor
func (e ProgressEditor) View() string {
	if !e.visible {
		return ""
	}

	pageLabel := styles.FieldLabelStyle.Render("Page")
	totalLabel := styles.FieldLabelStyle.Render("of")
	if e.focus == fieldPage {
		pageLabel = styles.FocusedFieldLabelStyle.Render("Page")
	} else {
		totalLabel = styles.FocusedFieldLabelStyle.Render("of")
	}

	pct := e.preview()
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Log Progress"),
		styles.TitleStyle.Render(styles.Truncate(e.book.Title, 40)),
		styles.SubtitleStyle.Render(e.book.Author),
		"",
		pageLabel+" "+e.inputs[fieldPage].View(),
		totalLabel+" "+e.inputs[fieldTotal].View(),
		"",
		e.bar.ViewAs(pct)+" "+styles.AccentStyle.Render(fmt.Sprintf("%d%%", int(pct*100+0.5))),
		"",
		styles.DimStyle.Render("tab switch · enter save · esc cancel"),
	)
	return styles.ModalStyle.Render(content)
}
