package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/chapternode/internal/tui/styles"
)

// AddForm is the manual "add a book" modal with title and author fields
type AddForm struct {
	visible bool
	inputs  [2]textinput.Model
	focus   int
	err     string
}

const (
	fieldTitle = iota
	fieldAuthor
)

func newFormInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 32
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	return ti
}

// NewAddForm creates a new add form
func NewAddForm() AddForm {
	return AddForm{
		inputs: [2]textinput.Model{
			newFormInput("e.g. Project Hail Mary", 200),
			newFormInput("e.g. Andy Weir", 120),
		},
	}
}

// Show clears and displays the form with the title field focused
func (f *AddForm) Show() {
	f.visible = true
	f.err = ""
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focus = fieldTitle
	f.inputs[fieldTitle].Focus()
}

// Hide dismisses the form
func (f *AddForm) Hide() {
	f.visible = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// IsVisible returns whether the form is shown
func (f AddForm) IsVisible() bool {
	return f.visible
}

// SetError shows a validation message under the fields
func (f *AddForm) SetError(msg string) {
	f.err = msg
}

// Values returns the raw title and author
func (f AddForm) Values() (title, author string) {
	return f.inputs[fieldTitle].Value(), f.inputs[fieldAuthor].Value()
}

func (f *AddForm) cycleFocus() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// Update handles input events, returns (form, cmd, submitted).
// Enter on the title moves to the author; enter on the author submits.
func (f AddForm) Update(msg tea.Msg) (AddForm, tea.Cmd, bool) {
	if !f.visible {
		return f, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			f.Hide()
			return f, nil, false
		case "tab", "shift+tab", "down", "up":
			f.cycleFocus()
			return f, textinput.Blink, false
		case "enter":
			if f.focus == fieldTitle {
				f.cycleFocus()
				return f, textinput.Blink, false
			}
			return f, nil, true
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = ""
	return f, cmd, false
}

// View renders the form
func (f AddForm) View() string {
	if !f.visible {
		return ""
	}

	label := func(i int, text string) string {
		if i == f.focus {
			return styles.FocusedFieldLabelStyle.Render(text)
		}
		return styles.FieldLabelStyle.Render(text)
	}

	rows := []string{
		styles.ModalTitleStyle.Render("Track a New Book"),
		label(fieldTitle, "Title") + " " + f.inputs[fieldTitle].View(),
		label(fieldAuthor, "Author") + " " + f.inputs[fieldAuthor].View(),
	}
	if f.err != "" {
		rows = append(rows, "", styles.ErrorStyle.Render(f.err))
	}
	rows = append(rows, "", styles.DimStyle.Render("tab switch field · enter save · esc cancel"))

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
