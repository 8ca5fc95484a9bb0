package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/chapternode/internal/assistant"
	"github.com/mmcdole/chapternode/internal/tui/styles"
	"github.com/muesli/reflow/wordwrap"
)

// ChatDrawer is the deep-dive chat panel: a scrolling transcript and an input
type ChatDrawer struct {
	viewport viewport.Model
	input    textinput.Model
	width    int
	height   int
}

// NewChatDrawer creates a new chat drawer
func NewChatDrawer() ChatDrawer {
	ti := textinput.New()
	ti.Placeholder = "Ask about this book..."
	ti.CharLimit = 500
	ti.Prompt = "› "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return ChatDrawer{
		viewport: viewport.New(60, 16),
		input:    ti,
	}
}

// Focus focuses the question input
func (d *ChatDrawer) Focus() tea.Cmd {
	d.input.SetValue("")
	return d.input.Focus()
}

// Blur releases the question input
func (d *ChatDrawer) Blur() {
	d.input.Blur()
}

// Value returns the typed question
func (d ChatDrawer) Value() string {
	return d.input.Value()
}

// ClearInput empties the question input
func (d *ChatDrawer) ClearInput() {
	d.input.SetValue("")
}

// SetSize sets the drawer's outer dimensions
func (d *ChatDrawer) SetSize(width, height int) {
	d.width = width
	d.height = height
	// border + padding + header + input rows
	d.viewport.Width = max(width-6, 10)
	d.viewport.Height = max(height-9, 3)
	d.input.Width = max(width-10, 10)
}

// SetConversation re-renders the transcript and scrolls to the newest message
func (d *ChatDrawer) SetConversation(c *assistant.Conversation, thinkingFrame string) {
	d.viewport.SetContent(renderTranscript(c, d.viewport.Width, thinkingFrame))
	d.viewport.GotoBottom()
}

// Update handles input events, returns (drawer, cmd, submitted)
func (d ChatDrawer) Update(msg tea.Msg) (ChatDrawer, tea.Cmd, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return d, nil, true
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			d.viewport, cmd = d.viewport.Update(msg)
			return d, cmd, false
		}
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd, false
}

func renderTranscript(c *assistant.Conversation, width int, thinkingFrame string) string {
	if c == nil {
		return ""
	}
	bubbleWidth := max(width*4/5, 10)

	var blocks []string
	for _, msg := range c.Messages() {
		text := msg.Content
		if text == "" && msg.Role == assistant.RoleAI {
			text = thinkingFrame + " thinking..."
		}
		wrapped := wordwrap.String(text, bubbleWidth-2)

		if msg.Role == assistant.RoleUser {
			bubble := styles.UserBubbleStyle.Render(wrapped)
			blocks = append(blocks, lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))
		} else {
			blocks = append(blocks, styles.AIBubbleStyle.Render(wrapped))
		}
	}
	return strings.Join(blocks, "\n\n")
}

// View renders the drawer for the given book title
func (d ChatDrawer) View(title string, replying bool, spin spinner.Model) string {
	header := styles.ModalTitleStyle.Render("Deep Dive · " + styles.Truncate(title, max(d.width-20, 10)))

	inputLine := d.input.View()
	if replying {
		inputLine = spin.View() + styles.DimStyle.Render(" waiting for reply...")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		d.viewport.View(),
		"",
		inputLine,
		styles.DimStyle.Render("enter send · pgup/pgdn scroll · esc close"),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Indigo).
		Background(styles.SlateMid).
		Padding(0, 2).
		Width(max(d.width-2, 20)).
		Height(max(d.height-2, 8)).
		Render(content)
}
