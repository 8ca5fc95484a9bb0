package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/chapternode/internal/domain"
)

// Color palette
var (
	Indigo     = lipgloss.Color("#818CF8")
	IndigoDeep = lipgloss.Color("#4F46E5")
	SlateDark  = lipgloss.Color("#0F172A")
	SlateMid   = lipgloss.Color("#1E293B")
	SlateLight = lipgloss.Color("#334155")
	DimGray    = lipgloss.Color("#64748B")
	LightGray  = lipgloss.Color("#94A3B8")
	White      = lipgloss.Color("#F8FAFC")
	Green      = lipgloss.Color("#10B981")
	Amber      = lipgloss.Color("#F59E0B")
	Red        = lipgloss.Color("#EF4444")
)

// Pane borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Indigo).
			Padding(0, 1)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SlateLight).
			Padding(0, 1)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Indigo)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	ReasonStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Italic(true)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Indigo).
			Padding(1, 2).
			Background(SlateMid)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)

	FieldLabelStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Width(8)

	FocusedFieldLabelStyle = lipgloss.NewStyle().
				Foreground(Indigo).
				Bold(true).
				Width(8)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Indigo)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Badge styles
var (
	BadgeStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(IndigoDeep).
			Padding(0, 1)

	DimBadgeStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateLight).
			Padding(0, 1)
)

// Chat bubbles
var (
	UserBubbleStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(IndigoDeep).
			Padding(0, 1)

	AIBubbleStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(SlateLight).
			Padding(0, 1)
)

// Spinner style
var SpinnerStyle = lipgloss.NewStyle().Foreground(Indigo)

// StatusColor returns the badge color for a reading status
func StatusColor(s domain.BookStatus) lipgloss.Color {
	switch s {
	case domain.StatusReading:
		return Indigo
	case domain.StatusRead:
		return Green
	case domain.StatusDNF:
		return Red
	case domain.StatusToRead:
		return Amber
	default:
		return LightGray
	}
}

// RenderStatusBadge renders a colored status label
func RenderStatusBadge(s domain.BookStatus) string {
	return lipgloss.NewStyle().
		Foreground(SlateDark).
		Background(StatusColor(s)).
		Padding(0, 1).
		Render(strings.ToUpper(s.Label()))
}

// Helper functions

// Truncate shortens s to width cells with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// Pad pads s with spaces to width cells
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return Truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// RenderListRow renders a row with a uniform background when selected.
// Each part is styled separately so ANSI resets do not break the background.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	var b strings.Builder
	visible := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(White)
		default:
			style = style.Foreground(LightGray)
		}
		if selected {
			style = style.Background(SlateLight)
		}
		b.WriteString(style.Render(part.Text))
		visible += lipgloss.Width(part.Text)
	}

	if pad := width - visible - 2; pad > 0 {
		padStyle := lipgloss.NewStyle()
		if selected {
			padStyle = padStyle.Background(SlateLight)
		}
		b.WriteString(padStyle.Render(strings.Repeat(" ", pad)))
	}

	marginStyle := lipgloss.NewStyle()
	if selected {
		marginStyle = marginStyle.Background(SlateLight)
	}
	margin := marginStyle.Render(" ")
	return margin + b.String() + margin
}

// RowPart is a piece of a list row with an optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}

// MatchParts splits s into row parts, coloring the runes at the given
// byte offsets so filter hits stay visible on a selected row.
func MatchParts(s string, indexes []int) []RowPart {
	if len(indexes) == 0 {
		return []RowPart{{Text: s}}
	}
	hit := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		hit[i] = true
	}

	var parts []RowPart
	var run strings.Builder
	runHit := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		part := RowPart{Text: run.String()}
		if runHit {
			part.Foreground = &Indigo
		}
		parts = append(parts, part)
		run.Reset()
	}
	for i, r := range s {
		if hit[i] != runHit {
			flush()
			runHit = hit[i]
		}
		run.WriteRune(r)
	}
	flush()
	return parts
}
