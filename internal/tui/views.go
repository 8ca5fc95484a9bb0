package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/mmcdole/chapternode/internal/tui/styles"
	"github.com/muesli/reflow/wordwrap"
)

// renderTracker renders the "Currently Reading" pane
func (m Model) renderTracker(width, height int) string {
	border := styles.InactiveBorder
	if m.Pane == PaneTracker {
		border = styles.ActiveBorder
	}
	inner := width - 4

	countBadge := styles.DimBadgeStyle
	if m.Pane == PaneTracker {
		countBadge = styles.BadgeStyle
	}
	header := styles.TitleStyle.Render("Currently Reading") + " " +
		countBadge.Render(fmt.Sprintf("%d", len(m.Books)))
	lines := []string{header}
	if m.Pane == PaneTracker {
		lines = append(lines, m.renderFilterLine())
	} else {
		lines = append(lines, "")
	}

	rows := m.visibleBooks()
	if len(rows) == 0 {
		empty := "No books yet. Press a to add one."
		if m.filterQuery != "" && m.Pane == PaneTracker {
			empty = "No books match the filter."
		}
		lines = append(lines, styles.DimStyle.Render(empty))
	}

	// Each book takes two lines plus a spacer
	visible := max((height-4)/3, 1)
	start := 0
	if m.TrackerCursor >= visible {
		start = m.TrackerCursor - visible + 1
	}
	for i := start; i < len(rows) && i < start+visible; i++ {
		selected := m.Pane == PaneTracker && i == m.TrackerCursor
		lines = append(lines, m.renderBookRow(rows[i].Book, rows[i].MatchedIndexes, selected, inner)...)
	}

	return border.
		Width(width - 2).
		Height(height - 2).
		Render(strings.Join(lines, "\n"))
}

// renderBookRow renders a tracked book as a title line and a progress line
func (m Model) renderBookRow(book domain.TrackedBook, matches []int, selected bool, width int) []string {
	badge := styles.RenderStatusBadge(book.Status)
	titleWidth := max(width-lipgloss.Width(badge)-3, 8)

	title := styles.Truncate(book.Title, titleWidth)
	parts := []styles.RowPart{{Text: title}}
	if title == book.Title {
		parts = styles.MatchParts(title, matches)
	}
	if selected {
		parts = append([]styles.RowPart{{Text: "▸ ", Foreground: &styles.Indigo}}, parts...)
	} else {
		parts = append([]styles.RowPart{{Text: "  "}}, parts...)
	}
	top := styles.RenderListRow(parts, selected, width-lipgloss.Width(badge)) + badge

	bar := m.bar.ViewAs(float64(book.Progress) / 100)
	meta := styles.DimStyle.Render(fmt.Sprintf(" %3d%%  p. %s  %s",
		book.Progress, book.PageLabel(), styles.Truncate(book.Author, 24)))
	bottom := "  " + bar + meta

	return []string{top, bottom, ""}
}

// renderFeed renders the "Curated For You" pane
func (m Model) renderFeed(width, height int) string {
	border := styles.InactiveBorder
	if m.Pane == PaneFeed {
		border = styles.ActiveBorder
	}
	inner := width - 4

	header := styles.TitleStyle.Render("Curated For You")
	if m.Refreshing {
		header += " " + m.spinner.View()
	}
	lines := []string{header}
	if m.Pane == PaneFeed {
		lines = append(lines, m.renderFilterLine())
	} else {
		lines = append(lines, "")
	}

	recs := m.visibleRecs()
	if len(recs) == 0 {
		lines = append(lines, styles.DimStyle.Render("Nothing to recommend."))
	}
	for i, rec := range recs {
		selected := m.Pane == PaneFeed && i == m.FeedCursor
		titleStyle := styles.SubtitleStyle
		cursor := "  "
		if selected {
			titleStyle = styles.TitleStyle
			cursor = styles.AccentStyle.Render("▸ ")
		}
		lines = append(lines,
			cursor+titleStyle.Render(styles.Truncate(rec.Title, inner-2)),
			"  "+styles.DimStyle.Render(styles.Truncate(rec.Author, inner-2)),
		)
		if selected {
			reason := wordwrap.String(rec.Reason, max(inner-2, 10))
			for _, l := range strings.Split(reason, "\n") {
				lines = append(lines, "  "+styles.ReasonStyle.Render(l))
			}
		}
		lines = append(lines, "")
	}

	return border.
		Width(width - 2).
		Height(height - 2).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderFilterLine() string {
	if m.State == StateFiltering {
		return m.filterInput.View()
	}
	if m.filterQuery != "" {
		return styles.AccentStyle.Render("/ ") + m.filterQuery + styles.DimStyle.Render("  (esc clears)")
	}
	return ""
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: status message
	var left string
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.SuccessStyle.Render(m.StatusMsg)
		}
	} else if m.Refreshing {
		left = m.spinner.View() + " " + styles.DimStyle.Render("Refreshing feed...")
	}

	// Center section: hints for the focused pane
	var hints [][2]string
	if m.Pane == PaneTracker {
		hints = [][2]string{{"a", "add"}, {"p", "pages"}, {"s", "status"}, {"c", "chat"}, {"d", "details"}}
	} else {
		hints = [][2]string{{"t", "teaser"}, {"+", "start"}, {"d", "details"}, {"r", "refresh"}}
	}
	var parts []string
	for _, h := range hints {
		parts = append(parts, styles.AccentStyle.Render(h[0])+styles.DimStyle.Render(" "+h[1]))
	}
	center := strings.Join(parts, "  ")

	// Right side: "? help" hint
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      TRACKER
  j/k        Up/down               a      Add a book
  g/G        First/last            p      Log pages
  Tab        Switch pane           s      Pick status
  /          Filter                S      Next status
  Esc        Close / clear         x      Remove
                                   c      Deep dive chat

DISCOVERY                       OTHER
  t/Enter    AI teaser             d      Book details
  +          Start reading         q      Quit
  r          Refresh feed          ?      This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// renderRemoveConfirmation renders the remove confirmation modal
func (m Model) renderRemoveConfirmation() string {
	modal := lipgloss.JoinVertical(lipgloss.Center,
		styles.ModalTitleStyle.Render("Stop Tracking?"),
		styles.TitleStyle.Render(styles.Truncate(m.bookTitle(m.pendingRemove), 40)),
		"",
		styles.DimStyle.Render("Progress for this book will be lost."),
		"",
		styles.HelpKeyStyle.Render("[Y]")+styles.HelpDescStyle.Render(" Yes      ")+
			styles.HelpKeyStyle.Render("[N]")+styles.HelpDescStyle.Render(" No"),
	)

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(modal))
}
