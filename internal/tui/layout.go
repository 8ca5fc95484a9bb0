package tui

// paneLayout holds calculated pane sizes for the View
type paneLayout struct {
	trackerWidth  int
	feedWidth     int
	contentHeight int
}

// calculatePaneLayout splits the window between the tracker and the feed.
// Narrow windows give each pane at least MinPaneWidth.
func (m Model) calculatePaneLayout() paneLayout {
	tracker := max(m.Width*TrackerPercent/100, MinPaneWidth)
	return paneLayout{
		trackerWidth:  tracker,
		feedWidth:     max(m.Width-tracker, MinPaneWidth),
		contentHeight: m.Height - ChromeHeight,
	}
}
