package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/mmcdole/chapternode/internal/feed"
	"github.com/mmcdole/chapternode/internal/service"
)

// Command factories for async operations

const lookupTimeout = 20 * time.Second

// LookupDetailsCmd fetches extended details for a details-overlay selection.
// The result is tagged with the selection's generation.
func LookupDetailsCmd(ctx context.Context, svc *service.DetailsService, sel domain.Selection) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
		defer cancel()
		return DetailsLoadedMsg{Result: svc.Lookup(ctx, sel)}
	}
}

// RefreshFeedCmd reloads the recommendation feed
func RefreshFeedCmd(ctx context.Context, f *feed.Feed) tea.Cmd {
	return func() tea.Msg {
		items, err := f.Refresh(ctx)
		return FeedRefreshedMsg{Items: items, Err: err}
	}
}

// RevealTickCmd schedules the next chunk of a reveal stream
func RevealTickCmd(streamID uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return RevealTickMsg{StreamID: streamID}
	})
}

// ReplyDelayCmd waits out the assistant's "thinking" pause
func ReplyDelayCmd(streamID uint64, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ReplyReadyMsg{StreamID: streamID}
	})
}

// CursorBlinkCmd blinks the teaser cursor
func CursorBlinkCmd() tea.Cmd {
	return tea.Tick(450*time.Millisecond, func(time.Time) tea.Msg {
		return CursorBlinkMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
