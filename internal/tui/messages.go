package tui

import (
	"github.com/mmcdole/chapternode/internal/details"
	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/mmcdole/chapternode/internal/feed"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// StoreChangedMsg is delivered for every library store mutation
type StoreChangedMsg struct {
	Event domain.StoreEvent
}

// DetailsLoadedMsg carries a catalog lookup result for the details overlay
type DetailsLoadedMsg struct {
	Result details.Result
}

// RevealTickMsg advances the reveal stream with the given id
type RevealTickMsg struct {
	StreamID uint64
}

// ReplyReadyMsg ends the assistant's "thinking" pause for a chat reply
type ReplyReadyMsg struct {
	StreamID uint64
}

// FeedRefreshedMsg signals that the recommendation feed reloaded
type FeedRefreshedMsg struct {
	Items []feed.Recommendation
	Err   error
}

// CursorBlinkMsg toggles the teaser's typing cursor
type CursorBlinkMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
