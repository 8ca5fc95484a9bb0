package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/chapternode/internal/domain"
)

// ChannelObserver adapts domain.StoreObserver to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan domain.StoreEvent
}

// NewChannelObserver creates a channel-based observer with the given buffer
func NewChannelObserver(buffer int) *ChannelObserver {
	return &ChannelObserver{ch: make(chan domain.StoreEvent, buffer)}
}

// OnChange sends the event to the channel (non-blocking if full).
// A dropped event is harmless: every delivered event resyncs the model from the store.
func (o *ChannelObserver) OnChange(event domain.StoreEvent) {
	select {
	case o.ch <- event:
	default:
	}
}

// Wait returns a command that delivers the next store event as a StoreChangedMsg
func (o *ChannelObserver) Wait() tea.Cmd {
	return func() tea.Msg {
		return StoreChangedMsg{Event: <-o.ch}
	}
}
