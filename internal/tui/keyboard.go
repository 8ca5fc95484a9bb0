package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/mmcdole/chapternode/internal/service"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil

	case StateConfirmRemove:
		switch {
		case key.Matches(msg, Keys.Confirm):
			title := m.bookTitle(m.pendingRemove)
			m.Store.Remove(m.pendingRemove)
			m.pendingRemove = ""
			m.State = StateBrowsing
			return m.setStatus("Removed "+title, false)
		case key.Matches(msg, Keys.Deny):
			m.pendingRemove = ""
			m.State = StateBrowsing
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	if m.State == StateFiltering {
		return m.handleFilterKey(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.filterQuery != "" {
			m.clearFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		m.State = StateFiltering
		m.filterInput.SetValue(m.filterQuery)
		cmd := m.filterInput.Focus()
		return m, cmd

	case key.Matches(msg, Keys.NextPane):
		m.clearFilter()
		if m.Pane == PaneTracker {
			m.Pane = PaneFeed
		} else {
			m.Pane = PaneTracker
		}
		return m, nil

	case key.Matches(msg, Keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, Keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, Keys.Home):
		m.moveCursor(-len(m.Books) - len(m.Recs))
		return m, nil

	case key.Matches(msg, Keys.End):
		m.moveCursor(len(m.Books) + len(m.Recs))
		return m, nil

	case key.Matches(msg, Keys.Add):
		m.AddForm.Show()
		return m, textinput.Blink

	case key.Matches(msg, Keys.Refresh):
		if m.Refreshing {
			return m, nil
		}
		m.Refreshing = true
		return m, RefreshFeedCmd(m.ctx, m.Feed)
	}

	if m.Pane == PaneFeed {
		return m.handleFeedKey(msg)
	}
	return m.handleTrackerKey(msg)
}

// handleTrackerKey handles actions on the selected tracked book
func (m Model) handleTrackerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	book, ok := m.selectedBook()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.LogProgress):
		m.ProgressEditor.Show(book)
		return m, textinput.Blink

	case key.Matches(msg, Keys.PickStatus):
		m.StatusPicker.Show(book)
		return m, nil

	case key.Matches(msg, Keys.CycleStatus):
		if status, ok := m.Tracker.CycleStatus(book.ID); ok {
			return m.setStatus(fmt.Sprintf("%s → %s", book.Title, status.Label()), false)
		}
		return m, nil

	case key.Matches(msg, Keys.Remove):
		m.pendingRemove = book.ID
		m.State = StateConfirmRemove
		return m, nil

	case key.Matches(msg, Keys.Chat):
		cmd := m.openChat(book)
		return m, cmd

	case key.Matches(msg, Keys.Details):
		cmd := m.openDetails(book)
		return m, cmd
	}
	return m, nil
}

// handleFeedKey handles actions on the selected recommendation
func (m Model) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rec, ok := m.selectedRec()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Teaser):
		cmd := m.openTeaser(rec.Book)
		return m, cmd

	case key.Matches(msg, Keys.StartReading):
		return m.startReading(rec.Book)

	case key.Matches(msg, Keys.Details):
		cmd := m.openDetails(rec.Book)
		return m, cmd
	}
	return m, nil
}

// handleFilterKey edits the filter query for the focused pane
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.clearFilter()
		return m, nil
	case "enter":
		m.State = StateBrowsing
		m.filterInput.Blur()
		return m, nil
	case "up", "down":
		if msg.String() == "up" {
			m.moveCursor(-1)
		} else {
			m.moveCursor(1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filterQuery = strings.TrimSpace(m.filterInput.Value())
	m.TrackerCursor = 0
	m.FeedCursor = 0
	return m, cmd
}

func (m *Model) clearFilter() {
	m.State = StateBrowsing
	m.filterInput.Blur()
	m.filterInput.SetValue("")
	m.filterQuery = ""
	m.TrackerCursor = clampCursor(m.TrackerCursor, len(m.Books))
	m.FeedCursor = clampCursor(m.FeedCursor, len(m.Recs))
}

func (m *Model) moveCursor(delta int) {
	if m.Pane == PaneFeed {
		m.FeedCursor = clampCursor(m.FeedCursor+delta, len(m.visibleRecs()))
		return
	}
	m.TrackerCursor = clampCursor(m.TrackerCursor+delta, len(m.visibleBooks()))
}

// startReading promotes a discovery book into the tracker
func (m Model) startReading(book domain.Book) (tea.Model, tea.Cmd) {
	tracked := m.Tracker.StartReading(book)
	return m.setStatus("Started reading "+tracked.Title, false)
}

// routeToModal routes a key to the active modal or overlay.
// Returns handled=true if a modal consumed the key.
func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if m.AddForm.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.AddForm, cmd, submitted = m.AddForm.Update(msg)
		if submitted {
			title, author := m.AddForm.Values()
			book, err := m.Tracker.ManualAdd(service.ManualEntry{Title: title, Author: author})
			if err != nil {
				m.AddForm.SetError(strings.TrimPrefix(err.Error(), domain.ErrInvalidBook.Error()+": "))
				return true, m, nil
			}
			m.AddForm.Hide()
			m.Pane = PaneTracker
			m.clearFilter()
			m.TrackerCursor = 0
			newModel, statusCmd := m.setStatus("Now tracking "+book.Title, false)
			return true, newModel, statusCmd
		}
		return true, m, cmd
	}

	if m.ProgressEditor.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.ProgressEditor, cmd, submitted = m.ProgressEditor.Update(msg)
		if submitted {
			page, total := m.ProgressEditor.Values()
			id := m.ProgressEditor.BookID()
			m.ProgressEditor.Hide()
			book, ok := m.Tracker.LogPages(id, page, total)
			if !ok {
				return true, m, nil
			}
			text := fmt.Sprintf("%s: page %s (%d%%)", book.Title, book.PageLabel(), book.Progress)
			if book.IsFinished() {
				text = "Finished " + book.Title + "!"
			}
			newModel, statusCmd := m.setStatus(text, false)
			return true, newModel, statusCmd
		}
		return true, m, cmd
	}

	if m.StatusPicker.IsVisible() {
		_, selection := m.StatusPicker.HandleKey(msg.String())
		if selection != nil {
			id := m.StatusPicker.BookID()
			m.StatusPicker.Hide()
			m.Tracker.SetStatus(id, *selection)
			newModel, statusCmd := m.setStatus(m.bookTitle(id)+" → "+selection.Label(), false)
			return true, newModel, statusCmd
		}
		return true, m, nil
	}

	switch m.topOverlay() {
	case domain.OverlayTeaser:
		switch {
		case key.Matches(msg, Keys.Escape, Keys.Quit):
			m.closeTeaser()
		case msg.String() == "enter" || key.Matches(msg, Keys.StartReading):
			if !m.teaser.CanStartReading() {
				return true, m, nil
			}
			book := m.teaser.Book()
			m.closeTeaser()
			newModel, cmd := m.startReading(book)
			return true, newModel, cmd
		case key.Matches(msg, Keys.Details):
			cmd := m.openDetails(m.teaser.Book())
			return true, m, cmd
		}
		return true, m, nil

	case domain.OverlayChat:
		if msg.String() == "esc" {
			m.closeChat()
			return true, m, nil
		}
		var cmd tea.Cmd
		var submitted bool
		m.ChatDrawer, cmd, submitted = m.ChatDrawer.Update(msg)
		if submitted {
			cmd = m.askQuestion()
			return true, m, cmd
		}
		return true, m, cmd

	case domain.OverlayDetails:
		if key.Matches(msg, Keys.Escape, Keys.Quit, Keys.Details) {
			m.closeDetails()
			return true, m, nil
		}
		var cmd tea.Cmd
		m.DetailsModal, cmd = m.DetailsModal.Update(msg)
		return true, m, cmd
	}

	return false, m, nil
}
