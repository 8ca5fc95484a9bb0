package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/chapternode/internal/assistant"
	"github.com/mmcdole/chapternode/internal/config"
	"github.com/mmcdole/chapternode/internal/details"
	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/mmcdole/chapternode/internal/feed"
	"github.com/mmcdole/chapternode/internal/library"
	"github.com/mmcdole/chapternode/internal/reveal"
	"github.com/mmcdole/chapternode/internal/service"
	"github.com/mmcdole/chapternode/internal/tui/components"
	"github.com/mmcdole/chapternode/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateFiltering
	StateHelp
	StateConfirmRemove
)

// Pane identifies one of the two dashboard panes
type Pane int

const (
	PaneTracker Pane = iota
	PaneFeed
)

const (
	// TrackerPercent is the tracker pane's share of the width
	TrackerPercent = 60
	MinPaneWidth   = 30

	// ChromeHeight is the footer line
	ChromeHeight = 1

	statusDuration = 3 * time.Second
)

// Services bundles what the model needs from the rest of the application
type Services struct {
	Store   *library.Store
	Tracker *service.TrackerService
	Details *service.DetailsService
	Feed    *feed.Feed
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	Store      *library.Store
	Tracker    *service.TrackerService
	DetailsSvc *service.DetailsService
	Feed       *feed.Feed

	ctx       context.Context
	revealCfg config.RevealConfig
	observer  *ChannelObserver
	logger    *slog.Logger

	// Data
	Books []domain.TrackedBook
	Recs  []feed.Recommendation

	// Dimensions
	Width  int
	Height int

	// Navigation
	Pane          Pane
	TrackerCursor int
	FeedCursor    int
	filterInput   textinput.Model
	filterQuery   string

	// UI Components
	AddForm        components.AddForm
	ProgressEditor components.ProgressEditor
	StatusPicker   components.StatusPicker
	ChatDrawer     components.ChatDrawer
	DetailsModal   components.DetailsModal

	// Overlays, most recently opened last. Only the last one is shown.
	overlays      []domain.OverlayKind
	teaser        assistant.Teaser
	conversation  *assistant.Conversation
	panel         details.Panel
	detailsCancel context.CancelFunc
	teaserStream  *reveal.Stream
	replyStream   *reveal.Stream
	nextStreamID  uint64

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	Refreshing    bool
	pendingRemove string
	spinner       spinner.Model
	bar           progress.Model
	cursorFrame   int
}

// NewModel creates a new application model and subscribes it to the store.
// ctx bounds every background lookup the model starts.
func NewModel(ctx context.Context, svc Services, cfg config.RevealConfig, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "filter..."
	fi.PromptStyle = styles.AccentStyle
	fi.CharLimit = 100

	observer := NewChannelObserver(64)
	svc.Store.Subscribe(observer)
	svc.Feed.Personalize(svc.Tracker.CurrentlyReading())

	return Model{
		State:          StateBrowsing,
		Store:          svc.Store,
		Tracker:        svc.Tracker,
		DetailsSvc:     svc.Details,
		Feed:           svc.Feed,
		ctx:            ctx,
		revealCfg:      cfg,
		observer:       observer,
		logger:         logger,
		Books:          svc.Store.Books(),
		Recs:           svc.Feed.Items(),
		filterInput:    fi,
		AddForm:        components.NewAddForm(),
		ProgressEditor: components.NewProgressEditor(),
		StatusPicker:   components.NewStatusPicker(),
		ChatDrawer:     components.NewChatDrawer(),
		DetailsModal:   components.NewDetailsModal(),
		conversation:   assistant.NewConversation(),
		spinner:        sp,
		bar: progress.New(
			progress.WithSolidFill(string(styles.Indigo)),
			progress.WithoutPercentage(),
			progress.WithWidth(16),
		),
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.observer.Wait(),
		m.spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.topOverlay() == domain.OverlayChat && m.conversation.Replying() {
			m.ChatDrawer.SetConversation(m.conversation, m.spinner.View())
		}
		return m, cmd

	case StoreChangedMsg:
		m.applyStoreEvent(msg.Event)
		return m, m.observer.Wait()

	case RevealTickMsg:
		cmd := m.advanceStream(msg.StreamID)
		return m, cmd

	case ReplyReadyMsg:
		if m.replyStream == nil || m.replyStream.ID() != msg.StreamID {
			return m, nil
		}
		return m, RevealTickCmd(msg.StreamID, m.revealCfg.Interval)

	case CursorBlinkMsg:
		if m.teaser.Status() != assistant.TeaserGenerating {
			return m, nil
		}
		m.cursorFrame++
		return m, CursorBlinkCmd()

	case DetailsLoadedMsg:
		if !m.panel.Apply(msg.Result) {
			m.logger.Debug("dropping stale details result",
				"generation", msg.Result.Generation, "current", m.panel.Generation())
			return m, nil
		}
		m.DetailsModal.SetPanel(&m.panel)
		return m, nil

	case FeedRefreshedMsg:
		m.Refreshing = false
		if msg.Err != nil {
			if errors.Is(msg.Err, context.Canceled) || errors.Is(msg.Err, feed.ErrRefreshInProgress) {
				return m, nil
			}
			return m.setStatus("Refresh failed: "+msg.Err.Error(), true)
		}
		m.Feed.Personalize(m.Tracker.CurrentlyReading())
		m.Recs = m.Feed.Items()
		m.FeedCursor = 0
		return m.setStatus("Feed refreshed", false)

	case ErrMsg:
		m.logger.Error("tui error", "error", msg.Err, "context", msg.Context)
		return m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Forward blink and other component messages to the focused input
	return m.forwardToInputs(msg)
}

func (m Model) forwardToInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.AddForm.IsVisible():
		m.AddForm, cmd, _ = m.AddForm.Update(msg)
	case m.ProgressEditor.IsVisible():
		m.ProgressEditor, cmd, _ = m.ProgressEditor.Update(msg)
	case m.topOverlay() == domain.OverlayChat:
		m.ChatDrawer, cmd, _ = m.ChatDrawer.Update(msg)
	case m.State == StateFiltering:
		m.filterInput, cmd = m.filterInput.Update(msg)
	}
	return m, cmd
}

// setStatus shows a temporary footer message
func (m Model) setStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return m, ClearStatusCmd(statusDuration)
}

// applyStoreEvent re-reads the store after a mutation
func (m *Model) applyStoreEvent(event domain.StoreEvent) {
	// Resync everything so a dropped event is repaired by the next delivery
	m.Books = m.Store.Books()
	m.TrackerCursor = clampCursor(m.TrackerCursor, len(m.visibleBooks()))
	m.Feed.Personalize(m.Tracker.CurrentlyReading())
	m.Recs = m.Feed.Items()

	for _, kind := range slices.Clone(m.overlays) {
		if !m.Store.Overlay(kind).Open() {
			m.dropOverlay(kind)
		}
	}
	m.logger.Debug("store changed", "kind", event.Kind)
}

// === Overlays ===

func (m Model) topOverlay() domain.OverlayKind {
	if len(m.overlays) == 0 {
		return -1
	}
	return m.overlays[len(m.overlays)-1]
}

func (m *Model) pushOverlay(kind domain.OverlayKind) {
	m.dropOverlay(kind)
	m.overlays = append(m.overlays, kind)
}

func (m *Model) dropOverlay(kind domain.OverlayKind) {
	m.overlays = slices.DeleteFunc(m.overlays, func(k domain.OverlayKind) bool { return k == kind })
}

func (m *Model) newStream(text string) *reveal.Stream {
	m.nextStreamID++
	return reveal.New(m.nextStreamID, text, m.revealCfg.ChunkSize)
}

// openTeaser starts revealing a generated summary for a discovery book
func (m *Model) openTeaser(book domain.Book) tea.Cmd {
	if m.teaserStream != nil {
		m.teaserStream.Cancel()
	}
	m.Store.Open(domain.OverlayTeaser, book)
	m.pushOverlay(domain.OverlayTeaser)
	m.teaser.Begin(book)
	m.teaserStream = m.newStream(assistant.TeaserText(book))
	m.cursorFrame = 0
	return tea.Batch(
		RevealTickCmd(m.teaserStream.ID(), m.revealCfg.Interval),
		CursorBlinkCmd(),
	)
}

func (m *Model) closeTeaser() {
	if m.teaserStream != nil {
		m.teaserStream.Cancel()
		m.teaserStream = nil
	}
	m.teaser.Reset()
	m.dropOverlay(domain.OverlayTeaser)
	m.Store.Close(domain.OverlayTeaser)
}

// openChat opens the deep-dive drawer for a tracked book
func (m *Model) openChat(book domain.TrackedBook) tea.Cmd {
	m.Store.Open(domain.OverlayChat, book)
	m.pushOverlay(domain.OverlayChat)
	m.conversation.Begin(book.Book)
	m.ChatDrawer.SetConversation(m.conversation, m.spinner.View())
	return m.ChatDrawer.Focus()
}

func (m *Model) closeChat() {
	if m.replyStream != nil {
		m.replyStream.Cancel()
		m.replyStream = nil
	}
	m.conversation.FinishReply()
	m.ChatDrawer.Blur()
	m.dropOverlay(domain.OverlayChat)
	m.Store.Close(domain.OverlayChat)
}

// askQuestion records the typed question and schedules the reply
func (m *Model) askQuestion() tea.Cmd {
	question := m.ChatDrawer.Value()
	if _, err := m.conversation.Ask(question); err != nil {
		if errors.Is(err, assistant.ErrReplyInProgress) {
			m.StatusMsg = "Wait for the current reply to finish"
			return ClearStatusCmd(statusDuration)
		}
		return nil
	}
	m.ChatDrawer.ClearInput()
	if _, err := m.conversation.StartReply(); err != nil {
		return nil
	}
	m.replyStream = m.newStream(assistant.ReplyText(m.conversation.Book(), question))
	m.ChatDrawer.SetConversation(m.conversation, m.spinner.View())
	return ReplyDelayCmd(m.replyStream.ID(), m.revealCfg.ReplyDelay)
}

// openDetails opens the details overlay and starts a catalog lookup.
// Any lookup still running for an earlier selection is cancelled.
func (m *Model) openDetails(ref domain.BookRef) tea.Cmd {
	if m.detailsCancel != nil {
		m.detailsCancel()
	}
	sel := m.Store.Open(domain.OverlayDetails, ref)
	m.pushOverlay(domain.OverlayDetails)
	m.panel.Begin(sel)
	m.DetailsModal.SetPanel(&m.panel)

	ctx, cancel := context.WithCancel(m.ctx)
	m.detailsCancel = cancel
	return LookupDetailsCmd(ctx, m.DetailsSvc, sel)
}

func (m *Model) closeDetails() {
	if m.detailsCancel != nil {
		m.detailsCancel()
		m.detailsCancel = nil
	}
	m.panel.Close()
	m.dropOverlay(domain.OverlayDetails)
	m.Store.Close(domain.OverlayDetails)
}

// advanceStream reveals the next chunk of the stream with the given id.
// Ticks for a cancelled or replaced stream are ignored.
func (m *Model) advanceStream(id uint64) tea.Cmd {
	switch {
	case m.teaserStream != nil && m.teaserStream.ID() == id:
		chunk, ok := m.teaserStream.Next()
		if !ok {
			m.teaser.Complete()
			m.teaserStream = nil
			return nil
		}
		m.teaser.Append(chunk)
		return RevealTickCmd(id, m.revealCfg.Interval)

	case m.replyStream != nil && m.replyStream.ID() == id:
		chunk, ok := m.replyStream.Next()
		if !ok {
			m.conversation.FinishReply()
			m.replyStream = nil
			m.ChatDrawer.SetConversation(m.conversation, m.spinner.View())
			return nil
		}
		if err := m.conversation.AppendReply(chunk); err != nil {
			m.replyStream.Cancel()
			m.replyStream = nil
			return nil
		}
		m.ChatDrawer.SetConversation(m.conversation, m.spinner.View())
		return RevealTickCmd(id, m.revealCfg.Interval)
	}
	return nil
}

// === Selection helpers ===

// visibleBooks returns tracker rows after filtering
func (m Model) visibleBooks() []service.FilterMatch {
	if m.Pane != PaneTracker || m.filterQuery == "" {
		out := make([]service.FilterMatch, len(m.Books))
		for i, b := range m.Books {
			out[i] = service.FilterMatch{Book: b}
		}
		return out
	}
	return service.Filter(m.filterQuery, m.Books)
}

// visibleRecs returns feed cards after filtering
func (m Model) visibleRecs() []feed.Recommendation {
	if m.Pane != PaneFeed || m.filterQuery == "" {
		return m.Recs
	}
	matches := m.Feed.Search(m.filterQuery)
	out := make([]feed.Recommendation, 0, len(matches))
	for _, r := range matches {
		if slices.ContainsFunc(m.Recs, func(x feed.Recommendation) bool { return x.ID == r.ID }) {
			out = append(out, r)
		}
	}
	return out
}

func (m Model) selectedBook() (domain.TrackedBook, bool) {
	rows := m.visibleBooks()
	if m.TrackerCursor < 0 || m.TrackerCursor >= len(rows) {
		return domain.TrackedBook{}, false
	}
	return rows[m.TrackerCursor].Book, true
}

func (m Model) selectedRec() (feed.Recommendation, bool) {
	recs := m.visibleRecs()
	if m.FeedCursor < 0 || m.FeedCursor >= len(recs) {
		return feed.Recommendation{}, false
	}
	return recs[m.FeedCursor], true
}

func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(cursor, 0), n-1)
}

// updateLayout sizes the components for the current window
func (m *Model) updateLayout() {
	m.ChatDrawer.SetSize(min(m.Width, 90), m.Height-ChromeHeight)
	m.DetailsModal.SetSize(m.Width, m.Height)
	m.DetailsModal.SetPanel(&m.panel)
	m.ChatDrawer.SetConversation(m.conversation, m.spinner.View())
	m.filterInput.Width = max(m.calculatePaneLayout().trackerWidth-8, 10)
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}
	if m.State == StateConfirmRemove {
		return m.renderRemoveConfirmation()
	}

	layout := m.calculatePaneLayout()
	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTracker(layout.trackerWidth, layout.contentHeight),
		m.renderFeed(layout.feedWidth, layout.contentHeight),
	)
	view := lipgloss.JoinVertical(lipgloss.Left, content, m.renderFooter())

	if modal := m.activeModal(); modal != "" {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			modal)
	}
	return view
}

// activeModal renders the form or overlay that currently has focus
func (m Model) activeModal() string {
	switch {
	case m.AddForm.IsVisible():
		return m.AddForm.View()
	case m.ProgressEditor.IsVisible():
		return m.ProgressEditor.View()
	case m.StatusPicker.IsVisible():
		return m.StatusPicker.View()
	}

	switch m.topOverlay() {
	case domain.OverlayTeaser:
		return components.RenderTeaser(m.teaser, m.cursorFrame)
	case domain.OverlayChat:
		return m.ChatDrawer.View(m.conversation.Book().Title, m.conversation.Replying(), m.spinner)
	case domain.OverlayDetails:
		return m.DetailsModal.View(&m.panel, m.spinner)
	}
	return ""
}

func (m Model) bookTitle(id string) string {
	if b, ok := m.Store.Book(id); ok {
		return b.Title
	}
	return fmt.Sprintf("book %s", id)
}
