package library

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/chapternode/internal/domain"
)

// Defaults applied by Add when the caller leaves a field unset
const (
	DefaultTotalPages = 300
	DefaultStatus     = domain.StatusReading
)

// Store is the session-lifetime container for tracked books and overlay selections.
// All mutations are applied under the lock and published to observers after it is released.
type Store struct {
	mu       sync.RWMutex
	books    []domain.TrackedBook // most-recent-first
	overlays map[domain.OverlayKind]domain.Selection

	obsMu     sync.Mutex
	observers map[int]domain.StoreObserver
	nextObsID int

	newID  func() string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithBooks seeds the collection. Order is preserved (first = front).
// A book whose id is already seeded is dropped.
func WithBooks(books ...domain.TrackedBook) Option {
	return func(s *Store) {
		s.books = append(s.books, books...)
	}
}

// WithIDGenerator overrides the id source used by Add
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock overrides the clock used for StartedAt
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a store. Without options it starts empty.
func New(opts ...Option) *Store {
	s := &Store{
		overlays:  make(map[domain.OverlayKind]domain.Selection),
		observers: make(map[int]domain.StoreObserver),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.dropDuplicateSeeds()
	return s
}

// dropDuplicateSeeds keeps the first book seeded under each id
func (s *Store) dropDuplicateSeeds() {
	seen := make(map[string]bool, len(s.books))
	s.books = slices.DeleteFunc(s.books, func(b domain.TrackedBook) bool {
		if seen[b.ID] {
			s.logger.Warn("dropping seeded book with duplicate id", "id", b.ID, "title", b.Title)
			return true
		}
		seen[b.ID] = true
		return false
	})
}

// DefaultSeed returns the entity the application starts with
func DefaultSeed() []domain.TrackedBook {
	return []domain.TrackedBook{
		{
			Book: domain.Book{
				ID:       "1",
				Title:    "Thinking, Fast and Slow",
				Author:   "Daniel Kahneman",
				CoverURL: "https://images.unsplash.com/photo-1544947950-fa07a98d237f?q=80&w=120&auto=format&fit=crop",
			},
			Progress:    42,
			Status:      domain.StatusReading,
			CurrentPage: 210,
			TotalPages:  499,
		},
	}
}

// === Reads ===

// Books returns a copy of the collection in display order
func (s *Store) Books() []domain.TrackedBook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.books)
}

// Book returns the tracked book with the given id
func (s *Store) Book(id string) (domain.TrackedBook, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.books[i], true
	}
	return domain.TrackedBook{}, false
}

// Len returns the number of tracked books
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// Overlay returns the current selection for an overlay kind
func (s *Store) Overlay(kind domain.OverlayKind) domain.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlays[kind]
}

// === Mutations ===

// Add inserts a new tracked book at the front of the collection.
// Title/author validation is the caller's job.
func (s *Store) Add(in domain.BookInput) domain.TrackedBook {
	s.mu.Lock()
	book := domain.TrackedBook{
		Book: domain.Book{
			ID:       s.uniqueID(),
			Title:    in.Title,
			Author:   in.Author,
			CoverURL: in.CoverURL,
		},
		Status:     DefaultStatus,
		TotalPages: DefaultTotalPages,
		StartedAt:  s.now(),
	}
	if in.Progress != nil {
		book.Progress = clampProgress(*in.Progress)
	}
	if in.Status.Valid() {
		book.Status = in.Status
	}
	if in.TotalPages != nil {
		book.TotalPages = *in.TotalPages
	}
	if in.CurrentPage != nil {
		book.CurrentPage = *in.CurrentPage
	}
	book.CurrentPage, book.TotalPages = clampPages(book.CurrentPage, book.TotalPages)

	s.books = slices.Insert(s.books, 0, book)
	s.mu.Unlock()

	s.logger.Debug("book added", "id", book.ID, "title", book.Title)
	s.publish(domain.StoreEvent{Kind: domain.EventBookAdded, BookID: book.ID})
	return book
}

// PageOption sets page values during UpdateProgress
type PageOption func(current, total *int)

// WithPages replaces both page values
func WithPages(current, total int) PageOption {
	return func(c, t *int) {
		*c = current
		*t = total
	}
}

// WithCurrentPage replaces the current page, keeping the stored total
func WithCurrentPage(current int) PageOption {
	return func(c, _ *int) { *c = current }
}

// WithTotalPages replaces the total, keeping the stored current page
func WithTotalPages(total int) PageOption {
	return func(_, t *int) { *t = total }
}

// UpdateProgress sets progress (clamped to 0..100) and optional page values.
// Omitted page values are retained. Returns false if id is not tracked.
func (s *Store) UpdateProgress(id string, progress int, opts ...PageOption) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	book := s.books[i]
	book.Progress = clampProgress(progress)
	current, total := book.CurrentPage, book.TotalPages
	for _, opt := range opts {
		opt(&current, &total)
	}
	book.CurrentPage, book.TotalPages = clampPages(current, total)
	s.books[i] = book
	s.mu.Unlock()

	s.logger.Debug("progress updated", "id", id, "progress", book.Progress)
	s.publish(domain.StoreEvent{Kind: domain.EventBookUpdated, BookID: id})
	return true
}

// UpdateStatus sets the status of a tracked book. Progress is untouched.
// Returns false if id is not tracked or status is not a known value.
func (s *Store) UpdateStatus(id string, status domain.BookStatus) bool {
	if !status.Valid() {
		return false
	}
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.books[i].Status = status
	s.mu.Unlock()

	s.logger.Debug("status updated", "id", id, "status", status)
	s.publish(domain.StoreEvent{Kind: domain.EventBookUpdated, BookID: id})
	return true
}

// Remove deletes a tracked book. Removing an unknown id is a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.books = slices.Delete(s.books, i, i+1)
	s.mu.Unlock()

	s.logger.Debug("book removed", "id", id)
	s.publish(domain.StoreEvent{Kind: domain.EventBookRemoved, BookID: id})
	return true
}

// SetOverlay opens an overlay on ref, or closes it when ref is nil.
// Other overlays are not affected.
func (s *Store) SetOverlay(kind domain.OverlayKind, ref domain.BookRef) domain.Selection {
	s.mu.Lock()
	sel := s.overlays[kind]
	if ref == nil {
		if !sel.Open() {
			s.mu.Unlock()
			return sel
		}
		sel.Ref = nil
	} else {
		sel.Ref = ref
		sel.Generation++
	}
	s.overlays[kind] = sel
	s.mu.Unlock()

	s.logger.Debug("overlay changed", "overlay", kind, "open", sel.Open(), "generation", sel.Generation)
	s.publish(domain.StoreEvent{Kind: domain.EventOverlayChanged, Overlay: kind})
	return sel
}

// Open is SetOverlay with a non-nil reference
func (s *Store) Open(kind domain.OverlayKind, ref domain.BookRef) domain.Selection {
	return s.SetOverlay(kind, ref)
}

// Close clears an overlay's reference and open flag
func (s *Store) Close(kind domain.OverlayKind) {
	s.SetOverlay(kind, nil)
}

// === Observers ===

// Subscribe registers an observer and returns a function that removes it
func (s *Store) Subscribe(obs domain.StoreObserver) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = obs
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) publish(event domain.StoreEvent) {
	s.obsMu.Lock()
	observers := make([]domain.StoreObserver, 0, len(s.observers))
	for _, obs := range s.observers {
		observers = append(observers, obs)
	}
	s.obsMu.Unlock()

	for _, obs := range observers {
		obs.OnChange(event)
	}
}

// --- Private helpers ---

// indexOf must be called with mu held
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.books, func(b domain.TrackedBook) bool { return b.ID == id })
}

// uniqueID must be called with mu held
func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
		s.logger.Warn("generated id collided, drawing again", "id", id)
	}
}

func clampProgress(p int) int {
	return min(max(p, 0), 100)
}

// clampPages enforces totalPages >= 1 and 0 <= currentPage <= totalPages
func clampPages(current, total int) (int, int) {
	total = max(total, 1)
	return min(max(current, 0), total), total
}
