package service

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/mmcdole/chapternode/internal/library"
	"github.com/sahilm/fuzzy"
)

// BookStore is the part of the library store the tracker writes through
type BookStore interface {
	Books() []domain.TrackedBook
	Book(id string) (domain.TrackedBook, bool)
	Add(in domain.BookInput) domain.TrackedBook
	UpdateProgress(id string, progress int, opts ...library.PageOption) bool
	UpdateStatus(id string, status domain.BookStatus) bool
}

// ManualEntry is the add-book form input
type ManualEntry struct {
	Title  string `validate:"required,max=200"`
	Author string `validate:"required,max=120"`
}

// TrackerService is the caller surface for tracker mutations.
// It validates input and owns the completion rule: any progress write that
// reaches 100 also marks the book READ. The store itself never links the two.
type TrackerService struct {
	store    BookStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewTrackerService creates a tracker service
func NewTrackerService(store BookStore, logger *slog.Logger) *TrackerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackerService{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// ManualAdd validates a form entry and starts tracking it
func (s *TrackerService) ManualAdd(entry ManualEntry) (domain.TrackedBook, error) {
	entry.Title = strings.TrimSpace(entry.Title)
	entry.Author = strings.TrimSpace(entry.Author)

	if err := s.validate.Struct(entry); err != nil {
		s.logger.Debug("manual entry rejected", "error", err)
		return domain.TrackedBook{}, fmt.Errorf("%w: %s", domain.ErrInvalidBook, describeValidation(err))
	}

	book := s.store.Add(domain.BookInput{
		Title:    entry.Title,
		Author:   entry.Author,
		CoverURL: domain.PlaceholderCoverURL(entry.Title),
	})
	s.logger.Info("book added manually", "id", book.ID, "title", book.Title)
	return book, nil
}

// StartReading promotes a discovery book into the tracker
func (s *TrackerService) StartReading(book domain.Book) domain.TrackedBook {
	cover := book.CoverURL
	if cover == "" {
		cover = domain.PlaceholderCoverURL(book.Title)
	}
	tracked := s.store.Add(domain.BookInput{
		Title:    book.Title,
		Author:   book.Author,
		CoverURL: cover,
	})
	s.logger.Info("started reading", "id", tracked.ID, "from", book.ID, "title", book.Title)
	return tracked
}

// LogPages records the page reached out of total and derives the percentage.
// total is raised to at least 1 and page is clamped into [0, total].
func (s *TrackerService) LogPages(id string, page, total int) (domain.TrackedBook, bool) {
	total = max(total, 1)
	page = min(max(page, 0), total)
	progress := PercentRead(page, total)

	if !s.store.UpdateProgress(id, progress, library.WithPages(page, total)) {
		return domain.TrackedBook{}, false
	}
	s.applyCompletion(id, progress)
	return s.store.Book(id)
}

// SetProgress records a percentage directly, keeping the stored page values
func (s *TrackerService) SetProgress(id string, progress int) (domain.TrackedBook, bool) {
	if !s.store.UpdateProgress(id, progress) {
		return domain.TrackedBook{}, false
	}
	s.applyCompletion(id, progress)
	return s.store.Book(id)
}

// SetStatus sets a book's status
func (s *TrackerService) SetStatus(id string, status domain.BookStatus) bool {
	return s.store.UpdateStatus(id, status)
}

// CycleStatus advances a book to the next status in display order
func (s *TrackerService) CycleStatus(id string) (domain.BookStatus, bool) {
	book, ok := s.store.Book(id)
	if !ok {
		return "", false
	}
	next := book.Status.Next()
	return next, s.store.UpdateStatus(id, next)
}

// CurrentlyReading returns tracked books with status READING in display order
func (s *TrackerService) CurrentlyReading() []domain.TrackedBook {
	var out []domain.TrackedBook
	for _, b := range s.store.Books() {
		if b.Status == domain.StatusReading {
			out = append(out, b)
		}
	}
	return out
}

func (s *TrackerService) applyCompletion(id string, progress int) {
	if progress < 100 {
		return
	}
	book, ok := s.store.Book(id)
	if !ok || book.Status == domain.StatusRead {
		return
	}
	s.store.UpdateStatus(id, domain.StatusRead)
	s.logger.Info("book finished", "id", id, "title", book.Title)
}

// PercentRead returns round(page/total*100), with total treated as at least 1
func PercentRead(page, total int) int {
	total = max(total, 1)
	return int(math.Round(float64(page) / float64(total) * 100))
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, strings.ToLower(fe.Field())+" is required")
		case "max":
			parts = append(parts, fmt.Sprintf("%s is longer than %s characters", strings.ToLower(fe.Field()), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field())))
		}
	}
	return strings.Join(parts, ", ")
}

// === Filtering ===

// FilterMatch is a tracked book that matched a filter query
type FilterMatch struct {
	Book           domain.TrackedBook
	MatchedIndexes []int // byte offsets into Book.Title
}

// bookSource implements sahilm/fuzzy.Source over "title author" strings
type bookSource []string

func (b bookSource) String(i int) string { return b[i] }
func (b bookSource) Len() int            { return len(b) }

// Filter fuzzy-matches query against title and author, best match first.
// An empty query returns every book in order.
func Filter(query string, books []domain.TrackedBook) []FilterMatch {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]FilterMatch, len(books))
		for i, b := range books {
			out[i] = FilterMatch{Book: b}
		}
		return out
	}

	src := make(bookSource, len(books))
	for i, b := range books {
		src[i] = strings.ToLower(b.Title + " " + b.Author)
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), src)
	out := make([]FilterMatch, 0, len(matches))
	for _, m := range matches {
		book := books[m.Index]
		var idx []int
		for _, i := range m.MatchedIndexes {
			if i < len(book.Title) {
				idx = append(idx, i)
			}
		}
		out = append(out, FilterMatch{Book: book, MatchedIndexes: idx})
	}
	return out
}
