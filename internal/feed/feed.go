package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/chapternode/internal/domain"
)

// ErrRefreshInProgress is returned when Refresh is called while another refresh runs
var ErrRefreshInProgress = errors.New("feed refresh already in progress")

// Recommendation is a feed entry: a discovery book and why it was picked
type Recommendation struct {
	domain.Book
	Reason string
}

// DefaultRecommendations returns the mocked feed contents
func DefaultRecommendations() []Recommendation {
	return []Recommendation{
		{
			Book:   book("rec-1", "Atomic Habits", "James Clear"),
			Reason: `Because you are currently reading "Thinking, Fast and Slow", you might enjoy this practical application of behavioral systems.`,
		},
		{
			Book:   book("rec-2", "The Design of Everyday Things", "Don Norman"),
			Reason: "Matches your historical interest in cognitive psychology and system architecture.",
		},
		{
			Book:   book("rec-3", "Deep Work", "Cal Newport"),
			Reason: "Readers who track focus and habits often move on to this one.",
		},
		{
			Book:   book("rec-4", "Sapiens", "Yuval Noah Harari"),
			Reason: "A sweeping look at the systems behind human behavior.",
		},
	}
}

func book(id, title, author string) domain.Book {
	return domain.Book{ID: id, Title: title, Author: author, CoverURL: domain.PlaceholderCoverURL(title)}
}

// Feed holds the recommendation list shown in the discovery pane
type Feed struct {
	mu         sync.RWMutex
	items      []Recommendation
	refreshing bool

	delay   time.Duration
	shuffle func([]Recommendation)
	logger  *slog.Logger
}

// Option configures a Feed
type Option func(*Feed)

// WithItems replaces the initial recommendations
func WithItems(items ...Recommendation) Option {
	return func(f *Feed) { f.items = slices.Clone(items) }
}

// WithDelay sets the simulated refresh latency
func WithDelay(d time.Duration) Option {
	return func(f *Feed) { f.delay = d }
}

// WithShuffle overrides how Refresh reorders items
func WithShuffle(fn func([]Recommendation)) Option {
	return func(f *Feed) { f.shuffle = fn }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(f *Feed) { f.logger = logger }
}

// New creates a feed seeded with DefaultRecommendations
func New(opts ...Option) *Feed {
	f := &Feed{
		items: DefaultRecommendations(),
		delay: 800 * time.Millisecond,
		shuffle: func(items []Recommendation) {
			rand.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Items returns a copy of the current recommendations
func (f *Feed) Items() []Recommendation {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.items)
}

// Refreshing reports whether a refresh is running
func (f *Feed) Refreshing() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.refreshing
}

// Refresh simulates fetching a new feed and reorders the items.
// A cancelled ctx leaves the items unchanged.
func (f *Feed) Refresh(ctx context.Context) ([]Recommendation, error) {
	f.mu.Lock()
	if f.refreshing {
		f.mu.Unlock()
		return nil, ErrRefreshInProgress
	}
	f.refreshing = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.refreshing = false
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		timer := time.NewTimer(f.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	f.mu.Lock()
	items := slices.Clone(f.items)
	f.shuffle(items)
	f.items = items
	f.mu.Unlock()

	f.logger.Debug("feed refreshed", "count", len(items))
	return slices.Clone(items), nil
}

// Personalize rewrites the lead recommendation's reason to mention the first
// book currently being read. Without one the reasons are left alone.
func (f *Feed) Personalize(reading []domain.TrackedBook) {
	var current *domain.TrackedBook
	for i := range reading {
		if reading[i].Status == domain.StatusReading {
			current = &reading[i]
			break
		}
	}
	if current == nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.items) == 0 {
		return
	}
	f.items[0].Reason = fmt.Sprintf("Because you are currently reading %q, you might enjoy this practical application of behavioral systems.", current.Title)
}

// Find returns the recommendation with the given id
func (f *Feed) Find(id string) (Recommendation, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, r := range f.items {
		if r.ID == id {
			return r, true
		}
	}
	return Recommendation{}, false
}

// Search returns recommendations whose title or author fuzzily match query,
// best match first. An empty query returns everything in feed order.
func (f *Feed) Search(query string) []Recommendation {
	items := f.Items()
	if query == "" {
		return items
	}

	targets := make([]string, len(items))
	for i, r := range items {
		targets[i] = r.Title + " " + r.Author
	}

	ranks := fuzzy.RankFindFold(query, targets)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.OriginalIndex - b.OriginalIndex
	})

	results := make([]Recommendation, 0, len(ranks))
	for _, r := range ranks {
		results = append(results, items[r.OriginalIndex])
	}
	return results
}
