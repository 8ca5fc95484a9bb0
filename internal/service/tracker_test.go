package service

import (
	"testing"

	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/mmcdole/chapternode/internal/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T) (*TrackerService, *library.Store) {
	t.Helper()
	store := library.New(library.WithBooks(library.DefaultSeed()...))
	return NewTrackerService(store, nil), store
}

func TestManualAdd(t *testing.T) {
	svc, store := newTracker(t)

	book, err := svc.ManualAdd(ManualEntry{Title: "  Dune ", Author: "Frank Herbert"})
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, domain.StatusReading, book.Status)
	assert.Equal(t, 0, book.Progress)
	assert.Equal(t, "https://ui-avatars.com/api/?background=random&name=Dune&size=200", book.CoverURL)

	books := store.Books()
	require.Len(t, books, 2)
	assert.Equal(t, book.ID, books[0].ID)
}

func TestManualAddRejectsBlankFields(t *testing.T) {
	svc, store := newTracker(t)

	tests := []struct {
		name  string
		entry ManualEntry
		want  string
	}{
		{"blank title", ManualEntry{Title: "   ", Author: "A"}, "title is required"},
		{"blank author", ManualEntry{Title: "T", Author: ""}, "author is required"},
		{"both blank", ManualEntry{}, "title is required, author is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ManualAdd(tt.entry)
			require.ErrorIs(t, err, domain.ErrInvalidBook)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
	assert.Equal(t, 1, store.Len(), "rejected entries never reach the store")
}

func TestStartReadingPromotesDiscoveryBook(t *testing.T) {
	svc, store := newTracker(t)
	rec := domain.Book{ID: "rec-1", Title: "Atomic Habits", Author: "James Clear", CoverURL: "cover"}

	tracked := svc.StartReading(rec)
	assert.NotEqual(t, "rec-1", tracked.ID)
	assert.Equal(t, "Atomic Habits", tracked.Title)
	assert.Equal(t, "cover", tracked.CoverURL)
	assert.Equal(t, domain.StatusReading, tracked.Status)
	assert.Equal(t, tracked.ID, store.Books()[0].ID)
}

func TestLogPages(t *testing.T) {
	svc, _ := newTracker(t)

	book, ok := svc.LogPages("1", 250, 499)
	require.True(t, ok)
	assert.Equal(t, 50, book.Progress)
	assert.Equal(t, 250, book.CurrentPage)
	assert.Equal(t, 499, book.TotalPages)
	assert.Equal(t, domain.StatusReading, book.Status)

	book, _ = svc.LogPages("1", 900, 0)
	assert.Equal(t, 1, book.TotalPages)
	assert.Equal(t, 1, book.CurrentPage)
	assert.Equal(t, 100, book.Progress)

	_, ok = svc.LogPages("missing", 1, 2)
	assert.False(t, ok)
}

func TestCompletionPolicy(t *testing.T) {
	svc, store := newTracker(t)

	book, ok := svc.LogPages("1", 499, 499)
	require.True(t, ok)
	assert.Equal(t, 100, book.Progress)
	assert.Equal(t, domain.StatusRead, book.Status)

	// Direct store writes are not subject to the rule
	b := store.Add(domain.BookInput{Title: "B", Author: "B"})
	store.UpdateProgress(b.ID, 150)
	direct, _ := store.Book(b.ID)
	assert.Equal(t, domain.StatusReading, direct.Status)

	book, _ = svc.SetProgress(b.ID, 120)
	assert.Equal(t, 100, book.Progress)
	assert.Equal(t, domain.StatusRead, book.Status)

	c := store.Add(domain.BookInput{Title: "C", Author: "C"})
	book, _ = svc.SetProgress(c.ID, 99)
	assert.Equal(t, domain.StatusReading, book.Status)
}

func TestCycleAndSetStatus(t *testing.T) {
	svc, store := newTracker(t)

	next, ok := svc.CycleStatus("1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusRead, next)
	next, _ = svc.CycleStatus("1")
	assert.Equal(t, domain.StatusDNF, next)
	next, _ = svc.CycleStatus("1")
	assert.Equal(t, domain.StatusToRead, next)

	assert.True(t, svc.SetStatus("1", domain.StatusReading))
	book, _ := store.Book("1")
	assert.Equal(t, 42, book.Progress)

	_, ok = svc.CycleStatus("missing")
	assert.False(t, ok)
}

func TestCurrentlyReading(t *testing.T) {
	svc, store := newTracker(t)
	b := store.Add(domain.BookInput{Title: "B", Author: "B", Status: domain.StatusToRead})
	c := store.Add(domain.BookInput{Title: "C", Author: "C"})

	reading := svc.CurrentlyReading()
	require.Len(t, reading, 2)
	assert.Equal(t, c.ID, reading[0].ID)
	assert.Equal(t, "1", reading[1].ID)
	for _, r := range reading {
		assert.NotEqual(t, b.ID, r.ID)
	}
}

func TestPercentRead(t *testing.T) {
	assert.Equal(t, 42, PercentRead(210, 499))
	assert.Equal(t, 0, PercentRead(0, 300))
	assert.Equal(t, 100, PercentRead(300, 300))
	assert.Equal(t, 0, PercentRead(0, 0))
}

func TestFilter(t *testing.T) {
	books := []domain.TrackedBook{
		{Book: domain.Book{ID: "1", Title: "Thinking, Fast and Slow", Author: "Daniel Kahneman"}},
		{Book: domain.Book{ID: "2", Title: "Dune", Author: "Frank Herbert"}},
		{Book: domain.Book{ID: "3", Title: "Emma", Author: "Jane Austen"}},
	}

	all := Filter("", books)
	require.Len(t, all, 3)

	got := Filter("dune", books)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].Book.ID)
	assert.Equal(t, []int{0, 1, 2, 3}, got[0].MatchedIndexes)

	got = Filter("kahneman", books)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].Book.ID)
	for _, i := range got[0].MatchedIndexes {
		assert.Less(t, i, len(got[0].Book.Title), "highlights stay within the title")
	}

	assert.Empty(t, Filter("xyzzy", books))
}
