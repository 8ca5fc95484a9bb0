package feed

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reverse(items []Recommendation) { slices.Reverse(items) }

func ids(items []Recommendation) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}

func TestDefaultRecommendations(t *testing.T) {
	items := DefaultRecommendations()
	require.GreaterOrEqual(t, len(items), 2)
	assert.Equal(t, "rec-1", items[0].ID)
	assert.Equal(t, "Atomic Habits", items[0].Title)
	assert.Equal(t, "rec-2", items[1].ID)
	assert.Contains(t, items[0].CoverURL, "ui-avatars.com")
	assert.Contains(t, items[0].CoverURL, "name=Atomic+Habits")
}

func TestRefreshReorders(t *testing.T) {
	f := New(WithDelay(0), WithShuffle(reverse))
	before := ids(f.Items())

	got, err := f.Refresh(context.Background())
	require.NoError(t, err)

	want := slices.Clone(before)
	slices.Reverse(want)
	assert.Equal(t, want, ids(got))
	assert.Equal(t, want, ids(f.Items()))
	assert.False(t, f.Refreshing())
}

func TestRefreshCancelled(t *testing.T) {
	f := New(WithDelay(time.Hour), WithShuffle(reverse))
	before := ids(f.Items())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Refresh(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, before, ids(f.Items()))
	assert.False(t, f.Refreshing())
}

func TestConcurrentRefreshRejected(t *testing.T) {
	f := New(WithDelay(50 * time.Millisecond))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.Refresh(context.Background())
		assert.NoError(t, err)
	}()

	require.Eventually(t, f.Refreshing, time.Second, time.Millisecond)
	_, err := f.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRefreshInProgress)
	wg.Wait()
}

func TestPersonalize(t *testing.T) {
	f := New()
	f.Personalize([]domain.TrackedBook{
		{Book: domain.Book{Title: "Emma"}, Status: domain.StatusToRead},
		{Book: domain.Book{Title: "Dune"}, Status: domain.StatusReading},
	})
	assert.Contains(t, f.Items()[0].Reason, `"Dune"`)

	original := f.Items()[0].Reason
	f.Personalize(nil)
	assert.Equal(t, original, f.Items()[0].Reason)
}

func TestSearch(t *testing.T) {
	f := New()

	assert.Len(t, f.Search(""), len(DefaultRecommendations()))

	got := f.Search("atomic")
	require.NotEmpty(t, got)
	assert.Equal(t, "rec-1", got[0].ID)

	got = f.Search("norman")
	require.Len(t, got, 1)
	assert.Equal(t, "rec-2", got[0].ID)

	assert.Empty(t, f.Search("zzzz"))
}

func TestFind(t *testing.T) {
	f := New()
	r, ok := f.Find("rec-2")
	require.True(t, ok)
	assert.Equal(t, "Don Norman", r.Author)
	_, ok = f.Find("missing")
	assert.False(t, ok)
}
