package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/chapternode/internal/cache"
	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const atomicHabitsJSON = `{
  "kind": "books#volumes",
  "totalItems": 1,
  "items": [{
    "id": "XfFvDwAAQBAJ",
    "volumeInfo": {
      "title": "Atomic Habits",
      "authors": ["James Clear"],
      "publishedDate": "2018-10-16",
      "description": "<p>No matter your goals, <b>Atomic Habits</b> offers a proven framework.</p><script>alert(1)</script>",
      "pageCount": 320,
      "categories": ["Self-Help", "Business & Economics"],
      "averageRating": 4.5,
      "ratingsCount": 120
    }
  }]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, WithRateLimit(0, 0)), srv
}

func TestLookupMapsFirstVolume(t *testing.T) {
	var gotQuery, gotMax string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotMax = r.URL.Query().Get("maxResults")
		w.Write([]byte(atomicHabitsJSON))
	})

	meta, err := client.Lookup(context.Background(), "Atomic Habits", "James Clear")
	require.NoError(t, err)

	assert.Equal(t, "intitle:Atomic Habits inauthor:James Clear", gotQuery)
	assert.Equal(t, "1", gotMax)
	assert.Equal(t, 320, meta.PageCount)
	assert.Equal(t, "2018", meta.Year)
	assert.Equal(t, "Self-Help", meta.Category)
	assert.Equal(t, 4.5, meta.AverageRating)
	assert.Contains(t, meta.Description, "**Atomic Habits**")
	assert.NotContains(t, meta.Description, "alert")
	assert.NotContains(t, meta.Description, "<p>")
}

func TestLookupNoItems(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"kind":"books#volumes","totalItems":0}`))
	})

	_, err := client.Lookup(context.Background(), "Nothing", "Nobody")
	assert.ErrorIs(t, err, domain.ErrNoMatch)
}

func TestLookupServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	})

	_, err := client.Lookup(context.Background(), "T", "A")
	assert.ErrorIs(t, err, domain.ErrSourceUnreachable)
}

func TestLookupUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, WithTimeout(time.Second))
	_, err := client.Lookup(context.Background(), "T", "A")
	assert.ErrorIs(t, err, domain.ErrSourceUnreachable)
}

func TestLookupBadJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	_, err := client.Lookup(context.Background(), "T", "A")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNoMatch))
	assert.False(t, errors.Is(err, domain.ErrSourceUnreachable))
}

func TestLookupHonoursCancelledContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(atomicHabitsJSON))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Lookup(ctx, "T", "A")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapperDefaults(t *testing.T) {
	m := NewMapper()
	meta := m.MapMetadata(Volume{VolumeInfo: VolumeInfo{PublishedDate: "c.1999"}})
	assert.Equal(t, DefaultDescription, meta.Description)
	assert.Empty(t, meta.Year)
	assert.Empty(t, meta.Category)
	assert.False(t, meta.HasRating())

	assert.Equal(t, "1999", publishYear("1999"))
	assert.Equal(t, "2001", publishYear("2001-05"))
	assert.Empty(t, publishYear("99"))
}

func TestCachedLookupServesRepeatsFromCache(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(atomicHabitsJSON))
	})
	store, err := cache.Open("")
	require.NoError(t, err)

	lookup := NewCachedLookup(client, store, nil)
	for i := 0; i < 3; i++ {
		meta, err := lookup.Lookup(context.Background(), "Atomic Habits", "James Clear")
		require.NoError(t, err)
		assert.Equal(t, 320, meta.PageCount)
	}
	assert.EqualValues(t, 1, calls.Load())

	lookup.Forget("Atomic Habits", "James Clear")
	_, err = lookup.Lookup(context.Background(), "Atomic Habits", "James Clear")
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestCachedLookupRemembersNoMatch(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"totalItems":0}`))
	})
	store, err := cache.Open("")
	require.NoError(t, err)
	lookup := NewCachedLookup(client, store, nil)

	for i := 0; i < 2; i++ {
		_, err := lookup.Lookup(context.Background(), "X", "Y")
		assert.ErrorIs(t, err, domain.ErrNoMatch)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestCachedLookupDoesNotCacheTransportErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		w.Write([]byte(atomicHabitsJSON))
	})
	store, err := cache.Open("")
	require.NoError(t, err)
	lookup := NewCachedLookup(client, store, nil)

	_, err = lookup.Lookup(context.Background(), "Atomic Habits", "James Clear")
	assert.ErrorIs(t, err, domain.ErrSourceUnreachable)

	meta, err := lookup.Lookup(context.Background(), "Atomic Habits", "James Clear")
	require.NoError(t, err)
	assert.Equal(t, "2018", meta.Year)
	assert.EqualValues(t, 2, calls.Load())
}

type blockingSource struct {
	calls   atomic.Int32
	release chan struct{}
}

func (b *blockingSource) Lookup(ctx context.Context, title, author string) (domain.BookMetadata, error) {
	b.calls.Add(1)
	<-b.release
	return domain.BookMetadata{PageCount: 10}, nil
}

func TestCachedLookupSharesInFlightRequests(t *testing.T) {
	src := &blockingSource{release: make(chan struct{})}
	lookup := NewCachedLookup(src, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			meta, err := lookup.Lookup(context.Background(), "T", "A")
			assert.NoError(t, err)
			assert.Equal(t, 10, meta.PageCount)
		}()
	}

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.LessOrEqual(t, src.calls.Load(), int32(5))
	assert.GreaterOrEqual(t, src.calls.Load(), int32(1))
}

func TestCachedLookupSurvivesCancelledFirstCaller(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		w.Write([]byte(atomicHabitsJSON))
	})
	lookup := NewCachedLookup(client, nil, nil)

	ctx1, cancel1 := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := lookup.Lookup(ctx1, "Atomic Habits", "James Clear")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type outcome struct {
		meta domain.BookMetadata
		err  error
	}
	second := make(chan outcome, 1)
	go func() {
		meta, err := lookup.Lookup(context.Background(), "Atomic Habits", "James Clear")
		second <- outcome{meta, err}
	}()
	time.Sleep(20 * time.Millisecond)

	// The superseded caller gives up without taking the shared call down
	cancel1()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled lookup did not return")
	}

	close(release)
	select {
	case got := <-second:
		require.NoError(t, got.err)
		assert.Equal(t, 320, got.meta.PageCount)
	case <-time.After(2 * time.Second):
		t.Fatal("current lookup did not return")
	}
	assert.EqualValues(t, 1, calls.Load())
}
