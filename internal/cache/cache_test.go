package cache

import (
	"testing"
	"time"

	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ domain.LookupCache = (*LookupStore)(nil)

func sampleEntry() domain.CachedLookup {
	return domain.CachedLookup{
		Metadata: domain.BookMetadata{
			Description: "A book about **habits**.",
			PageCount:   320,
			Year:        "2018",
			Category:    "Self-Help",
		},
	}
}

func TestKeyNormalizes(t *testing.T) {
	assert.Equal(t, Key("Dune", "Frank Herbert"), Key("  dune ", "FRANK HERBERT"))
	assert.NotEqual(t, Key("Dune", "Frank Herbert"), Key("Dune Messiah", "Frank Herbert"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	assert.Len(t, Key("a", "b"), 24)
}

func TestMemoryOnlyRoundTrip(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()
	assert.False(t, s.Persistent())

	_, ok := s.GetLookup("k")
	assert.False(t, ok)

	require.NoError(t, s.SaveLookup("k", sampleEntry()))
	got, ok := s.GetLookup("k")
	require.True(t, ok)
	assert.Equal(t, 320, got.Metadata.PageCount)
	assert.NotZero(t, got.StoredAt)
	assert.Equal(t, 1, s.Len())
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.True(t, s.Persistent())
	require.NoError(t, s.SaveLookup("hit", sampleEntry()))
	require.NoError(t, s.SaveLookup("miss", domain.CachedLookup{NoMatch: true}))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	got, ok := s.GetLookup("hit")
	require.True(t, ok)
	assert.Equal(t, "Self-Help", got.Metadata.Category)

	miss, ok := s.GetLookup("miss")
	require.True(t, ok)
	assert.True(t, miss.NoMatch)
	assert.Equal(t, 2, s.Len())
}

func TestExpiredEntriesAreMisses(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s, err := Open(t.TempDir(), WithTTL(time.Hour), WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveLookup("k", sampleEntry()))

	now = now.Add(59 * time.Minute)
	_, ok := s.GetLookup("k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = s.GetLookup("k")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len(), "expired entry is removed")
}

func TestInvalidate(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveLookup("a", sampleEntry()))
	require.NoError(t, s.SaveLookup("b", sampleEntry()))

	s.Invalidate("a")
	_, ok := s.GetLookup("a")
	assert.False(t, ok)
	_, ok = s.GetLookup("b")
	assert.True(t, ok)

	s.InvalidateAll()
	_, ok = s.GetLookup("b")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}
