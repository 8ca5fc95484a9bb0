package details

import (
	"context"
	"fmt"
	"testing"

	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bookA = domain.Book{ID: "a", Title: "Atomic Habits", Author: "James Clear"}
	bookB = domain.Book{ID: "b", Title: "The Design of Everyday Things", Author: "Don Norman"}
)

func TestPanelLoadsMetadata(t *testing.T) {
	var p Panel
	assert.Equal(t, StateIdle, p.State())

	p.Begin(domain.Selection{Ref: bookA, Generation: 1})
	assert.True(t, p.Loading())
	assert.Equal(t, bookA, p.Book())

	ok := p.Apply(Result{Generation: 1, BookID: "a", Metadata: domain.BookMetadata{PageCount: 320}})
	require.True(t, ok)
	assert.Equal(t, StateLoaded, p.State())
	assert.Equal(t, 320, p.Metadata().PageCount)
	assert.Empty(t, p.Message())
}

func TestPanelErrorStates(t *testing.T) {
	tests := []struct {
		err   error
		state State
		msg   string
	}{
		{domain.ErrNoMatch, StateNotFound, NotFoundMessage},
		{fmt.Errorf("wrapped: %w", domain.ErrNoMatch), StateNotFound, NotFoundMessage},
		{domain.ErrSourceUnreachable, StateFailed, FailedMessage},
		{fmt.Errorf("failed to parse response: bad json"), StateFailed, FailedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			var p Panel
			p.Begin(domain.Selection{Ref: bookA, Generation: 3})
			require.True(t, p.Apply(Result{Generation: 3, Err: tt.err}))
			assert.Equal(t, tt.state, p.State())
			assert.Equal(t, tt.msg, p.Message())
			assert.Equal(t, domain.BookMetadata{}, p.Metadata(), "error states carry no details")
		})
	}
}

func TestPanelDropsStaleResult(t *testing.T) {
	var p Panel
	p.Begin(domain.Selection{Ref: bookA, Generation: 1})
	p.Begin(domain.Selection{Ref: bookB, Generation: 2})

	// A's lookup resolves after B was opened
	assert.False(t, p.Apply(Result{Generation: 1, BookID: "a", Metadata: domain.BookMetadata{PageCount: 320}}))
	assert.True(t, p.Loading())
	assert.Equal(t, bookB, p.Book())

	assert.True(t, p.Apply(Result{Generation: 2, BookID: "b", Metadata: domain.BookMetadata{PageCount: 368}}))
	assert.Equal(t, 368, p.Metadata().PageCount)

	// A late duplicate for the current generation is ignored once loaded
	assert.False(t, p.Apply(Result{Generation: 2, Err: domain.ErrSourceUnreachable}))
	assert.Equal(t, StateLoaded, p.State())
}

func TestPanelIgnoresCancelledLookup(t *testing.T) {
	var p Panel
	p.Begin(domain.Selection{Ref: bookA, Generation: 4})

	assert.False(t, p.Apply(Result{Generation: 4, Err: fmt.Errorf("request: %w", context.Canceled)}))
	assert.True(t, p.Loading())
	assert.Empty(t, p.Message())

	// A timeout is still a failure
	require.True(t, p.Apply(Result{Generation: 4, Err: context.DeadlineExceeded}))
	assert.Equal(t, StateFailed, p.State())
}

func TestPanelIgnoresResultAfterClose(t *testing.T) {
	var p Panel
	p.Begin(domain.Selection{Ref: bookA, Generation: 1})
	p.Close()

	assert.False(t, p.Apply(Result{Generation: 1, Metadata: domain.BookMetadata{PageCount: 1}}))
	assert.Equal(t, StateIdle, p.State())
	assert.Equal(t, domain.Book{}, p.Book())
}

func TestPanelBeginWithClosedSelection(t *testing.T) {
	var p Panel
	p.Begin(domain.Selection{Ref: bookA, Generation: 1})
	p.Begin(domain.Selection{Generation: 1})
	assert.Equal(t, StateIdle, p.State())
}
