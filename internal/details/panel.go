package details

import (
	"context"
	"errors"

	"github.com/mmcdole/chapternode/internal/domain"
)

// User-facing messages for failed lookups
const (
	NotFoundMessage = "Could not find extended details for this book."
	FailedMessage   = "Failed to connect to the book database."
)

// State is the display state of the details overlay
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateNotFound
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateNotFound:
		return "not_found"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one catalog lookup, tagged with the overlay
// generation it was issued for.
type Result struct {
	Generation uint64
	BookID     string
	Metadata   domain.BookMetadata
	Err        error
}

// Panel holds what the details overlay currently shows.
// Results for any generation other than the current one are stale and dropped.
type Panel struct {
	book       domain.Book
	generation uint64
	state      State
	metadata   domain.BookMetadata
}

// Begin resets the panel for a newly opened selection and enters Loading.
// A closed selection resets the panel to Idle.
func (p *Panel) Begin(sel domain.Selection) {
	if !sel.Open() {
		p.Close()
		return
	}
	p.book = sel.Book()
	p.generation = sel.Generation
	p.state = StateLoading
	p.metadata = domain.BookMetadata{}
}

// Apply records a lookup result. It returns false, leaving the panel
// untouched, when the result belongs to an earlier selection, the panel
// is no longer waiting for it, or the lookup was cancelled by its caller.
func (p *Panel) Apply(r Result) bool {
	if p.state != StateLoading || r.Generation != p.generation {
		return false
	}
	if errors.Is(r.Err, context.Canceled) {
		return false
	}
	switch {
	case r.Err == nil:
		p.state = StateLoaded
		p.metadata = r.Metadata
	case errors.Is(r.Err, domain.ErrNoMatch):
		p.state = StateNotFound
	default:
		p.state = StateFailed
	}
	return true
}

// Close returns the panel to Idle
func (p *Panel) Close() {
	*p = Panel{}
}

func (p *Panel) State() State                  { return p.state }
func (p *Panel) Book() domain.Book             { return p.book }
func (p *Panel) Generation() uint64            { return p.generation }
func (p *Panel) Loading() bool                 { return p.state == StateLoading }
func (p *Panel) Metadata() domain.BookMetadata { return p.metadata }

// Message returns the error text for NotFound and Failed states, "" otherwise
func (p *Panel) Message() string {
	switch p.state {
	case StateNotFound:
		return NotFoundMessage
	case StateFailed:
		return FailedMessage
	default:
		return ""
	}
}
