package domain

import (
	"fmt"
	"strings"
	"time"
)

// BookStatus is the reading state of a tracked book
type BookStatus string

const (
	StatusToRead  BookStatus = "TO_READ"
	StatusReading BookStatus = "READING"
	StatusRead    BookStatus = "READ"
	StatusDNF     BookStatus = "DNF"
)

// AllStatuses lists every status in display order
var AllStatuses = []BookStatus{StatusToRead, StatusReading, StatusRead, StatusDNF}

// Valid reports whether s is one of the four known statuses
func (s BookStatus) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusRead, StatusDNF:
		return true
	default:
		return false
	}
}

// Label returns the human-readable name for the status
func (s BookStatus) Label() string {
	switch s {
	case StatusToRead:
		return "To Read"
	case StatusReading:
		return "Reading"
	case StatusRead:
		return "Read"
	case StatusDNF:
		return "Did Not Finish"
	default:
		return "Unknown"
	}
}

// Next returns the status after s in display order, wrapping around
func (s BookStatus) Next() BookStatus {
	for i, st := range AllStatuses {
		if st == s {
			return AllStatuses[(i+1)%len(AllStatuses)]
		}
	}
	return StatusReading
}

// ParseBookStatus converts a string (case-insensitive) to a BookStatus
func ParseBookStatus(s string) (BookStatus, error) {
	st := BookStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown book status %q", s)
	}
	return st, nil
}

// Book is a book surfaced by the recommendation feed or a lookup, not yet tracked.
// Immutable once produced.
type Book struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverURL string `json:"cover_url"`
}

// BookInfo implements BookRef
func (b Book) BookInfo() Book { return b }

// TrackedBook is a book the user is actively managing
type TrackedBook struct {
	Book

	Progress    int        `json:"progress"` // 0..100
	Status      BookStatus `json:"status"`
	CurrentPage int        `json:"current_page"`
	TotalPages  int        `json:"total_pages"` // >= 1
	StartedAt   time.Time  `json:"started_at,omitzero"`
}

// BookInfo implements BookRef
func (t TrackedBook) BookInfo() Book { return t.Book }

// IsFinished returns true when the book is marked read
func (t TrackedBook) IsFinished() bool {
	return t.Status == StatusRead
}

// PageLabel returns "210 / 499" style page info
func (t TrackedBook) PageLabel() string {
	return fmt.Sprintf("%d / %d", t.CurrentPage, t.TotalPages)
}

// BookRef is a weak reference to a book held by an overlay.
// Implemented by Book and TrackedBook.
type BookRef interface {
	BookInfo() Book
}

// BookInput carries the fields for adding a book to the tracker.
// Zero values of the optional fields mean "use the default".
type BookInput struct {
	Title    string
	Author   string
	CoverURL string

	Progress    *int
	Status      BookStatus
	CurrentPage *int
	TotalPages  *int
}

// OverlayKind identifies one of the overlay surfaces
type OverlayKind int

const (
	OverlayTeaser OverlayKind = iota
	OverlayChat
	OverlayDetails
)

// OverlayKinds lists every overlay kind
var OverlayKinds = []OverlayKind{OverlayTeaser, OverlayChat, OverlayDetails}

// String returns the display name for the overlay kind
func (k OverlayKind) String() string {
	switch k {
	case OverlayTeaser:
		return "teaser"
	case OverlayChat:
		return "chat"
	case OverlayDetails:
		return "details"
	default:
		return fmt.Sprintf("overlay(%d)", int(k))
	}
}

// Selection is the (reference, open) state for one overlay.
// Generation increments every time the overlay is opened so that async work
// issued for an earlier selection can be recognised as stale.
type Selection struct {
	Ref        BookRef
	Generation uint64
}

// Open reports whether the overlay is showing. True only while Ref is set.
func (s Selection) Open() bool {
	return s.Ref != nil
}

// Book returns the referenced book, or the zero Book when closed
func (s Selection) Book() Book {
	if s.Ref == nil {
		return Book{}
	}
	return s.Ref.BookInfo()
}
