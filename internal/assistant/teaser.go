package assistant

import "github.com/mmcdole/chapternode/internal/domain"

// TeaserStatus is the lifecycle of a generated teaser
type TeaserStatus int

const (
	TeaserIdle TeaserStatus = iota
	TeaserGenerating
	TeaserComplete
)

// Teaser is the state of the teaser overlay
type Teaser struct {
	book    domain.Book
	status  TeaserStatus
	summary string
}

// Begin starts generating a teaser for book, discarding any previous one
func (t *Teaser) Begin(book domain.Book) {
	t.Reset()
	t.book = book
	t.status = TeaserGenerating
}

// Append adds revealed text while generating
func (t *Teaser) Append(chunk string) {
	if t.status != TeaserGenerating {
		return
	}
	t.summary += chunk
}

// Complete marks generation finished
func (t *Teaser) Complete() {
	if t.status == TeaserGenerating {
		t.status = TeaserComplete
	}
}

// Reset returns to Idle with no summary
func (t *Teaser) Reset() {
	t.book = domain.Book{}
	t.status = TeaserIdle
	t.summary = ""
}

func (t *Teaser) Book() domain.Book    { return t.book }
func (t *Teaser) Status() TeaserStatus { return t.status }
func (t *Teaser) Summary() string      { return t.summary }

// CanStartReading is true only once the summary has fully revealed
func (t *Teaser) CanStartReading() bool {
	return t.status == TeaserComplete
}
