package reveal

import "sync"

// Stream reveals a fixed text a few runes at a time.
// It is finite and stops permanently once cancelled.
type Stream struct {
	id    uint64
	runes []rune
	chunk int

	mu        sync.Mutex
	pos       int
	cancelled bool
}

// New creates a stream over text emitting chunk runes per step (minimum 1)
func New(id uint64, text string, chunk int) *Stream {
	return &Stream{
		id:    id,
		runes: []rune(text),
		chunk: max(chunk, 1),
	}
}

// ID identifies the stream so late ticks for a replaced stream can be ignored
func (s *Stream) ID() uint64 { return s.id }

// Next returns the next chunk. ok is false once the text is exhausted or the
// stream was cancelled.
func (s *Stream) Next() (chunk string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled || s.pos >= len(s.runes) {
		return "", false
	}
	end := min(s.pos+s.chunk, len(s.runes))
	chunk = string(s.runes[s.pos:end])
	s.pos = end
	return chunk, true
}

// Cancel stops the stream. Safe to call more than once.
func (s *Stream) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
}

// Cancelled reports whether Cancel was called
func (s *Stream) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Done reports whether the stream will produce no more chunks
func (s *Stream) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled || s.pos >= len(s.runes)
}

// Text returns everything revealed so far
func (s *Stream) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.runes[:s.pos])
}
