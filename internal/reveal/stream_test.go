package reveal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func drain(s *Stream) []string {
	var chunks []string
	for {
		c, ok := s.Next()
		if !ok {
			return chunks
		}
		chunks = append(chunks, c)
	}
}

func TestStreamRevealsWholeText(t *testing.T) {
	text := "In this compelling read, Clear breaks down complex concepts."
	s := New(1, text, 1)

	chunks := drain(s)
	assert.Len(t, chunks, len(text))
	assert.Equal(t, text, strings.Join(chunks, ""), "no character is dropped")
	assert.Equal(t, text, s.Text())
	assert.True(t, s.Done())
}

func TestStreamChunksAreRuneSafe(t *testing.T) {
	s := New(1, "héllo wörld", 3)
	chunks := drain(s)
	assert.Equal(t, []string{"hél", "lo ", "wör", "ld"}, chunks)
}

func TestStreamChunkMinimum(t *testing.T) {
	s := New(1, "ab", 0)
	assert.Equal(t, []string{"a", "b"}, drain(s))
}

func TestEmptyStreamIsDone(t *testing.T) {
	s := New(1, "", 1)
	assert.True(t, s.Done())
	_, ok := s.Next()
	assert.False(t, ok)
}

func TestCancelledStreamYieldsNothing(t *testing.T) {
	s := New(7, "abcdef", 1)
	s.Next()
	s.Next()
	s.Cancel()

	_, ok := s.Next()
	assert.False(t, ok)
	assert.True(t, s.Done())
	assert.True(t, s.Cancelled())
	assert.Equal(t, "ab", s.Text())
	assert.Equal(t, uint64(7), s.ID())
}
