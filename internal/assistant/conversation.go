package assistant

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mmcdole/chapternode/internal/domain"
)

var (
	ErrEmptyQuestion   = errors.New("question is empty")
	ErrReplyInProgress = errors.New("assistant is still replying")
	ErrNoReply         = errors.New("no reply in progress")
)

// Role identifies who wrote a message
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message is one entry in the chat transcript
type Message struct {
	ID      string
	Role    Role
	Content string
}

// Conversation is the chat drawer's transcript for one book
type Conversation struct {
	book     domain.Book
	messages []Message
	replying int // index of the AI message being revealed, -1 when idle
	newID    func() string
}

// NewConversation creates an empty conversation
func NewConversation() *Conversation {
	return &Conversation{replying: -1, newID: uuid.NewString}
}

// Begin seeds the welcome message for book. Calling it again for the same
// book keeps the transcript; a different book starts over.
func (c *Conversation) Begin(book domain.Book) {
	if len(c.messages) > 0 && c.book.ID == book.ID {
		return
	}
	c.Reset()
	c.book = book
	c.messages = append(c.messages, Message{ID: c.newID(), Role: RoleAI, Content: WelcomeText(book)})
}

// Ask records a user question
func (c *Conversation) Ask(text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyQuestion
	}
	if c.Replying() {
		return Message{}, ErrReplyInProgress
	}
	msg := Message{ID: c.newID(), Role: RoleUser, Content: text}
	c.messages = append(c.messages, msg)
	return msg, nil
}

// StartReply appends an empty AI message that AppendReply fills in
func (c *Conversation) StartReply() (Message, error) {
	if c.Replying() {
		return Message{}, ErrReplyInProgress
	}
	msg := Message{ID: c.newID(), Role: RoleAI}
	c.messages = append(c.messages, msg)
	c.replying = len(c.messages) - 1
	return msg, nil
}

// AppendReply adds revealed text to the reply in progress
func (c *Conversation) AppendReply(chunk string) error {
	if !c.Replying() {
		return ErrNoReply
	}
	c.messages[c.replying].Content += chunk
	return nil
}

// FinishReply ends the reply in progress
func (c *Conversation) FinishReply() {
	c.replying = -1
}

// Replying reports whether a reply is being revealed
func (c *Conversation) Replying() bool {
	return c.replying >= 0
}

// Reset clears the transcript
func (c *Conversation) Reset() {
	c.book = domain.Book{}
	c.messages = nil
	c.replying = -1
}

func (c *Conversation) Book() domain.Book { return c.book }

// Messages returns a copy of the transcript in order
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}
