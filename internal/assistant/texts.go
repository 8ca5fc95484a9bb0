package assistant

import (
	"fmt"

	"github.com/mmcdole/chapternode/internal/domain"
)

// TeaserText returns the mocked summary for a book
func TeaserText(book domain.Book) string {
	return fmt.Sprintf("In this compelling read, %s breaks down complex concepts into actionable frameworks. "+
		"The book avoids dense jargon, instead focusing on practical applications for daily life. "+
		"It is a highly recommended choice if you are looking to optimize your habits and understand "+
		"the underlying systems that drive human behavior.", book.Author)
}

// WelcomeText returns the assistant's opening chat message
func WelcomeText(book domain.Book) string {
	return fmt.Sprintf("Hi! I'm your ChapterNode assistant. Ask me anything about %q by %s.", book.Title, book.Author)
}

// ReplyText returns the mocked answer to a question about a book.
// The question does not influence the answer.
func ReplyText(book domain.Book, _ string) string {
	return fmt.Sprintf("That's a great question about %s. The author argues that our cognitive biases "+
		"often short-circuit logical decision-making. Would you like me to summarize the specific "+
		"chapter that covers this?", book.Title)
}
