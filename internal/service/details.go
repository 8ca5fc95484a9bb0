package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmcdole/chapternode/internal/details"
	"github.com/mmcdole/chapternode/internal/domain"
)

// ErrNoSelection is returned for a lookup against a closed overlay
var ErrNoSelection = errors.New("details overlay is closed")

// DetailsService fetches extended details for the details overlay
type DetailsService struct {
	lookup domain.MetadataLookup
	logger *slog.Logger
}

// NewDetailsService creates a details service
func NewDetailsService(lookup domain.MetadataLookup, logger *slog.Logger) *DetailsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailsService{lookup: lookup, logger: logger}
}

// Lookup queries the catalog for the selected book. The result carries the
// selection's generation so a panel showing a newer selection can drop it.
func (s *DetailsService) Lookup(ctx context.Context, sel domain.Selection) details.Result {
	result := details.Result{Generation: sel.Generation}
	if !sel.Open() {
		result.Err = ErrNoSelection
		return result
	}

	book := sel.Book()
	result.BookID = book.ID

	meta, err := s.lookup.Lookup(ctx, book.Title, book.Author)
	if err != nil {
		if errors.Is(err, domain.ErrNoMatch) {
			s.logger.Debug("no catalog match", "title", book.Title)
		} else {
			s.logger.Warn("details lookup failed", "title", book.Title, "error", err)
		}
		result.Err = err
		return result
	}

	s.logger.Debug("details loaded", "title", book.Title, "generation", sel.Generation)
	result.Metadata = meta
	return result
}
