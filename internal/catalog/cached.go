package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmcdole/chapternode/internal/cache"
	"github.com/mmcdole/chapternode/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CachedLookup wraps a MetadataLookup with a response cache.
// Concurrent lookups for the same query share one upstream call.
// Transport errors are never cached, so a later retry can succeed.
type CachedLookup struct {
	source domain.MetadataLookup
	cache  domain.LookupCache
	group  singleflight.Group
	logger *slog.Logger
}

// NewCachedLookup creates a cached lookup. A nil cache passes straight through.
func NewCachedLookup(source domain.MetadataLookup, c domain.LookupCache, logger *slog.Logger) *CachedLookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedLookup{source: source, cache: c, logger: logger}
}

// Lookup implements domain.MetadataLookup
func (l *CachedLookup) Lookup(ctx context.Context, title, author string) (domain.BookMetadata, error) {
	key := cache.Key(title, author)

	if l.cache != nil {
		if entry, ok := l.cache.GetLookup(key); ok {
			l.logger.Debug("lookup cache hit", "title", title, "noMatch", entry.NoMatch)
			if entry.NoMatch {
				return domain.BookMetadata{}, domain.ErrNoMatch
			}
			return entry.Metadata, nil
		}
	}

	// The shared call must outlive any single caller, so it runs detached
	// and each caller waits on its own context.
	ch := l.group.DoChan(key, func() (any, error) {
		meta, err := l.source.Lookup(context.WithoutCancel(ctx), title, author)
		l.store(key, meta, err)
		return meta, err
	})

	select {
	case <-ctx.Done():
		return domain.BookMetadata{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			l.logger.Debug("lookup shared in-flight request", "title", title)
		}
		if res.Err != nil {
			return domain.BookMetadata{}, res.Err
		}
		return res.Val.(domain.BookMetadata), nil
	}
}

// Forget drops the cached response for a query
func (l *CachedLookup) Forget(title, author string) {
	if l.cache != nil {
		l.cache.Invalidate(cache.Key(title, author))
	}
}

func (l *CachedLookup) store(key string, meta domain.BookMetadata, err error) {
	if l.cache == nil {
		return
	}
	var entry domain.CachedLookup
	switch {
	case err == nil:
		entry.Metadata = meta
	case errors.Is(err, domain.ErrNoMatch):
		entry.NoMatch = true
	default:
		return
	}
	if err := l.cache.SaveLookup(key, entry); err != nil {
		l.logger.Warn("failed to cache lookup", "error", err)
	}
}
