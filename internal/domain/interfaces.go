package domain

import "context"

// MetadataLookup resolves extended details for a book from a remote catalog.
// Implementations return ErrNoMatch when the catalog has no entry and
// ErrSourceUnreachable on transport failures.
type MetadataLookup interface {
	Lookup(ctx context.Context, title, author string) (BookMetadata, error)
}

// LookupCache stores catalog responses keyed by query.
type LookupCache interface {
	GetLookup(key string) (CachedLookup, bool)
	SaveLookup(key string, entry CachedLookup) error
	Invalidate(key string)
	InvalidateAll()
	Close() error
}

// CachedLookup is a cached catalog response. NoMatch entries remember that
// the catalog had nothing for the query.
type CachedLookup struct {
	Metadata BookMetadata `json:"metadata"`
	NoMatch  bool         `json:"no_match"`
	StoredAt int64        `json:"stored_at"` // unix seconds
}
