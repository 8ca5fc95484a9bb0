package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/chapternode/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var bucketLookups = []byte("lookups")

// LookupStore implements domain.LookupCache using BoltDB with an in-memory
// layer in front of it.
type LookupStore struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex // Protects memory cache
	cache map[string][]byte

	logger *slog.Logger
}

// Option configures a LookupStore
type Option func(*LookupStore)

// WithTTL sets how long entries stay fresh. Zero means entries never expire.
func WithTTL(ttl time.Duration) Option {
	return func(s *LookupStore) { s.ttl = ttl }
}

// WithClock overrides the clock used for expiry checks
func WithClock(fn func() time.Time) Option {
	return func(s *LookupStore) { s.now = fn }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *LookupStore) { s.logger = logger }
}

// Open creates a lookup store under dir. An empty dir runs memory-only.
func Open(dir string, opts ...Option) (*LookupStore, error) {
	s := &LookupStore{
		cache: make(map[string][]byte),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	if dir == "" {
		return s, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "lookups.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLookups)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

// Key derives the cache key for a title/author query
func Key(title, author string) string {
	normalized := strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(author))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:12])
}

// Persistent reports whether entries are written to disk
func (s *LookupStore) Persistent() bool {
	return s.db != nil
}

func (s *LookupStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetLookup returns a fresh cached entry. Expired entries are dropped.
func (s *LookupStore) GetLookup(key string) (domain.CachedLookup, bool) {
	var entry domain.CachedLookup
	if !s.get(key, &entry) {
		return domain.CachedLookup{}, false
	}
	if s.expired(entry) {
		s.logger.Debug("lookup cache entry expired", "key", key)
		s.Invalidate(key)
		return domain.CachedLookup{}, false
	}
	return entry, true
}

// SaveLookup stores an entry, stamping it when StoredAt is unset
func (s *LookupStore) SaveLookup(key string, entry domain.CachedLookup) error {
	if entry.StoredAt == 0 {
		entry.StoredAt = s.now().Unix()
	}
	return s.set(key, entry)
}

// Invalidate removes one entry
func (s *LookupStore) Invalidate(key string) {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLookups)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// InvalidateAll removes every entry
func (s *LookupStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLookups)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Len returns the number of entries on disk, or in memory when memory-only
func (s *LookupStore) Len() int {
	if s.db == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.cache)
	}
	n := 0
	s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucketLookups); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n
}

func (s *LookupStore) expired(entry domain.CachedLookup) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(time.Unix(entry.StoredAt, 0)) > s.ttl
}

func (s *LookupStore) get(key string, dest any) bool {
	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLookups)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *LookupStore) set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLookups).Put([]byte(key), data)
	})
}
