// Package cache is the query cache between handlers and services. Reads
// are keyed by (entity, operation, filter parameters) and considered
// fresh for a fixed interval; writes invalidate the whole list key-space
// for their entity plus the one affected detail key. Filtered views are
// not invalidated selectively: one property update drops every property
// list key.
package cache

import (
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const keySeparator = ":"

// Store is a TTL query cache. List and detail entries carry separate
// freshness intervals.
type Store struct {
	c         *gocache.Cache
	listTTL   time.Duration
	detailTTL time.Duration
}

// New creates a store with the given freshness intervals.
func New(listTTL, detailTTL time.Duration) *Store {
	cleanup := listTTL
	if detailTTL > cleanup {
		cleanup = detailTTL
	}
	return &Store{
		c:         gocache.New(listTTL, 2*cleanup),
		listTTL:   listTTL,
		detailTTL: detailTTL,
	}
}

// ListKey builds the cache key for a list read: entity, operation, and
// the filter parameters that shape the result. Each part is escaped so a
// value containing the separator cannot collide with a different
// parameter split.
func ListKey(entity, op string, params ...string) string {
	return joinKey(append([]string{entity, "list", op}, params...))
}

// DetailKey builds the cache key for a single-record read.
func DetailKey(entity, id string) string {
	return joinKey([]string{entity, "detail", id})
}

func joinKey(parts []string) string {
	escaped := make([]string, len(parts))
	for i, part := range parts {
		escaped[i] = url.QueryEscape(part)
	}
	return strings.Join(escaped, keySeparator)
}

// Get returns the cached value for the key when it is still fresh.
func (s *Store) Get(key string) (interface{}, bool) {
	return s.c.Get(key)
}

// SetList caches a list result with the list freshness interval.
func (s *Store) SetList(key string, value interface{}) {
	s.c.Set(key, value, s.listTTL)
}

// SetDetail caches a single-record result with the detail interval.
func (s *Store) SetDetail(key string, value interface{}) {
	s.c.Set(key, value, s.detailTTL)
}

// InvalidateEntity drops every list key for the entity. Called after any
// write to the entity's collection.
func (s *Store) InvalidateEntity(entity string) {
	prefix := url.QueryEscape(entity) + keySeparator + "list" + keySeparator
	for key := range s.c.Items() {
		if strings.HasPrefix(key, prefix) {
			s.c.Delete(key)
		}
	}
}

// InvalidateDetail drops the detail key for one record.
func (s *Store) InvalidateDetail(entity, id string) {
	s.c.Delete(DetailKey(entity, id))
}

// InvalidateWrite performs the standard post-write invalidation: the
// entity's list key-space plus the affected record's detail key.
func (s *Store) InvalidateWrite(entity, id string) {
	s.InvalidateEntity(entity)
	s.InvalidateDetail(entity, id)
}

// Flush drops everything. Used by tests and the admin reindex path.
func (s *Store) Flush() {
	s.c.Flush()
}
