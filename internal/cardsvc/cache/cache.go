package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Tag is an invalidation scope. Read sites attach tags to cached
// entries and write sites evict by the same tags; the constructors
// below are the only way to build one, so the two sides cannot drift.
type Tag struct {
	name string
}

func (t Tag) String() string { return t.name }

// CollectionTag covers every list-all response.
func CollectionTag() Tag {
	return Tag{name: "cards"}
}

// CardTag covers the single-card response for one id.
func CardTag(id int) Tag {
	return Tag{name: "card:" + strconv.Itoa(id)}
}

// Entry is one cached response.
type Entry struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// TagStore stores response entries under tag scopes. Implementations
// must make EvictTags atomic with respect to concurrent reads.
type TagStore interface {
	// Get returns (nil, nil) on a miss.
	Get(ctx context.Context, key string) (*Entry, error)
	// Set stores the entry under key with the given tags. A zero ttl
	// means the entry lives until a tag eviction removes it.
	Set(ctx context.Context, key string, entry *Entry, tags []Tag, ttl time.Duration) error
	EvictTags(ctx context.Context, tags ...Tag) error
}

type memoryEntry struct {
	entry     *Entry
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is the in-process TagStore backend.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	byTag   map[string]map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: map[string]memoryEntry{},
		byTag:   map[string]map[string]struct{}{},
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	me, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if !me.expiresAt.IsZero() && time.Now().After(me.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}
	return me.entry, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, entry *Entry, tags []Tag, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	me := memoryEntry{entry: entry}
	if ttl > 0 {
		me.expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = me

	for _, tag := range tags {
		keys, ok := s.byTag[tag.name]
		if !ok {
			keys = map[string]struct{}{}
			s.byTag[tag.name] = keys
		}
		keys[key] = struct{}{}
	}

	return nil
}

func (s *MemoryStore) EvictTags(ctx context.Context, tags ...Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tag := range tags {
		for key := range s.byTag[tag.name] {
			delete(s.entries, key)
		}
		delete(s.byTag, tag.name)
	}

	return nil
}
