package cache

import (
	"context"
	"testing"
	"time"
)

func TestTagConstructors(t *testing.T) {
	t.Parallel()

	// write sites and read sites must agree on the same tag values
	if CollectionTag() != CollectionTag() {
		t.Error("CollectionTag is not stable")
	}
	if CardTag(5) != CardTag(5) {
		t.Error("CardTag is not stable for the same id")
	}
	if CardTag(5) == CardTag(6) {
		t.Error("CardTag must differ per id")
	}
	if CollectionTag() == CardTag(5) {
		t.Error("collection and per-card tags must not collide")
	}
}

func TestMemoryStoreSetGet(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	entry := &Entry{Status: 200, ContentType: "application/json", Body: []byte(`{"Id":5}`)}
	if err := s.Set(ctx, "/cards/5", entry, []Tag{CardTag(5)}, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, err := s.Get(ctx, "/cards/5")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got == nil {
		t.Fatal("expected cache hit")
	}
	if got.Status != 200 || string(got.Body) != `{"Id":5}` {
		t.Errorf("unexpected entry: %+v", got)
	}

	miss, err := s.Get(ctx, "/cards/6")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if miss != nil {
		t.Errorf("expected miss, got %+v", miss)
	}
}

func TestMemoryStoreEvictTagsScoping(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	list := &Entry{Status: 200, Body: []byte(`[]`)}
	card5 := &Entry{Status: 200, Body: []byte(`{"Id":5}`)}
	card6 := &Entry{Status: 200, Body: []byte(`{"Id":6}`)}

	s.Set(ctx, "/cards", list, []Tag{CollectionTag()}, 0)
	s.Set(ctx, "/cards/5", card5, []Tag{CardTag(5)}, 0)
	s.Set(ctx, "/cards/6", card6, []Tag{CardTag(6)}, 0)

	// update of card 5: collection and card 5 go, card 6 stays
	if err := s.EvictTags(ctx, CollectionTag(), CardTag(5)); err != nil {
		t.Fatalf("EvictTags error: %v", err)
	}

	if got, _ := s.Get(ctx, "/cards"); got != nil {
		t.Error("collection entry survived eviction")
	}
	if got, _ := s.Get(ctx, "/cards/5"); got != nil {
		t.Error("card 5 entry survived eviction")
	}
	if got, _ := s.Get(ctx, "/cards/6"); got == nil {
		t.Error("card 6 entry was evicted by an unrelated write")
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	entry := &Entry{Status: 200, Body: []byte(`{"Id":5}`)}
	if err := s.Set(ctx, "/cards/5", entry, []Tag{CardTag(5)}, time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	got, err := s.Get(ctx, "/cards/5")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != nil {
		t.Error("entry survived past its ttl")
	}
}

func TestMemoryStoreEvictUnknownTag(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	if err := s.EvictTags(context.Background(), CardTag(99)); err != nil {
		t.Fatalf("EvictTags error: %v", err)
	}
}
