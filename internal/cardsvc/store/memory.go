package store

import (
	"context"
	"sort"
	"sync"

	"github.com/desafiobackend/card-services/internal/cardsvc/models"
)

// MemoryCardStore keeps cards in a map guarded by a mutex. Used in
// tests and for local development via STORE_DRIVER=memory. Semantics
// mirror the postgres store: ids are assigned at commit time starting
// from 1, and removing an already-gone row counts zero affected rows.
type MemoryCardStore struct {
	mu    sync.Mutex
	seq   int
	cards map[int]models.Card
}

func NewMemoryCardStore() *MemoryCardStore {
	return &MemoryCardStore{cards: map[int]models.Card{}}
}

func (s *MemoryCardStore) GetByID(ctx context.Context, id int) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, nil
	}
	return &card, nil
}

func (s *MemoryCardStore) List(ctx context.Context) ([]models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := make([]models.Card, 0, len(s.cards))
	for _, card := range s.cards {
		cards = append(cards, card)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Id < cards[j].Id })

	return cards, nil
}

func (s *MemoryCardStore) NewUnit() Unit {
	return &memoryUnit{store: s}
}

type memoryUnit struct {
	store  *MemoryCardStore
	staged []stagedOp
}

func (u *memoryUnit) Add(card *models.Card)    { u.staged = append(u.staged, stagedOp{opAdd, card}) }
func (u *memoryUnit) Update(card *models.Card) { u.staged = append(u.staged, stagedOp{opUpdate, card}) }
func (u *memoryUnit) Remove(card *models.Card) { u.staged = append(u.staged, stagedOp{opRemove, card}) }

func (u *memoryUnit) Save(ctx context.Context) (int64, error) {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	var affected int64
	for _, op := range u.staged {
		switch op.kind {
		case opAdd:
			u.store.seq++
			op.card.Id = u.store.seq
			u.store.cards[op.card.Id] = *op.card
			affected++
		case opUpdate:
			if _, ok := u.store.cards[op.card.Id]; ok {
				u.store.cards[op.card.Id] = *op.card
				affected++
			}
		case opRemove:
			if _, ok := u.store.cards[op.card.Id]; ok {
				delete(u.store.cards, op.card.Id)
				affected++
			}
		}
	}

	u.staged = nil
	return affected, nil
}
