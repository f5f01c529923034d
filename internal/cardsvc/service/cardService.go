package service

import (
	"context"

	"github.com/desafiobackend/card-services/internal/cardsvc/models"
	"github.com/desafiobackend/card-services/internal/cardsvc/store"
)

// CardService coordinates store operations into the CRUD use cases.
// It holds no state between requests.
type CardService struct {
	store store.CardStore
}

func NewCardService(store store.CardStore) *CardService {
	return &CardService{store: store}
}

func (s *CardService) GetAll(ctx context.Context) ([]models.Card, error) {
	return s.store.List(ctx)
}

// GetByID returns (nil, nil) when the card does not exist; absence is
// a normal outcome here, not an error.
func (s *CardService) GetByID(ctx context.Context, id int) (*models.Card, error) {
	return s.store.GetByID(ctx, id)
}

func (s *CardService) Create(ctx context.Context, cmd models.CreateCardCommand) (*models.Card, error) {
	card := cmd.CreateCard()

	unit := s.store.NewUnit()
	unit.Add(card)
	if _, err := unit.Save(ctx); err != nil {
		return nil, err
	}

	return card, nil
}

// Update applies the command's partial-update semantics to the card.
// Returns (nil, nil) without committing when the id is unknown.
func (s *CardService) Update(ctx context.Context, id int, cmd models.UpdateCardCommand) (*models.Card, error) {
	card, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, nil
	}

	cmd.ApplyTo(card)

	unit := s.store.NewUnit()
	unit.Update(card)
	if _, err := unit.Save(ctx); err != nil {
		return nil, err
	}

	return card, nil
}

// Delete returns false without committing when the id is unknown, and
// true only when the commit reports at least one affected row. A
// concurrent delete landing between lookup and commit yields false.
func (s *CardService) Delete(ctx context.Context, id int) (bool, error) {
	card, err := s.store.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if card == nil {
		return false, nil
	}

	unit := s.store.NewUnit()
	unit.Remove(card)
	affected, err := unit.Save(ctx)
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
