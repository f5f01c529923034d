package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateCardCommand carries the fields needed to create a new card.
type CreateCardCommand struct {
	Title   string  `json:"Title"`
	Content string  `json:"Content"`
	List    *string `json:"List"`
}

func (c CreateCardCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&c.Content, validation.Required, validation.Length(1, 10_000)),
		validation.Field(&c.List, validation.Length(0, 10_000)),
	)
}

// CreateCard builds a card based on the current command.
func (c CreateCardCommand) CreateCard() *Card {
	return NewCard(c.Title, c.Content, c.List)
}

// UpdateCardCommand carries a partial update: nil fields are left
// unchanged on the target card.
type UpdateCardCommand struct {
	Title   *string `json:"Title"`
	Content *string `json:"Content"`
	List    *string `json:"List"`
}

func (c UpdateCardCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.NilOrNotEmpty, validation.Length(3, 100)),
		validation.Field(&c.Content, validation.NilOrNotEmpty, validation.Length(3, 10_000)),
		validation.Field(&c.List, validation.Length(0, 10_000)),
	)
}

// ApplyTo overwrites only the non-nil fields of the command on card.
func (c UpdateCardCommand) ApplyTo(card *Card) *Card {
	if c.Title != nil {
		card.Title = *c.Title
	}
	if c.Content != nil {
		card.Content = *c.Content
	}
	if c.List != nil {
		card.List = c.List
	}
	return card
}
