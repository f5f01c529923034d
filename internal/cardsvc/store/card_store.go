package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/desafiobackend/card-services/internal/cardsvc/models"
)

// CardStore is the persistence boundary for cards. Reads resolve
// immediately; mutations are staged through a Unit and only hit the
// database when Save commits them.
type CardStore interface {
	// GetByID returns (nil, nil) when the card does not exist.
	GetByID(ctx context.Context, id int) (*models.Card, error)
	List(ctx context.Context) ([]models.Card, error)
	NewUnit() Unit
}

// Unit collects staged mutations for one request and commits them
// atomically. Save reports the total number of affected rows.
type Unit interface {
	Add(card *models.Card)
	Update(card *models.Card)
	Remove(card *models.Card)
	Save(ctx context.Context) (int64, error)
}

type PostgresCardStore struct {
	db *pgxpool.Pool
}

func NewCardStore(db *pgxpool.Pool) *PostgresCardStore {
	return &PostgresCardStore{db: db}
}

func (s *PostgresCardStore) GetByID(ctx context.Context, id int) (*models.Card, error) {
	query := `
		SELECT id, title, content, list
		FROM cards
		WHERE id = $1
		LIMIT 1
	`

	var card models.Card
	err := s.db.QueryRow(ctx, query, id).Scan(
		&card.Id,
		&card.Title,
		&card.Content,
		&card.List,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get card by id: %w", err)
	}

	return &card, nil
}

func (s *PostgresCardStore) List(ctx context.Context) ([]models.Card, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, content, list
		FROM cards
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(&card.Id, &card.Title, &card.Content, &card.List); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cards: %w", err)
	}

	return cards, nil
}

func (s *PostgresCardStore) NewUnit() Unit {
	return &pgxUnit{db: s.db}
}

type opKind int

const (
	opAdd opKind = iota
	opUpdate
	opRemove
)

type stagedOp struct {
	kind opKind
	card *models.Card
}

type pgxUnit struct {
	db     *pgxpool.Pool
	staged []stagedOp
}

func (u *pgxUnit) Add(card *models.Card)    { u.staged = append(u.staged, stagedOp{opAdd, card}) }
func (u *pgxUnit) Update(card *models.Card) { u.staged = append(u.staged, stagedOp{opUpdate, card}) }
func (u *pgxUnit) Remove(card *models.Card) { u.staged = append(u.staged, stagedOp{opRemove, card}) }

// Save runs every staged op in one transaction. Inserts write the
// assigned id back into the card.
func (u *pgxUnit) Save(ctx context.Context) (int64, error) {
	if len(u.staged) == 0 {
		return 0, nil
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var affected int64
	for _, op := range u.staged {
		switch op.kind {
		case opAdd:
			err := tx.QueryRow(ctx, `
				INSERT INTO cards (title, content, list)
				VALUES ($1, $2, $3)
				RETURNING id
			`, op.card.Title, op.card.Content, op.card.List).Scan(&op.card.Id)
			if err != nil {
				return 0, fmt.Errorf("failed to insert card: %w", err)
			}
			affected++
		case opUpdate:
			tag, err := tx.Exec(ctx, `
				UPDATE cards
				SET title = $1, content = $2, list = $3
				WHERE id = $4
			`, op.card.Title, op.card.Content, op.card.List, op.card.Id)
			if err != nil {
				return 0, fmt.Errorf("failed to update card: %w", err)
			}
			affected += tag.RowsAffected()
		case opRemove:
			tag, err := tx.Exec(ctx, `
				DELETE FROM cards
				WHERE id = $1
			`, op.card.Id)
			if err != nil {
				return 0, fmt.Errorf("failed to delete card: %w", err)
			}
			affected += tag.RowsAffected()
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit changes: %w", err)
	}

	u.staged = nil
	return affected, nil
}
