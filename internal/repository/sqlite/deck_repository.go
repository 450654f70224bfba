package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func scanDeck(row rowScanner) (models.Deck, error) {
	var d models.Deck
	err := row.Scan(&d.ID, &d.LearnerID, &d.Name, &d.Description, &d.CardCount, &d.CreatedAt, &d.UpdatedAt)
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	return d, err
}

// selectDecks selects deck rows together with the number of cards in each.
func selectDecks() squirrel.SelectBuilder {
	return sqlBuilder.
		Select("d.id", "d.learner_id", "d.name", "d.description", "COUNT(c.id) AS card_count", "d.created_at", "d.updated_at").
		From("decks d").
		LeftJoin("cards c ON c.deck_id = d.id").
		GroupBy("d.id")
}

func deckOrder(sort models.DeckSort) []string {
	switch sort {
	case models.DeckSortAlphabetical:
		return []string{"d.name COLLATE NOCASE", "d.id"}
	case models.DeckSortCardCount:
		return []string{"card_count DESC", "d.name COLLATE NOCASE", "d.id"}
	default:
		return []string{"d.updated_at DESC", "d.id"}
	}
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: id=%s, learner_id=%s", d.ID, d.LearnerID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO decks (id, learner_id, name, description, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, d.ID, d.LearnerID, d.Name, d.Description, utc(d.CreatedAt), utc(d.UpdatedAt))
	if err != nil {
		log.Error("failed to insert deck: %v", err)
	}
	return err
}

func (r *deckRepository) Get(ctx context.Context, id string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")

	query, args, err := selectDecks().Where(squirrel.Eq{"d.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	d, err := scanDeck(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) List(ctx context.Context, f models.DeckFilter) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: learner_id=%s, name=%q, sort=%s", f.LearnerID, f.Name, f.Sort)

	query := selectDecks()
	if f.LearnerID != "" {
		query = query.Where(squirrel.Eq{"d.learner_id": f.LearnerID})
	}
	if f.Name != "" {
		query = query.Where(`d.name LIKE ? ESCAPE '\'`, containsPattern(f.Name))
	}

	sqlStr, args, err := query.OrderBy(deckOrder(f.Sort)...).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	decks := []models.Deck{}
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

func (r *deckRepository) CountForLearner(ctx context.Context, learnerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks WHERE learner_id = ?`, learnerID).Scan(&n)
	return n, err
}

func (r *deckRepository) Update(ctx context.Context, d models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck: id=%s", d.ID)

	res, err := r.db.ExecContext(ctx, `
UPDATE decks SET name = ?, description = ?, updated_at = ? WHERE id = ?
`, d.Name, d.Description, utc(d.UpdatedAt), d.ID)
	if err != nil {
		log.Error("failed to update deck: %v", err)
		return err
	}
	return requireAffected(res)
}

func (r *deckRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%s", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
		return err
	}
	return requireAffected(res)
}
