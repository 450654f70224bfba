package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

var cardColumns = []string{
	"c.id", "c.deck_id", "c.question", "c.answer",
	"c.easiness_factor", "c.interval_days", "c.repetitions", "c.next_review_at",
	"c.created_at", "c.updated_at",
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (models.Card, error) {
	var c models.Card
	var next sql.NullTime
	err := row.Scan(&c.ID, &c.DeckID, &c.Question, &c.Answer,
		&c.EasinessFactor, &c.Interval, &c.Repetitions, &next,
		&c.CreatedAt, &c.UpdatedAt)
	c.NextReviewAt = timePtr(next)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, err
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: id=%s, deck_id=%s", c.ID, c.DeckID)

	ef := c.EasinessFactor
	if ef == 0 {
		ef = 2.5
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO cards (id, deck_id, question, answer, easiness_factor, interval_days, repetitions, next_review_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.ID, c.DeckID, c.Question, c.Answer, ef, c.Interval, c.Repetitions, nullableTime(c.NextReviewAt), utc(c.CreatedAt), utc(c.UpdatedAt))
	if err != nil {
		log.Error("failed to insert card: %v", err)
	}
	return err
}

func (r *cardRepository) Get(ctx context.Context, id string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%s", id)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards c").Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	c, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) filtered(query squirrel.SelectBuilder, f models.CardFilter) squirrel.SelectBuilder {
	query = query.From("cards c").Join("decks d ON d.id = c.deck_id")
	if f.LearnerID != "" {
		query = query.Where(squirrel.Eq{"d.learner_id": f.LearnerID})
	}
	if f.DeckID != "" {
		query = query.Where(squirrel.Eq{"c.deck_id": f.DeckID})
	}
	if f.DueBefore != nil {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"c.next_review_at": nil},
			squirrel.LtOrEq{"c.next_review_at": f.DueBefore.UTC()},
		})
	}
	return query
}

func (r *cardRepository) List(ctx context.Context, f models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: learner_id=%s, deck_id=%s, due=%t, limit=%d, offset=%d",
		f.LearnerID, f.DeckID, f.DueBefore != nil, f.Limit, f.Offset)

	query := r.filtered(sqlBuilder.Select(cardColumns...), f).OrderBy("c.created_at ASC", "c.id ASC")
	// SQLite only accepts OFFSET after LIMIT.
	if f.Limit > 0 {
		query = query.Limit(uint64(f.Limit))
		if f.Offset > 0 {
			query = query.Offset(uint64(f.Offset))
		}
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) Count(ctx context.Context, f models.CardFilter) (int, error) {
	sqlStr, args, err := r.filtered(sqlBuilder.Select("COUNT(*)"), f).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&n); err != nil {
		logger.FromContext(ctx).WithPrefix("card_repo").Error("failed to count cards: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *cardRepository) UpdateContent(ctx context.Context, id, question, answer string, updatedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card content: id=%s", id)

	res, err := r.db.ExecContext(ctx, `
UPDATE cards SET question = ?, answer = ?, updated_at = ? WHERE id = ?
`, question, answer, utc(updatedAt), id)
	if err != nil {
		log.Error("failed to update card: %v", err)
		return err
	}
	return requireAffected(res)
}

func (r *cardRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%s", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete card: %v", err)
		return err
	}
	return requireAffected(res)
}

func (r *cardRepository) LoadCardsForLearner(ctx context.Context, learnerID string) ([]models.Card, error) {
	return r.List(ctx, models.CardFilter{LearnerID: learnerID})
}

func (r *cardRepository) PersistCardUpdate(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card schedule: id=%s, interval=%d, ease=%.2f, reps=%d", c.ID, c.Interval, c.EasinessFactor, c.Repetitions)

	res, err := r.db.ExecContext(ctx, `
UPDATE cards
SET easiness_factor = ?, interval_days = ?, repetitions = ?, next_review_at = ?, updated_at = ?
WHERE id = ?
`, c.EasinessFactor, c.Interval, c.Repetitions, nullableTime(c.NextReviewAt), utc(c.UpdatedAt), c.ID)
	if err != nil {
		log.Error("failed to update card schedule: %v", err)
		return err
	}
	return requireAffected(res)
}
