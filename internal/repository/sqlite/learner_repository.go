package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type learnerRepository struct {
	db *sql.DB
}

// NewLearnerRepository creates a new LearnerRepository implementation
func NewLearnerRepository(db *sql.DB) repository.LearnerRepository {
	return &learnerRepository{db: db}
}

func scanLearner(row rowScanner) (models.Learner, error) {
	var l models.Learner
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.CreatedAt)
	l.CreatedAt = l.CreatedAt.UTC()
	return l, err
}

func (r *learnerRepository) Insert(ctx context.Context, l models.Learner) error {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("inserting learner: id=%s", l.ID)

	_, err := r.db.ExecContext(ctx, `INSERT INTO learners (id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		l.ID, l.Name, l.Email, utc(l.CreatedAt))
	if err != nil {
		log.Error("failed to insert learner: %v", err)
	}
	return err
}

func (r *learnerRepository) Get(ctx context.Context, id string) (*models.Learner, error) {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")

	l, err := scanLearner(r.db.QueryRowContext(ctx, `SELECT id, name, email, created_at FROM learners WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("learner not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get learner: %v", err)
		return nil, err
	}
	return &l, nil
}

func (r *learnerRepository) List(ctx context.Context) ([]models.Learner, error) {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, created_at FROM learners ORDER BY created_at, id`)
	if err != nil {
		log.Error("failed to list learners: %v", err)
		return nil, err
	}
	defer rows.Close()

	learners := []models.Learner{}
	for rows.Next() {
		l, err := scanLearner(rows)
		if err != nil {
			return nil, err
		}
		learners = append(learners, l)
	}
	return learners, rows.Err()
}

func (r *learnerRepository) Update(ctx context.Context, l models.Learner) error {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("updating learner: id=%s", l.ID)

	res, err := r.db.ExecContext(ctx, `UPDATE learners SET name = ?, email = ? WHERE id = ?`, l.Name, l.Email, l.ID)
	if err != nil {
		log.Error("failed to update learner: %v", err)
		return err
	}
	return requireAffected(res)
}

func (r *learnerRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("deleting learner: id=%s", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM learners WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete learner: %v", err)
		return err
	}
	return requireAffected(res)
}
