package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	apperrors "github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// LearnerService handles learner-related business logic
type LearnerService interface {
	ListLearners(ctx context.Context) ([]models.Learner, error)
	CreateLearner(ctx context.Context, name, email string) (*models.Learner, error)
	GetLearner(ctx context.Context, id string) (*models.Learner, error)
	UpdateLearner(ctx context.Context, id, name, email string) (*models.Learner, error)
	DeleteLearner(ctx context.Context, id string) error
}

type learnerService struct {
	learnerRepo repository.LearnerRepository
	now         func() time.Time
}

var fieldValidator = validator.New()

// NewLearnerService creates a new LearnerService
func NewLearnerService(learnerRepo repository.LearnerRepository) LearnerService {
	return &learnerService{learnerRepo: learnerRepo, now: time.Now}
}

// validateProfile checks the trimmed name and email of a learner. Email is optional.
func validateProfile(name, email string) error {
	if name == "" {
		return apperrors.NewValidationError("name", "cannot be empty")
	}
	if email != "" && fieldValidator.Var(email, "email") != nil {
		return apperrors.NewValidationError("email", "must be a valid email address")
	}
	return nil
}

func (s *learnerService) ListLearners(ctx context.Context) ([]models.Learner, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing learners")

	learners, err := s.learnerRepo.List(ctx)
	if err != nil {
		log.Error("failed to list learners: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return learners, nil
}

func (s *learnerService) CreateLearner(ctx context.Context, name, email string) (*models.Learner, error) {
	log := logger.FromContext(ctx)
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	log.Debug("creating learner: name=%s", name)

	if err := validateProfile(name, email); err != nil {
		return nil, err
	}

	learner := models.Learner{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		CreatedAt: s.now().UTC(),
	}
	if err := s.learnerRepo.Insert(ctx, learner); err != nil {
		log.Error("failed to create learner: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return &learner, nil
}

func (s *learnerService) GetLearner(ctx context.Context, id string) (*models.Learner, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting learner: id=%s", id)

	learner, err := s.learnerRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get learner: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	if learner == nil {
		return nil, apperrors.NewNotFoundError("learner", id)
	}
	return learner, nil
}

func (s *learnerService) UpdateLearner(ctx context.Context, id, name, email string) (*models.Learner, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating learner: id=%s", id)

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validateProfile(name, email); err != nil {
		return nil, err
	}

	learner, err := s.GetLearner(ctx, id)
	if err != nil {
		return nil, err
	}
	learner.Name = name
	learner.Email = email

	if err := s.learnerRepo.Update(ctx, *learner); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("learner", id)
		}
		log.Error("failed to update learner: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return learner, nil
}

func (s *learnerService) DeleteLearner(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting learner: id=%s", id)

	if err := s.learnerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFoundError("learner", id)
		}
		log.Error("failed to delete learner: %v", err)
		return apperrors.NewInternalError(err)
	}
	return nil
}
