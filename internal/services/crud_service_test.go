package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
)

func TestLearnerService_Create(t *testing.T) {
	repo := new(mocks.MockLearnerRepository)
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(l models.Learner) bool {
		return l.Name == "Ana" && l.Email == "ana@example.com" && !l.CreatedAt.IsZero()
	})).Return(nil)
	svc := services.NewLearnerService(repo)

	learner, err := svc.CreateLearner(context.Background(), "  Ana ", " ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", learner.Name)
	assert.Equal(t, "ana@example.com", learner.Email)
	assert.Equal(t, time.UTC, learner.CreatedAt.Location())
	_, err = uuid.Parse(learner.ID)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestLearnerService_CreateValidation(t *testing.T) {
	svc := services.NewLearnerService(new(mocks.MockLearnerRepository))

	_, err := svc.CreateLearner(context.Background(), "   ", "")
	requireCode(t, err, apperrors.ErrCodeValidation)
	_, err = svc.CreateLearner(context.Background(), "Ana", "not-an-email")
	requireCode(t, err, apperrors.ErrCodeValidation)
}

func TestLearnerService_Update(t *testing.T) {
	repo := new(mocks.MockLearnerRepository)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.On("Get", mock.Anything, "alice").Return(&models.Learner{ID: "alice", Name: "Alice", CreatedAt: created}, nil)
	repo.On("Update", mock.Anything, models.Learner{ID: "alice", Name: "Alice B", Email: "alice@example.com", CreatedAt: created}).Return(nil)
	svc := services.NewLearnerService(repo)

	learner, err := svc.UpdateLearner(context.Background(), "alice", " Alice B ", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", learner.Name)
	assert.Equal(t, "alice@example.com", learner.Email)
	assert.Equal(t, created, learner.CreatedAt)
	repo.AssertExpectations(t)
}

func TestLearnerService_UpdateErrors(t *testing.T) {
	repo := new(mocks.MockLearnerRepository)
	repo.On("Get", mock.Anything, "ghost").Return(nil, nil)
	svc := services.NewLearnerService(repo)

	_, err := svc.UpdateLearner(context.Background(), "ghost", "Ghost", "")
	requireCode(t, err, apperrors.ErrCodeNotFound)

	_, err = svc.UpdateLearner(context.Background(), "alice", "", "")
	requireCode(t, err, apperrors.ErrCodeValidation)
	_, err = svc.UpdateLearner(context.Background(), "alice", "Alice", "alice@")
	requireCode(t, err, apperrors.ErrCodeValidation)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLearnerService_GetAndDeleteMissing(t *testing.T) {
	repo := new(mocks.MockLearnerRepository)
	repo.On("Get", mock.Anything, "ghost").Return(nil, nil)
	repo.On("Delete", mock.Anything, "ghost").Return(repository.ErrNotFound)
	svc := services.NewLearnerService(repo)

	_, err := svc.GetLearner(context.Background(), "ghost")
	requireCode(t, err, apperrors.ErrCodeNotFound)
	requireCode(t, svc.DeleteLearner(context.Background(), "ghost"), apperrors.ErrCodeNotFound)
}

func TestDeckService_CreateRequiresLearner(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	learners := new(mocks.MockLearnerRepository)
	learners.On("Get", mock.Anything, "ghost").Return(nil, nil)
	svc := services.NewDeckService(decks, learners)

	_, err := svc.CreateDeck(context.Background(), "ghost", "Capitals", "")
	requireCode(t, err, apperrors.ErrCodeNotFound)
	decks.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestDeckService_CreateAndUpdate(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	learners := new(mocks.MockLearnerRepository)
	learners.On("Get", mock.Anything, "alice").Return(&models.Learner{ID: "alice"}, nil)
	decks.On("Insert", mock.Anything, mock.MatchedBy(func(d models.Deck) bool {
		return !d.CreatedAt.IsZero() && d.CreatedAt.Equal(d.UpdatedAt)
	})).Return(nil)
	svc := services.NewDeckService(decks, learners)

	deck, err := svc.CreateDeck(context.Background(), "alice", "Capitals", " Europe ")
	require.NoError(t, err)
	assert.Equal(t, "alice", deck.LearnerID)
	assert.Equal(t, "Europe", deck.Description)

	decks.On("Get", mock.Anything, deck.ID).Return(deck, nil)
	decks.On("Update", mock.Anything, mock.MatchedBy(func(d models.Deck) bool { return d.Name == "World" })).Return(nil)

	updated, err := svc.UpdateDeck(context.Background(), deck.ID, "World", "")
	require.NoError(t, err)
	assert.Equal(t, "World", updated.Name)
	decks.AssertExpectations(t)
}

func TestDeckService_List(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	learners := new(mocks.MockLearnerRepository)
	learners.On("Get", mock.Anything, "alice").Return(&models.Learner{ID: "alice"}, nil)
	decks.On("List", mock.Anything, models.DeckFilter{LearnerID: "alice", Sort: models.DeckSortRecent}).
		Return([]models.Deck{{ID: "d1", CardCount: 4}}, nil).Once()
	decks.On("List", mock.Anything, models.DeckFilter{LearnerID: "alice", Name: "span", Sort: models.DeckSortCardCount}).
		Return([]models.Deck{}, nil).Once()
	svc := services.NewDeckService(decks, learners)

	list, err := svc.ListDecks(context.Background(), "alice", services.DeckListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 4, list[0].CardCount)

	list, err = svc.ListDecks(context.Background(), "alice", services.DeckListOptions{Query: " span ", Sort: models.DeckSortCardCount})
	require.NoError(t, err)
	assert.Empty(t, list)
	decks.AssertExpectations(t)
}

func TestDeckService_ListRejectsUnknownSort(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(decks, new(mocks.MockLearnerRepository))

	_, err := svc.ListDecks(context.Background(), "alice", services.DeckListOptions{Sort: "popular"})
	requireCode(t, err, apperrors.ErrCodeValidation)
	decks.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestCardService_CreateStartsUnscheduled(t *testing.T) {
	cards := new(mocks.MockCardRepository)
	decks := new(mocks.MockDeckRepository)
	decks.On("Get", mock.Anything, "d1").Return(&models.Deck{ID: "d1"}, nil)
	cards.On("Insert", mock.Anything, mock.Anything).Return(nil)
	svc := services.NewCardService(cards, decks, new(mocks.MockReviewHistoryRepository))

	card, err := svc.CreateCard(context.Background(), "d1", "capital of France?", "Paris")
	require.NoError(t, err)
	assert.Equal(t, flashcard.DefaultEasinessFactor, card.EasinessFactor)
	assert.Equal(t, 0, card.Interval)
	assert.Equal(t, 0, card.Repetitions)
	assert.Nil(t, card.NextReviewAt)
	assert.True(t, flashcard.IsDue(*card, time.Now()))
}

func TestCardService_CreateValidation(t *testing.T) {
	svc := services.NewCardService(new(mocks.MockCardRepository), new(mocks.MockDeckRepository), new(mocks.MockReviewHistoryRepository))

	_, err := svc.CreateCard(context.Background(), "d1", "", "Paris")
	requireCode(t, err, apperrors.ErrCodeValidation)
	_, err = svc.CreateCard(context.Background(), "d1", "q", " ")
	requireCode(t, err, apperrors.ErrCodeValidation)
}

func TestCardService_ListDueOnly(t *testing.T) {
	cards := new(mocks.MockCardRepository)
	decks := new(mocks.MockDeckRepository)
	decks.On("Get", mock.Anything, "d1").Return(&models.Deck{ID: "d1"}, nil)
	isDueFilter := mock.MatchedBy(func(f models.CardFilter) bool {
		return f.DeckID == "d1" && f.DueBefore != nil && f.Limit == 10 && f.Offset == 5
	})
	cards.On("List", mock.Anything, isDueFilter).Return([]models.Card{{ID: "c1"}}, nil)
	cards.On("Count", mock.Anything, isDueFilter).Return(6, nil)
	svc := services.NewCardService(cards, decks, new(mocks.MockReviewHistoryRepository))

	list, total, err := svc.ListCards(context.Background(), "d1", services.CardListOptions{DueOnly: true, Limit: 10, Offset: 5})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 6, total)
	cards.AssertExpectations(t)
}

func TestCardService_ListDefaultsAndBounds(t *testing.T) {
	cards := new(mocks.MockCardRepository)
	decks := new(mocks.MockDeckRepository)
	decks.On("Get", mock.Anything, "d1").Return(&models.Deck{ID: "d1"}, nil)
	cards.On("List", mock.Anything, mock.MatchedBy(func(f models.CardFilter) bool { return f.Limit == 50 && f.DueBefore == nil })).Return([]models.Card{}, nil)
	cards.On("Count", mock.Anything, mock.Anything).Return(0, nil)
	svc := services.NewCardService(cards, decks, new(mocks.MockReviewHistoryRepository))

	_, _, err := svc.ListCards(context.Background(), "d1", services.CardListOptions{})
	require.NoError(t, err)

	_, _, err = svc.ListCards(context.Background(), "d1", services.CardListOptions{Offset: -1})
	requireCode(t, err, apperrors.ErrCodeValidation)
}

func TestCardService_UpdateMissing(t *testing.T) {
	cards := new(mocks.MockCardRepository)
	cards.On("UpdateContent", mock.Anything, "ghost", "q", "a", mock.Anything).Return(repository.ErrNotFound)
	svc := services.NewCardService(cards, new(mocks.MockDeckRepository), new(mocks.MockReviewHistoryRepository))

	_, err := svc.UpdateCard(context.Background(), "ghost", "q", "a")
	requireCode(t, err, apperrors.ErrCodeNotFound)
}

func TestCardService_History(t *testing.T) {
	cards := new(mocks.MockCardRepository)
	history := new(mocks.MockReviewHistoryRepository)
	cards.On("Get", mock.Anything, "c1").Return(&models.Card{ID: "c1"}, nil)
	history.On("ListForCard", mock.Anything, "c1", 50).Return([]models.ReviewHistory{{ID: 1, CardID: "c1"}}, nil)
	svc := services.NewCardService(cards, new(mocks.MockDeckRepository), history)

	entries, err := svc.History(context.Background(), "c1", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
