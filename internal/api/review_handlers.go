package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
)

type learnerRequest struct {
	LearnerID string `json:"learner_id" validate:"required,max=128"`
}

type dueRequest struct {
	LearnerID string `json:"learner_id" validate:"required,max=128"`
	Refresh   bool   `json:"refresh"`
}

type answerRequest struct {
	LearnerID string       `json:"learner_id" validate:"required,max=128"`
	CardID    string       `json:"card_id" validate:"max=128"`
	Quality   qualityParam `json:"quality"`
}

type answerResponse struct {
	Card    *models.Card          `json:"card"`
	Session models.SessionSummary `json:"session"`
}

func (s *Server) handleReviewDue(w http.ResponseWriter, r *http.Request) {
	var req dueRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	sum, err := s.ReviewService.Due(r.Context(), req.LearnerID, req.Refresh)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

func (s *Server) handleReviewReveal(w http.ResponseWriter, r *http.Request) {
	var req learnerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	sum, err := s.ReviewService.Reveal(r.Context(), req.LearnerID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

func (s *Server) handleReviewAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if !req.Quality.set {
		handleError(w, r, errors.NewValidationError("quality", "is required"))
		return
	}
	if req.Quality.err != nil {
		handleError(w, r, errors.NewInvalidQualityError(req.Quality.err))
		return
	}

	card, sum, err := s.ReviewService.Answer(r.Context(), req.LearnerID, req.CardID, req.Quality.value)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, answerResponse{Card: card, Session: sum})
}

func (s *Server) handleReviewReset(w http.ResponseWriter, r *http.Request) {
	var req learnerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	sum, err := s.ReviewService.Reset(r.Context(), req.LearnerID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

func (s *Server) handleReviewSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.ReviewService.Summary(r.Context(), chi.URLParam(r, "learnerID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

func (s *Server) handleLearnerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.StatsService.Summary(r.Context(), chi.URLParam(r, "learnerID"), s.now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}
