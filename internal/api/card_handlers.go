package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/services"
)

type cardRequest struct {
	Question string `json:"question" validate:"required,max=4000"`
	Answer   string `json:"answer" validate:"required,max=4000"`
}

type cardListResponse struct {
	Cards  []models.Card `json:"cards"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	due, err := boolQuery(r, "due")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := intQuery(r, "offset")
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, total, err := s.CardService.ListCards(r.Context(), chi.URLParam(r, "deckID"), services.CardListOptions{
		DueOnly: due,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cardListResponse{Cards: cards, Total: total, Limit: limit, Offset: offset})
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.CardService.CreateCard(r.Context(), chi.URLParam(r, "deckID"), req.Question, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.CardService.GetCard(r.Context(), chi.URLParam(r, "cardID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.CardService.UpdateCard(r.Context(), chi.URLParam(r, "cardID"), req.Question, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.CardService.DeleteCard(r.Context(), chi.URLParam(r, "cardID")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCardHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}
	entries, err := s.CardService.History(r.Context(), chi.URLParam(r, "cardID"), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, entries)
}
