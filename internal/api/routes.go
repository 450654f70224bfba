package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashdeck/internal/errors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(timeoutMiddleware(s.RequestTimeout))

		r.Route("/review", func(r chi.Router) {
			r.Post("/due", s.handleReviewDue)
			r.Post("/reveal", s.handleReviewReveal)
			r.Post("/answer", s.handleReviewAnswer)
			r.Post("/reset", s.handleReviewReset)
		})

		r.Route("/learners", func(r chi.Router) {
			r.Get("/", s.handleListLearners)
			r.Post("/", s.handleCreateLearner)
			r.Route("/{learnerID}", func(r chi.Router) {
				r.Get("/", s.handleGetLearner)
				r.Put("/", s.handleUpdateLearner)
				r.Delete("/", s.handleDeleteLearner)
				r.Get("/stats", s.handleLearnerStats)
				r.Get("/session", s.handleReviewSummary)
				r.Get("/decks", s.handleListDecks)
				r.Post("/decks", s.handleCreateDeck)
			})
		})

		r.Route("/decks/{deckID}", func(r chi.Router) {
			r.Get("/", s.handleGetDeck)
			r.Put("/", s.handleUpdateDeck)
			r.Delete("/", s.handleDeleteDeck)
			r.Get("/cards", s.handleListCards)
			r.Post("/cards", s.handleCreateCard)
		})

		r.Route("/cards/{cardID}", func(r chi.Router) {
			r.Get("/", s.handleGetCard)
			r.Put("/", s.handleUpdateCard)
			r.Delete("/", s.handleDeleteCard)
			r.Get("/history", s.handleCardHistory)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, &errors.AppError{Code: errors.ErrCodeBadRequest, Message: "method not allowed", Status: http.StatusMethodNotAllowed})
	})
	return r
}
