package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pwalczak/flashdeck/internal/services"
)

type Server struct {
	FlashcardService services.FlashcardService
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/flashcards", func(r chi.Router) {
		r.Get("/", s.handleListFlashcards)
		r.Post("/", s.handleCreateFlashcard)
		r.Get("/{id}", s.handleGetFlashcard)
		r.Patch("/{id}", s.handleUpdateFlashcard)
		r.Delete("/{id}", s.handleDeleteFlashcard)
	})

	return r
}
