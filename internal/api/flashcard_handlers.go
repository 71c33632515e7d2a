package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pwalczak/flashdeck/internal/errors"
	"github.com/pwalczak/flashdeck/internal/logger"
	"github.com/pwalczak/flashdeck/internal/models"
)

func (s *Server) handleListFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	q := r.URL.Query()
	filter := models.FlashcardFilter{
		Origin:    q.Get("origin"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if v := q.Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			handleError(w, r, errors.NewValidationError("page must be a positive integer"))
			return
		}
		filter.Page = p
	}
	if v := q.Get("pageSize"); v != "" {
		ps, err := strconv.Atoi(v)
		if err != nil || ps < 1 {
			handleError(w, r, errors.NewValidationError("pageSize must be a positive integer"))
			return
		}
		filter.PageSize = ps
	}

	log = log.WithFields(map[string]any{
		"page":      filter.Page,
		"page_size": filter.PageSize,
		"origin":    filter.Origin,
	})
	log.Debug("listing flashcards")

	list, err := s.FlashcardService.ListFlashcards(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, list)
}

func (s *Server) handleGetFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := chi.URLParam(r, "id")
	log.Debug("fetching flashcard: id=%s", id)

	card, err := s.FlashcardService.GetFlashcard(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleCreateFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var cmd models.CreateFlashcardCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		log.Warn("invalid create body: %v", err)
		handleError(w, r, errors.NewBadRequestError("Invalid request body"))
		return
	}

	card, err := s.FlashcardService.CreateFlashcard(r.Context(), cmd)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("flashcard created: id=%s", card.ID)
	respondJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleUpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	var cmd models.UpdateFlashcardCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		log.Warn("invalid update body: %v", err)
		handleError(w, r, errors.NewBadRequestError("Invalid request body"))
		return
	}

	card, err := s.FlashcardService.UpdateFlashcard(r.Context(), id, cmd)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("flashcard updated: id=%s", card.ID)
	respondJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleDeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.FlashcardService.DeleteFlashcard(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("flashcard deleted: id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}
