package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pwalczak/flashdeck/internal/errors"
	"github.com/pwalczak/flashdeck/internal/logger"
	"github.com/pwalczak/flashdeck/internal/models"
	"github.com/pwalczak/flashdeck/internal/repository"
)

// FlashcardService handles flashcard business logic. Every method returns
// failures as *errors.AppError values so handlers can map them to HTTP
// status codes without inspecting driver errors.
type FlashcardService interface {
	GetFlashcard(ctx context.Context, id string) (*models.Flashcard, error)
	ListFlashcards(ctx context.Context, filter models.FlashcardFilter) (*models.FlashcardList, error)
	CreateFlashcard(ctx context.Context, cmd models.CreateFlashcardCommand) (*models.Flashcard, error)
	UpdateFlashcard(ctx context.Context, id string, cmd models.UpdateFlashcardCommand) (*models.Flashcard, error)
	DeleteFlashcard(ctx context.Context, id string) error
}

// Options bounds pagination and names the user records belong to.
type Options struct {
	UserID          string
	DefaultPageSize int
	MaxPageSize     int
}

type flashcardService struct {
	repo repository.FlashcardRepository
	opts Options
}

// NewFlashcardService creates a new FlashcardService
func NewFlashcardService(repo repository.FlashcardRepository, opts Options) FlashcardService {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = 100
	}
	return &flashcardService{repo: repo, opts: opts}
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NewValidationError("Invalid ID format")
	}
	return nil
}

func (s *flashcardService) GetFlashcard(ctx context.Context, id string) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting flashcard: id=%s", id)

	if err := validateID(id); err != nil {
		return nil, err
	}

	card, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("Flashcard not found")
	}
	return card, nil
}

func (s *flashcardService) ListFlashcards(ctx context.Context, filter models.FlashcardFilter) (*models.FlashcardList, error) {
	log := logger.FromContext(ctx)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = s.opts.DefaultPageSize
	}
	if filter.PageSize > s.opts.MaxPageSize {
		filter.PageSize = s.opts.MaxPageSize
	}
	switch filter.Origin {
	case "", models.OriginManual, models.OriginAI, models.OriginAIEdited:
	default:
		return nil, errors.NewValidationError("origin must be one of: manual, ai, ai_edited")
	}
	switch filter.SortBy {
	case "":
		filter.SortBy = "created_at"
	case "created_at", "updated_at":
	default:
		return nil, errors.NewValidationError("sort_by must be created_at or updated_at")
	}
	switch filter.SortOrder {
	case "":
		filter.SortOrder = "desc"
	case "asc", "desc":
	default:
		return nil, errors.NewValidationError("sort_order must be asc or desc")
	}

	log.Debug("listing flashcards: page=%d, page_size=%d", filter.Page, filter.PageSize)

	cards, err := s.repo.List(ctx, s.opts.UserID, filter)
	if err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	total, err := s.repo.Count(ctx, s.opts.UserID, filter)
	if err != nil {
		log.Error("failed to count flashcards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if cards == nil {
		cards = []models.Flashcard{}
	}
	return &models.FlashcardList{
		Data:       cards,
		Pagination: models.NewPagination(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *flashcardService) CreateFlashcard(ctx context.Context, cmd models.CreateFlashcardCommand) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(cmd.Front) == "" {
		return nil, errors.NewValidationError("front must not be empty")
	}
	if strings.TrimSpace(cmd.Back) == "" {
		return nil, errors.NewValidationError("back must not be empty")
	}

	card, err := s.repo.Insert(ctx, models.Flashcard{
		UserID: s.opts.UserID,
		Front:  cmd.Front,
		Back:   cmd.Back,
		Origin: models.OriginManual,
	})
	if err != nil {
		log.Error("failed to create flashcard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("flashcard created: id=%s", card.ID)
	return card, nil
}

func (s *flashcardService) UpdateFlashcard(ctx context.Context, id string, cmd models.UpdateFlashcardCommand) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating flashcard: id=%s", id)

	if err := validateID(id); err != nil {
		return nil, err
	}
	if cmd.Front == nil && cmd.Back == nil {
		return nil, errors.NewValidationError("at least one of front or back must be provided")
	}
	if cmd.Front != nil && strings.TrimSpace(*cmd.Front) == "" {
		return nil, errors.NewValidationError("front must not be empty")
	}
	if cmd.Back != nil && strings.TrimSpace(*cmd.Back) == "" {
		return nil, errors.NewValidationError("back must not be empty")
	}

	card, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		log.Error("failed to update flashcard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("Flashcard not found")
	}
	log.Info("flashcard updated: id=%s", card.ID)
	return card, nil
}

func (s *flashcardService) DeleteFlashcard(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting flashcard: id=%s", id)

	if err := validateID(id); err != nil {
		return err
	}

	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.Error("failed to delete flashcard: %v", err)
		return errors.NewInternalError(err)
	}
	if !found {
		return errors.NewNotFoundError("Flashcard not found")
	}
	log.Info("flashcard deleted: id=%s", id)
	return nil
}
