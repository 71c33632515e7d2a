package repository

import (
	"context"

	"github.com/pwalczak/flashdeck/internal/models"
)

// FlashcardRepository handles flashcard data access. Lookups return
// (nil, nil) when no row matches so callers can branch on absence without
// inspecting driver errors.
type FlashcardRepository interface {
	Get(ctx context.Context, id string) (*models.Flashcard, error)
	List(ctx context.Context, userID string, filter models.FlashcardFilter) ([]models.Flashcard, error)
	Count(ctx context.Context, userID string, filter models.FlashcardFilter) (int, error)
	Insert(ctx context.Context, card models.Flashcard) (*models.Flashcard, error)
	Update(ctx context.Context, id string, cmd models.UpdateFlashcardCommand) (*models.Flashcard, error)
	Delete(ctx context.Context, id string) (bool, error)
}
