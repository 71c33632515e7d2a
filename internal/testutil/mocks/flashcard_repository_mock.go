package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/pwalczak/flashdeck/internal/models"
)

// FlashcardRepositoryMock is a testify mock of repository.FlashcardRepository.
type FlashcardRepositoryMock struct {
	mock.Mock
}

func (m *FlashcardRepositoryMock) Get(ctx context.Context, id string) (*models.Flashcard, error) {
	args := m.Called(ctx, id)
	if card := args.Get(0); card != nil {
		return card.(*models.Flashcard), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FlashcardRepositoryMock) List(ctx context.Context, userID string, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	args := m.Called(ctx, userID, filter)
	if cards := args.Get(0); cards != nil {
		return cards.([]models.Flashcard), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FlashcardRepositoryMock) Count(ctx context.Context, userID string, filter models.FlashcardFilter) (int, error) {
	args := m.Called(ctx, userID, filter)
	return args.Int(0), args.Error(1)
}

func (m *FlashcardRepositoryMock) Insert(ctx context.Context, card models.Flashcard) (*models.Flashcard, error) {
	args := m.Called(ctx, card)
	if stored := args.Get(0); stored != nil {
		return stored.(*models.Flashcard), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FlashcardRepositoryMock) Update(ctx context.Context, id string, cmd models.UpdateFlashcardCommand) (*models.Flashcard, error) {
	args := m.Called(ctx, id, cmd)
	if card := args.Get(0); card != nil {
		return card.(*models.Flashcard), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FlashcardRepositoryMock) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
