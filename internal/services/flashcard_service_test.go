package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/pwalczak/flashdeck/internal/errors"
	"github.com/pwalczak/flashdeck/internal/models"
	"github.com/pwalczak/flashdeck/internal/services"
	"github.com/pwalczak/flashdeck/internal/testutil/mocks"
)

const (
	testUserID = "00000000-0000-0000-0000-000000000001"
	testCardID = "a1b2c3d4-e5f6-4890-8234-567890abcdef"
)

func newService(repo *mocks.FlashcardRepositoryMock) services.FlashcardService {
	return services.NewFlashcardService(repo, services.Options{
		UserID:          testUserID,
		DefaultPageSize: 20,
		MaxPageSize:     100,
	})
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestGetFlashcard_InvalidID(t *testing.T) {
	repo := new(mocks.FlashcardRepositoryMock)
	svc := newService(repo)

	for _, id := range []string{"invalid-uuid", "", "123", "a1b2c3d4"} {
		_, err := svc.GetFlashcard(context.Background(), id)
		assertAppError(t, err, apperrors.ErrCodeValidation)
		assert.Contains(t, err.Error(), "Invalid ID format")
	}
	repo.AssertNotCalled(t, "Get")
}

func TestGetFlashcard_NotFound(t *testing.T) {
	repo := new(mocks.FlashcardRepositoryMock)
	repo.On("Get", mock.Anything, testCardID).Return(nil, nil)
	svc := newService(repo)

	_, err := svc.GetFlashcard(context.Background(), testCardID)
	assertAppError(t, err, apperrors.ErrCodeNotFound)
	assert.Contains(t, err.Error(), "Flashcard not found")
}

func TestGetFlashcard_RepoError(t *testing.T) {
	repo := new(mocks.FlashcardRepositoryMock)
	repo.On("Get", mock.Anything, testCardID).Return(nil, fmt.Errorf("database error"))
	svc := newService(repo)

	_, err := svc.GetFlashcard(context.Background(), testCardID)
	assertAppError(t, err, apperrors.ErrCodeInternal)
}

func TestGetFlashcard_Success(t *testing.T) {
	card := &models.Flashcard{ID: testCardID, Front: "Q", Back: "A"}
	repo := new(mocks.FlashcardRepositoryMock)
	repo.On("Get", mock.Anything, testCardID).Return(card, nil)
	svc := newService(repo)

	got, err := svc.GetFlashcard(context.Background(), testCardID)
	require.NoError(t, err)
	assert.Equal(t, card, got)
}

func TestListFlashcards_NormalizesBounds(t *testing.T) {
	repo := new(mocks.FlashcardRepositoryMock)
	repo.On("List", mock.Anything, testUserID, mock.MatchedBy(func(f models.FlashcardFilter) bool {
		return f.Page == 1 && f.PageSize == 100
	})).Return([]models.Flashcard{}, nil)
	repo.On("Count", mock.Anything, testUserID, mock.Anything).Return(0, nil)
	svc := newService(repo)

	// Page below 1 snaps to 1, page size above the maximum is clamped.
	list, err := svc.ListFlashcards(context.Background(), models.FlashcardFilter{Page: 0, PageSize: 5000})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Pagination.Page)
	assert.Equal(t, 100, list.Pagination.PageSize)
	repo.AssertExpectations(t)
}

func TestListFlashcards_PaginationMath(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		pageSize   int
		totalPages int
	}{
		{name: "95 over 10", total: 95, pageSize: 10, totalPages: 10},
		{name: "exact multiple", total: 100, pageSize: 10, totalPages: 10},
		{name: "empty set has one page", total: 0, pageSize: 10, totalPages: 1},
		{name: "single item", total: 1, pageSize: 10, totalPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.FlashcardRepositoryMock)
			repo.On("List", mock.Anything, testUserID, mock.Anything).Return([]models.Flashcard{}, nil)
			repo.On("Count", mock.Anything, testUserID, mock.Anything).Return(tt.total, nil)
			svc := newService(repo)

			list, err := svc.ListFlashcards(context.Background(), models.FlashcardFilter{Page: 1, PageSize: tt.pageSize})
			require.NoError(t, err)
			assert.Equal(t, tt.totalPages, list.Pagination.TotalPages)
			assert.Equal(t, tt.total, list.Pagination.Total)
		})
	}
}

func TestListFlashcards_InvalidSort(t *testing.T) {
	repo := new(mocks.FlashcardRepositoryMock)
	svc := newService(repo)

	_, err := svc.ListFlashcards(context.Background(), models.FlashcardFilter{SortBy: "id"})
	assertAppError(t, err, apperrors.ErrCodeValidation)

	_, err = svc.ListFlashcards(context.Background(), models.FlashcardFilter{SortOrder: "sideways"})
	assertAppError(t, err, apperrors.ErrCodeValidation)

	_, err = svc.ListFlashcards(context.Background(), models.FlashcardFilter{Origin: "imported"})
	assertAppError(t, err, apperrors.ErrCodeValidation)
}

func TestCreateFlashcard_Validation(t *testing.T) {
	repo := new(mocks.FlashcardRepositoryMock)
	svc := newService(repo)

	_, err := svc.CreateFlashcard(context.Background(), models.CreateFlashcardCommand{Front: "", Back: "A"})
	assertAppError(t, err, apperrors.ErrCodeValidation)

	_, err = svc.CreateFlashcard(context.Background(), models.CreateFlashcardCommand{Front: "Q", Back: "   "})
	assertAppError(t, err, apperrors.ErrCodeValidation)

	repo.AssertNotCalled(t, "Insert")
}

func TestCreateFlashcard_Success(t *testing.T) {
	repo := new(mocks.FlashcardRepositoryMock)
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(c models.Flashcard) bool {
		return c.UserID == testUserID && c.Front == "Q" && c.Back == "A" && c.Origin == models.OriginManual
	})).Return(&models.Flashcard{ID: testCardID, Front: "Q", Back: "A"}, nil)
	svc := newService(repo)

	card, err := svc.CreateFlashcard(context.Background(), models.CreateFlashcardCommand{Front: "Q", Back: "A"})
	require.NoError(t, err)
	assert.Equal(t, testCardID, card.ID)
	repo.AssertExpectations(t)
}

func TestUpdateFlashcard_Validation(t *testing.T) {
	repo := new(mocks.FlashcardRepositoryMock)
	svc := newService(repo)
	empty := ""
	front := "Q"

	_, err := svc.UpdateFlashcard(context.Background(), "not-a-uuid", models.UpdateFlashcardCommand{Front: &front})
	assertAppError(t, err, apperrors.ErrCodeValidation)

	_, err = svc.UpdateFlashcard(context.Background(), testCardID, models.UpdateFlashcardCommand{})
	assertAppError(t, err, apperrors.ErrCodeValidation)

	_, err = svc.UpdateFlashcard(context.Background(), testCardID, models.UpdateFlashcardCommand{Back: &empty})
	assertAppError(t, err, apperrors.ErrCodeValidation)

	repo.AssertNotCalled(t, "Update")
}

func TestUpdateFlashcard_NotFound(t *testing.T) {
	repo := new(mocks.FlashcardRepositoryMock)
	front := "Q2"
	repo.On("Update", mock.Anything, testCardID, mock.Anything).Return(nil, nil)
	svc := newService(repo)

	_, err := svc.UpdateFlashcard(context.Background(), testCardID, models.UpdateFlashcardCommand{Front: &front})
	assertAppError(t, err, apperrors.ErrCodeNotFound)
}

func TestDeleteFlashcard(t *testing.T) {
	repo := new(mocks.FlashcardRepositoryMock)
	repo.On("Delete", mock.Anything, testCardID).Return(true, nil).Once()
	repo.On("Delete", mock.Anything, testCardID).Return(false, nil).Once()
	svc := newService(repo)

	require.NoError(t, svc.DeleteFlashcard(context.Background(), testCardID))

	err := svc.DeleteFlashcard(context.Background(), testCardID)
	assertAppError(t, err, apperrors.ErrCodeNotFound)

	err = svc.DeleteFlashcard(context.Background(), "nope")
	assertAppError(t, err, apperrors.ErrCodeValidation)
}
