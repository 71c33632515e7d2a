package models

import (
	"math"
	"time"
)

// Flashcard origin values.
const (
	OriginManual   = "manual"
	OriginAI       = "ai"
	OriginAIEdited = "ai_edited"
)

type Flashcard struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"` // never serialized in API responses
	Front      string    `json:"front"`
	Back       string    `json:"back"`
	Origin     string    `json:"origin"`
	SourceText *string   `json:"source_text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateFlashcardCommand carries the fields required to create a flashcard.
type CreateFlashcardCommand struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// UpdateFlashcardCommand carries a partial update. Nil fields are left
// untouched; non-nil fields must be non-empty.
type UpdateFlashcardCommand struct {
	Front *string `json:"front,omitempty"`
	Back  *string `json:"back,omitempty"`
}

// FlashcardFilter selects and orders a page of flashcards.
type FlashcardFilter struct {
	Page      int
	PageSize  int
	Origin    string // optional: "manual", "ai", "ai_edited"
	SortBy    string // "created_at" or "updated_at"
	SortOrder string // "asc" or "desc"
}

// Offset returns the row offset implied by Page and PageSize.
func (f FlashcardFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes pagination metadata. An empty result set still
// has one (empty) page so that clients always render page 1 of 1.
func NewPagination(page, pageSize, total int) Pagination {
	totalPages := 1
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

type FlashcardList struct {
	Data       []Flashcard `json:"data"`
	Pagination Pagination  `json:"pagination"`
}
