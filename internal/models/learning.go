package models

import "time"

// The learning and generation domains are external, unimplemented
// collaborators. Their shapes are declared here so the schema and API
// contracts have a home, but no operation in this repository touches them.

type LearningProgress struct {
	ID               string     `json:"id"`
	FlashcardID      string     `json:"flashcard_id"`
	DifficultyRating *int       `json:"difficulty_rating"`
	EaseFactor       float64    `json:"ease_factor"`
	IntervalDays     int        `json:"interval_days"`
	NextReviewAt     time.Time  `json:"next_review_date"`
	ReviewCount      int        `json:"review_count"`
	LastReviewAt     *time.Time `json:"last_review_date"`
}

type LearningSession struct {
	ID           string     `json:"id"`
	SessionType  string     `json:"session_type"` // "new", "review" or "mixed"
	MaxCards     int        `json:"max_cards"`
	CardsStudied int        `json:"cards_studied"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at"`
}

type GenerationStatistics struct {
	TotalGenerated     int `json:"total_generated"`
	TotalAccepted      int `json:"total_accepted"`
	TotalManualCreated int `json:"total_manual_created"`
}
