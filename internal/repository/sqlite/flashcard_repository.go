package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pwalczak/flashdeck/internal/logger"
	"github.com/pwalczak/flashdeck/internal/models"
	"github.com/pwalczak/flashdeck/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type flashcardRepository struct {
	db *sql.DB
}

// NewFlashcardRepository creates a new FlashcardRepository implementation
func NewFlashcardRepository(db *sql.DB) repository.FlashcardRepository {
	return &flashcardRepository{db: db}
}

const flashcardColumns = "id, user_id, front, back, origin, source_text, created_at, updated_at"

func scanFlashcard(row *sql.Row) (*models.Flashcard, error) {
	var c models.Flashcard
	var sourceText sql.NullString
	err := row.Scan(&c.ID, &c.UserID, &c.Front, &c.Back, &c.Origin, &sourceText, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if sourceText.Valid {
		c.SourceText = &sourceText.String
	}
	return &c, nil
}

func (r *flashcardRepository) Get(ctx context.Context, id string) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("getting flashcard: id=%s", id)

	row := r.db.QueryRowContext(ctx, `
SELECT `+flashcardColumns+`
FROM flashcards
WHERE id = ?
`, id)
	card, err := scanFlashcard(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("flashcard not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, err
	}
	return card, nil
}

func (r *flashcardRepository) List(ctx context.Context, userID string, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("listing flashcards: user_id=%s, page=%d, page_size=%d, origin=%s",
		userID, filter.Page, filter.PageSize, filter.Origin)

	query := sqlBuilder.Select(
		"id", "user_id", "front", "back", "origin", "source_text", "created_at", "updated_at",
	).From("flashcards").Where(squirrel.Eq{"user_id": userID})

	if filter.Origin != "" {
		query = query.Where(squirrel.Eq{"origin": filter.Origin})
	}

	// Safe ORDER BY with validation
	sortBy := "created_at"
	if filter.SortBy == "updated_at" {
		sortBy = filter.SortBy
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	query = query.OrderBy(sortBy + " " + sortOrder)

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	query = query.Limit(uint64(pageSize)).Offset(uint64(filter.Offset()))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		var c models.Flashcard
		var sourceText sql.NullString
		if err := rows.Scan(&c.ID, &c.UserID, &c.Front, &c.Back, &c.Origin, &sourceText, &c.CreatedAt, &c.UpdatedAt); err != nil {
			log.Error("failed to scan flashcard row: %v", err)
			return nil, err
		}
		if sourceText.Valid {
			c.SourceText = &sourceText.String
		}
		cards = append(cards, c)
	}
	log.Debug("found %d flashcards", len(cards))
	return cards, rows.Err()
}

func (r *flashcardRepository) Count(ctx context.Context, userID string, filter models.FlashcardFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")

	query := sqlBuilder.Select("COUNT(*)").From("flashcards").Where(squirrel.Eq{"user_id": userID})
	if filter.Origin != "" {
		query = query.Where(squirrel.Eq{"origin": filter.Origin})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count flashcards: %v", err)
		return 0, err
	}
	log.Debug("counted %d flashcards", count)
	return count, nil
}

func (r *flashcardRepository) Insert(ctx context.Context, card models.Flashcard) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")

	card.ID = uuid.NewString()
	now := time.Now().UTC()
	card.CreatedAt = now
	card.UpdatedAt = now
	if card.Origin == "" {
		card.Origin = models.OriginManual
	}
	log.Debug("inserting flashcard: id=%s, origin=%s", card.ID, card.Origin)

	var sourceText any
	if card.SourceText != nil {
		sourceText = *card.SourceText
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO flashcards (id, user_id, front, back, origin, source_text, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, card.ID, card.UserID, card.Front, card.Back, card.Origin, sourceText, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		log.Error("failed to insert flashcard: %v", err)
		return nil, err
	}
	log.Debug("flashcard inserted: id=%s", card.ID)
	return &card, nil
}

func (r *flashcardRepository) Update(ctx context.Context, id string, cmd models.UpdateFlashcardCommand) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("updating flashcard: id=%s", id)

	query := sqlBuilder.Update("flashcards").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})
	if cmd.Front != nil {
		query = query.Set("front", *cmd.Front)
	}
	if cmd.Back != nil {
		query = query.Set("back", *cmd.Back)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build update query: %v", err)
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to update flashcard: %v", err)
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to read rows affected: %v", err)
		return nil, err
	}
	if affected == 0 {
		log.Debug("flashcard not found for update: id=%s", id)
		return nil, nil
	}
	return r.Get(ctx, id)
}

func (r *flashcardRepository) Delete(ctx context.Context, id string) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("deleting flashcard: id=%s", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete flashcard: %v", err)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to read rows affected: %v", err)
		return false, err
	}
	if affected == 0 {
		log.Debug("flashcard not found for delete: id=%s", id)
		return false, nil
	}
	log.Debug("flashcard deleted: id=%s", id)
	return true, nil
}
