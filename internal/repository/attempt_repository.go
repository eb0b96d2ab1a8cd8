package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxAttemptRepository implements domain.AttemptRepository using sqlx.
type sqlxAttemptRepository struct {
	db *sqlx.DB
}

// NewSQLXAttemptRepository creates a new instance of sqlxAttemptRepository.
func NewSQLXAttemptRepository(db *sqlx.DB) domain.AttemptRepository {
	return &sqlxAttemptRepository{db: db}
}

func toDomainAttempt(m *models.QuizAttempt) *domain.QuizAttempt {
	if m == nil {
		return nil
	}
	return &domain.QuizAttempt{
		QuizID:    m.QuizID,
		UserID:    m.UserID,
		Score:     m.Score,
		UpdatedAt: m.UpdatedAt,
	}
}

// UpsertAttempt inserts the attempt or, when a row already exists for the
// (quiz_id, user_id) pair, replaces its score in place. Last attempt wins;
// the unique key guarantees a single row per pair.
func (r *sqlxAttemptRepository) UpsertAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	if attempt.UpdatedAt.IsZero() {
		attempt.UpdatedAt = time.Now()
	}

	query := `INSERT INTO quiz_attempts (quiz_id, user_id, score, updated_at)
	          VALUES (?, ?, ?, ?)
	          ON CONFLICT (quiz_id, user_id)
	          DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		attempt.QuizID,
		attempt.UserID,
		attempt.Score,
		attempt.UpdatedAt,
	)
	if err != nil {
		return domain.NewWriteFailedError("failed to upsert quiz attempt", err)
	}
	return nil
}

// GetAttempt fetches the stored attempt for a (quiz, user) pair.
func (r *sqlxAttemptRepository) GetAttempt(ctx context.Context, quizID, userID string) (*domain.QuizAttempt, error) {
	query := `SELECT quiz_id, user_id, score, updated_at
	          FROM quiz_attempts WHERE quiz_id = ? AND user_id = ?`

	var m models.QuizAttempt
	executor := GetExecutor(ctx, r.db)
	if err := executor.GetContext(ctx, &m, query, quizID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("no attempt recorded for this quiz")
		}
		return nil, domain.NewInternalError("failed to get quiz attempt", err)
	}

	return toDomainAttempt(&m), nil
}
