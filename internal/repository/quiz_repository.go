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

// sqlxQuizRepository implements domain.QuizRepository using sqlx.
type sqlxQuizRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizRepository creates a new instance of sqlxQuizRepository.
func NewSQLXQuizRepository(db *sqlx.DB) domain.QuizRepository {
	return &sqlxQuizRepository{db: db}
}

func toDomainQuiz(m *models.Quiz) *domain.QuizDefinition {
	if m == nil {
		return nil
	}
	return &domain.QuizDefinition{
		ID:             m.ID,
		PostID:         m.PostID,
		Questions:      m.Questions,
		TotalQuestions: m.TotalQuestions,
		CreatedAt:      m.CreatedAt,
	}
}

// CreatePost inserts the parent content record a quiz links to. It honors
// an active transaction in the context.
func (r *sqlxQuizRepository) CreatePost(ctx context.Context, post *domain.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	query := `INSERT INTO posts (id, author_id, content, type, created_at)
	          VALUES (?, ?, ?, ?, ?)`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		post.ID,
		post.AuthorID,
		post.Content,
		post.Type,
		post.CreatedAt,
	)
	if err != nil {
		return domain.NewWriteFailedError("failed to create post", err)
	}
	return nil
}

// CreateQuiz inserts a quiz definition. It honors an active transaction in
// the context; quiz creation only ever runs inside one, alongside its post.
func (r *sqlxQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.QuizDefinition) error {
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = time.Now()
	}

	query := `INSERT INTO quizzes (id, post_id, questions, total_questions, created_at)
	          VALUES (?, ?, ?, ?, ?)`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		quiz.ID,
		quiz.PostID,
		models.QuestionList(quiz.Questions),
		quiz.TotalQuestions,
		quiz.CreatedAt,
	)
	if err != nil {
		return domain.NewWriteFailedError("failed to create quiz", err)
	}
	return nil
}

// GetQuizByID fetches a quiz definition with its full question list.
func (r *sqlxQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.QuizDefinition, error) {
	query := `SELECT id, post_id, questions, total_questions, created_at
	          FROM quizzes WHERE id = ?`

	var m models.Quiz
	executor := GetExecutor(ctx, r.db)
	if err := executor.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewQuizNotFoundError(id)
		}
		return nil, domain.NewInternalError("failed to get quiz", err)
	}

	return toDomainQuiz(&m), nil
}
