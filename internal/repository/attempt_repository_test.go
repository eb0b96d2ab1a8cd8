package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizforge/internal/domain"
)

func TestUpsertAttempt(t *testing.T) {
	t.Run("InsertsNewAttempt", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSQLXAttemptRepository(db)

		mock.ExpectExec("INSERT INTO quiz_attempts").
			WithArgs("quiz1", "user1", 4, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		attempt := &domain.QuizAttempt{QuizID: "quiz1", UserID: "user1", Score: 4}
		err := repo.UpsertAttempt(context.Background(), attempt)
		require.NoError(t, err)
		assert.False(t, attempt.UpdatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ReplacesExistingScore", func(t *testing.T) {
		// The conflict clause makes the second submission overwrite the
		// first row instead of inserting a duplicate.
		db, mock := newMockDB(t)
		repo := NewSQLXAttemptRepository(db)

		mock.ExpectExec("ON CONFLICT \\(quiz_id, user_id\\)").
			WithArgs("quiz1", "user1", 2, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("ON CONFLICT \\(quiz_id, user_id\\)").
			WithArgs("quiz1", "user1", 5, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpsertAttempt(context.Background(), &domain.QuizAttempt{QuizID: "quiz1", UserID: "user1", Score: 2}))
		require.NoError(t, repo.UpsertAttempt(context.Background(), &domain.QuizAttempt{QuizID: "quiz1", UserID: "user1", Score: 5}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("WriteFailure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSQLXAttemptRepository(db)

		mock.ExpectExec("INSERT INTO quiz_attempts").
			WillReturnError(errors.New("database is locked"))

		err := repo.UpsertAttempt(context.Background(), &domain.QuizAttempt{QuizID: "quiz1", UserID: "user1", Score: 3})
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeWriteFailed, domainErr.Code)
	})
}

func TestGetAttempt(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSQLXAttemptRepository(db)

		updated := time.Now()
		rows := sqlmock.NewRows([]string{"quiz_id", "user_id", "score", "updated_at"}).
			AddRow("quiz1", "user1", 4, updated)
		mock.ExpectQuery("SELECT (.+) FROM quiz_attempts").
			WithArgs("quiz1", "user1").
			WillReturnRows(rows)

		attempt, err := repo.GetAttempt(context.Background(), "quiz1", "user1")
		require.NoError(t, err)
		assert.Equal(t, "quiz1", attempt.QuizID)
		assert.Equal(t, "user1", attempt.UserID)
		assert.Equal(t, 4, attempt.Score)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSQLXAttemptRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM quiz_attempts").
			WithArgs("quiz1", "user2").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetAttempt(context.Background(), "quiz1", "user2")
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeNotFound, domainErr.Code)
	})
}
