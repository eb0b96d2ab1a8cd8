package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache implementations when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines the caching operations the services need.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// TextExtractor extracts plain text from an uploaded document buffer.
// Implementations must contain parser failures at this boundary and
// convert them to the typed ingestion errors.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// QuizGenerationService turns extracted document text into a validated
// question list by calling the generative-model service.
type QuizGenerationService interface {
	GenerateQuestions(ctx context.Context, text string) ([]Question, error)
}

// QuizRepository persists quiz definitions and their parent posts.
type QuizRepository interface {
	CreatePost(ctx context.Context, post *Post) error
	CreateQuiz(ctx context.Context, quiz *QuizDefinition) error
	GetQuizByID(ctx context.Context, id string) (*QuizDefinition, error)
}

// AttemptRepository persists final scores, one row per (quiz, user).
type AttemptRepository interface {
	UpsertAttempt(ctx context.Context, attempt *QuizAttempt) error
	GetAttempt(ctx context.Context, quizID, userID string) (*QuizAttempt, error)
}

// ScoreRecorder records the final score of a completed session. A failed
// write must not disturb the session's in-memory result.
type ScoreRecorder interface {
	RecordScore(ctx context.Context, quizID, userID string, score int) error
}

// TransactionManager runs a function inside a database transaction. The
// transaction travels in the context; repositories pick it up through
// their executor.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
