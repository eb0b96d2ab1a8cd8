package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"quizforge/internal/domain"
)

// MockTextExtractor is a mock implementation of domain.TextExtractor
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

// MockQuizGenerationService is a mock implementation of domain.QuizGenerationService
type MockQuizGenerationService struct {
	mock.Mock
}

func (m *MockQuizGenerationService) GenerateQuestions(ctx context.Context, text string) ([]domain.Question, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

// MockQuizRepository is a mock implementation of domain.QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) CreatePost(ctx context.Context, post *domain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.QuizDefinition) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.QuizDefinition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizDefinition), args.Error(1)
}

// MockAttemptRepository is a mock implementation of domain.AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) UpsertAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetAttempt(ctx context.Context, quizID, userID string) (*domain.QuizAttempt, error) {
	args := m.Called(ctx, quizID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizAttempt), args.Error(1)
}

// MockTransactionManager runs the callback directly, without a real
// transaction, so repository expectations still fire.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockCache is a mock implementation of domain.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockScoreRecorder is a mock implementation of domain.ScoreRecorder
type MockScoreRecorder struct {
	mock.Mock
}

func (m *MockScoreRecorder) RecordScore(ctx context.Context, quizID, userID string, score int) error {
	args := m.Called(ctx, quizID, userID, score)
	return args.Error(0)
}
