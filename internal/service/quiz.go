package service

import (
	"context"
	"encoding/json"

	"quizforge/internal/cache"
	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"
	"quizforge/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// defaultQuizCaption fills the parent post when the uploader leaves the
// text field blank.
const defaultQuizCaption = "New AI-generated quiz"

// QuizService defines the quiz creation and read operations.
type QuizService interface {
	// CreateQuizFromDocument runs the full pipeline: extract text from the
	// uploaded document, generate questions, and persist post + quiz as
	// one unit.
	CreateQuizFromDocument(ctx context.Context, authorID, content string, document []byte) (*dto.CreateQuizResponse, error)
	// GetQuizDefinition loads a quiz definition, preferring the cache.
	GetQuizDefinition(ctx context.Context, id string) (*domain.QuizDefinition, error)
	// GetAttempt returns the caller's persisted result for a quiz.
	GetAttempt(ctx context.Context, quizID, userID string) (*dto.AttemptResponse, error)
}

// quizService implements QuizService
type quizService struct {
	extractor domain.TextExtractor
	generator domain.QuizGenerationService
	quizzes   domain.QuizRepository
	attempts  domain.AttemptRepository
	txManager domain.TransactionManager
	cache     domain.Cache
	cfg       *config.Config
	group     singleflight.Group
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	extractor domain.TextExtractor,
	generator domain.QuizGenerationService,
	quizzes domain.QuizRepository,
	attempts domain.AttemptRepository,
	txManager domain.TransactionManager,
	cacheAdapter domain.Cache,
	cfg *config.Config,
) QuizService {
	return &quizService{
		extractor: extractor,
		generator: generator,
		quizzes:   quizzes,
		attempts:  attempts,
		txManager: txManager,
		cache:     cacheAdapter,
		cfg:       cfg,
	}
}

// CreateQuizFromDocument implements QuizService. Ingestion and generation
// failures surface verbatim; nothing is persisted unless both the post and
// the quiz commit together.
func (s *quizService) CreateQuizFromDocument(ctx context.Context, authorID, content string, document []byte) (*dto.CreateQuizResponse, error) {
	l := logger.Get()

	text, err := s.extractor.ExtractText(ctx, document)
	if err != nil {
		return nil, err
	}

	questions, err := s.generator.GenerateQuestions(ctx, text)
	if err != nil {
		return nil, err
	}

	if content == "" {
		content = defaultQuizCaption
	}

	post := &domain.Post{
		ID:       util.NewULID(),
		AuthorID: authorID,
		Content:  content,
		Type:     domain.PostTypeQuiz,
	}
	quiz := &domain.QuizDefinition{
		ID:             util.NewULID(),
		PostID:         post.ID,
		Questions:      questions,
		TotalQuestions: len(questions),
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	// The parent post and the quiz land together or not at all.
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.quizzes.CreatePost(txCtx, post); err != nil {
			return err
		}
		return s.quizzes.CreateQuiz(txCtx, quiz)
	})
	if err != nil {
		l.Error("Failed to persist quiz",
			zap.String("author_id", authorID),
			zap.Error(err),
		)
		return nil, err
	}

	s.primeCache(ctx, quiz)

	l.Info("Quiz created",
		zap.String("quiz_id", quiz.ID),
		zap.String("post_id", post.ID),
		zap.Int("total_questions", quiz.TotalQuestions),
	)

	return &dto.CreateQuizResponse{
		QuizID:         quiz.ID,
		PostID:         post.ID,
		TotalQuestions: quiz.TotalQuestions,
	}, nil
}

// GetQuizDefinition implements QuizService. Quiz definitions are immutable
// once created, so cached entries never go stale; singleflight collapses
// concurrent misses for the same quiz.
func (s *quizService) GetQuizDefinition(ctx context.Context, id string) (*domain.QuizDefinition, error) {
	key := cache.GenerateCacheKey("quiz", "definition", id)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var quiz domain.QuizDefinition
		if err := json.Unmarshal([]byte(cached), &quiz); err == nil {
			return &quiz, nil
		}
		// A corrupt entry falls through to the repository.
		_ = s.cache.Delete(ctx, key)
	} else if err != domain.ErrCacheMiss {
		logger.Get().Warn("Quiz cache read failed", zap.String("quiz_id", id), zap.Error(err))
	}

	result, err, _ := s.group.Do(id, func() (interface{}, error) {
		// The flight is shared by every concurrent caller, so it must not
		// die with whichever caller happened to open it.
		fetchCtx := context.WithoutCancel(ctx)
		quiz, err := s.quizzes.GetQuizByID(fetchCtx, id)
		if err != nil {
			return nil, err
		}
		s.primeCache(fetchCtx, quiz)
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.QuizDefinition), nil
}

// GetAttempt implements QuizService
func (s *quizService) GetAttempt(ctx context.Context, quizID, userID string) (*dto.AttemptResponse, error) {
	quiz, err := s.GetQuizDefinition(ctx, quizID)
	if err != nil {
		return nil, err
	}

	attempt, err := s.attempts.GetAttempt(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	return &dto.AttemptResponse{
		QuizID:         attempt.QuizID,
		Score:          attempt.Score,
		TotalQuestions: quiz.TotalQuestions,
		ResultTier:     domain.ResultTier(attempt.Score, quiz.TotalQuestions),
		UpdatedAt:      attempt.UpdatedAt,
	}, nil
}

// primeCache stores a quiz definition, best effort.
func (s *quizService) primeCache(ctx context.Context, quiz *domain.QuizDefinition) {
	data, err := json.Marshal(quiz)
	if err != nil {
		return
	}
	key := cache.GenerateCacheKey("quiz", "definition", quiz.ID)
	if err := s.cache.Set(ctx, key, string(data), s.cfg.Cache.QuizTTL); err != nil {
		logger.Get().Warn("Quiz cache write failed", zap.String("quiz_id", quiz.ID), zap.Error(err))
	}
}
