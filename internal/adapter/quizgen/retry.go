package quizgen

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"go.uber.org/zap"
)

// retryGenerator is a decorator that retries transient generation failures
// with exponential backoff and jitter. Schema violations, malformed
// responses, auth failures and caller cancellation are never retried.
type retryGenerator struct {
	inner       domain.QuizGenerationService
	maxAttempts int
	initialWait time.Duration
	maxWait     time.Duration
}

// WithRetry wraps a QuizGenerationService with retry logic.
func WithRetry(inner domain.QuizGenerationService, cfg config.LLMConfig) domain.QuizGenerationService {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &retryGenerator{
		inner:       inner,
		maxAttempts: maxAttempts,
		initialWait: cfg.InitialWait,
		maxWait:     cfg.MaxWait,
	}
}

func (r *retryGenerator) GenerateQuestions(ctx context.Context, text string) ([]domain.Question, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		questions, err := r.inner.GenerateQuestions(ctx, text)
		if err == nil {
			return questions, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return nil, err
		}

		// Last attempt, don't sleep, just return the error.
		if attempt == r.maxAttempts-1 {
			break
		}

		wait := r.backoff(attempt)
		logger.Get().Warn("Quiz generation failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

// shouldRetry reports whether an error is transient. Service
// unavailability qualifies, including per-call timeouts, whose cause chain
// carries context.DeadlineExceeded. Caller cancellation never retries, no
// matter how the error was classified.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == domain.CodeGenerationUnavailable
	}
	return false
}

// backoff computes the wait duration for the given attempt with ±20% jitter.
func (r *retryGenerator) backoff(attempt int) time.Duration {
	wait := float64(r.initialWait) * math.Pow(2, float64(attempt))
	if wait > float64(r.maxWait) {
		wait = float64(r.maxWait)
	}

	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
