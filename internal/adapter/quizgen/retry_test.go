package quizgen

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizforge/internal/config"
	"quizforge/internal/domain"
)

// flakyGenerator fails a fixed number of times before succeeding.
type flakyGenerator struct {
	failures int
	err      error
	calls    int
	result   []domain.Question
}

func (f *flakyGenerator) GenerateQuestions(ctx context.Context, text string) ([]domain.Question, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.result, nil
}

func retryLLMConfig(maxAttempts int) config.LLMConfig {
	return config.LLMConfig{
		MaxAttempts: maxAttempts,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
	}
}

func TestWithRetry(t *testing.T) {
	questions := []domain.Question{{Prompt: "p", Options: []string{"a", "b"}, Answer: 0}}

	t.Run("SucceedsFirstTry", func(t *testing.T) {
		inner := &flakyGenerator{result: questions}
		g := WithRetry(inner, retryLLMConfig(3))

		got, err := g.GenerateQuestions(context.Background(), "text")
		require.NoError(t, err)
		assert.Equal(t, questions, got)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("RetriesUnavailableThenSucceeds", func(t *testing.T) {
		inner := &flakyGenerator{
			failures: 2,
			err:      domain.NewGenerationUnavailableError(errors.New("503")),
			result:   questions,
		}
		g := WithRetry(inner, retryLLMConfig(3))

		got, err := g.GenerateQuestions(context.Background(), "text")
		require.NoError(t, err)
		assert.Equal(t, questions, got)
		assert.Equal(t, 3, inner.calls)
	})

	t.Run("RetriesCallTimeouts", func(t *testing.T) {
		// The exact shape a timed-out model call is classified into:
		// unavailable, with context.DeadlineExceeded in the cause chain.
		inner := &flakyGenerator{
			failures: 10,
			err:      domain.NewGenerationUnavailableError(fmt.Errorf("model call timed out: %w", context.DeadlineExceeded)),
		}
		g := WithRetry(inner, retryLLMConfig(3))

		_, err := g.GenerateQuestions(context.Background(), "text")
		require.Error(t, err)
		assert.Equal(t, 3, inner.calls)
	})

	t.Run("TimeoutThenSucceeds", func(t *testing.T) {
		inner := &flakyGenerator{
			failures: 1,
			err:      domain.NewGenerationUnavailableError(fmt.Errorf("model call timed out: %w", context.DeadlineExceeded)),
			result:   questions,
		}
		g := WithRetry(inner, retryLLMConfig(3))

		got, err := g.GenerateQuestions(context.Background(), "text")
		require.NoError(t, err)
		assert.Equal(t, questions, got)
		assert.Equal(t, 2, inner.calls)
	})

	t.Run("NeverRetriesWrappedCancellation", func(t *testing.T) {
		inner := &flakyGenerator{
			failures: 10,
			err:      domain.NewGenerationUnavailableError(fmt.Errorf("call aborted: %w", context.Canceled)),
		}
		g := WithRetry(inner, retryLLMConfig(3))

		_, err := g.GenerateQuestions(context.Background(), "text")
		require.Error(t, err)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("ExhaustsAttempts", func(t *testing.T) {
		inner := &flakyGenerator{
			failures: 10,
			err:      domain.NewGenerationUnavailableError(errors.New("503")),
		}
		g := WithRetry(inner, retryLLMConfig(3))

		_, err := g.GenerateQuestions(context.Background(), "text")
		require.Error(t, err)
		assert.Equal(t, 3, inner.calls)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeGenerationUnavailable, domainErr.Code)
	})

	t.Run("NeverRetriesSchemaViolations", func(t *testing.T) {
		inner := &flakyGenerator{
			failures: 10,
			err:      domain.NewGenerationSchemaError("missing answer"),
		}
		g := WithRetry(inner, retryLLMConfig(3))

		_, err := g.GenerateQuestions(context.Background(), "text")
		require.Error(t, err)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("NeverRetriesMalformedResponses", func(t *testing.T) {
		inner := &flakyGenerator{
			failures: 10,
			err:      domain.NewGenerationMalformedError(errors.New("bad json")),
		}
		g := WithRetry(inner, retryLLMConfig(3))

		_, err := g.GenerateQuestions(context.Background(), "text")
		require.Error(t, err)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("NeverRetriesCancellation", func(t *testing.T) {
		inner := &flakyGenerator{failures: 10, err: context.Canceled}
		g := WithRetry(inner, retryLLMConfig(3))

		_, err := g.GenerateQuestions(context.Background(), "text")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("StopsWaitingWhenContextEnds", func(t *testing.T) {
		inner := &flakyGenerator{
			failures: 10,
			err:      domain.NewGenerationUnavailableError(errors.New("503")),
		}
		cfg := retryLLMConfig(5)
		cfg.InitialWait = time.Minute
		cfg.MaxWait = time.Minute
		g := WithRetry(inner, cfg)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := g.GenerateQuestions(ctx, "text")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("AtLeastOneAttempt", func(t *testing.T) {
		inner := &flakyGenerator{result: questions}
		g := WithRetry(inner, retryLLMConfig(0))

		_, err := g.GenerateQuestions(context.Background(), "text")
		require.NoError(t, err)
		assert.Equal(t, 1, inner.calls)
	})
}

func TestBackoff(t *testing.T) {
	r := &retryGenerator{
		initialWait: 100 * time.Millisecond,
		maxWait:     time.Second,
	}

	// With ±20% jitter the wait stays within a known band per attempt.
	for attempt, base := range []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second, // capped
		time.Second,
	} {
		wait := r.backoff(attempt)
		assert.GreaterOrEqual(t, wait, time.Duration(float64(base)*0.8), "attempt %d", attempt)
		assert.LessOrEqual(t, wait, time.Duration(float64(base)*1.2), "attempt %d", attempt)
	}
}
