package service

import (
	"context"

	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"go.uber.org/zap"
)

// scoreRecorder implements domain.ScoreRecorder over the attempt store.
type scoreRecorder struct {
	attempts domain.AttemptRepository
}

// NewScoreRecorder creates a new score recorder.
func NewScoreRecorder(attempts domain.AttemptRepository) domain.ScoreRecorder {
	return &scoreRecorder{attempts: attempts}
}

// RecordScore upserts the attempt for the (quiz, user) pair. A prior
// attempt is replaced in place, not averaged or max-kept. Write failures
// are reported here for the operator; the caller keeps showing the
// in-memory score regardless.
func (s *scoreRecorder) RecordScore(ctx context.Context, quizID, userID string, score int) error {
	attempt := &domain.QuizAttempt{
		QuizID: quizID,
		UserID: userID,
		Score:  score,
	}

	if err := s.attempts.UpsertAttempt(ctx, attempt); err != nil {
		logger.Get().Error("Failed to persist quiz score",
			zap.String("quiz_id", quizID),
			zap.String("user_id", userID),
			zap.Int("score", score),
			zap.Error(err),
		)
		return err
	}

	logger.Get().Info("Quiz score recorded",
		zap.String("quiz_id", quizID),
		zap.String("user_id", userID),
		zap.Int("score", score),
	)
	return nil
}
