package dto

import (
	"time"

	"quizforge/internal/domain"
)

// ErrorResponse is the minimal error body handlers return directly.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateQuizResponse is returned after the upload pipeline completes.
type CreateQuizResponse struct {
	QuizID         string `json:"quiz_id"`
	PostID         string `json:"post_id"`
	TotalQuestions int    `json:"total_questions"`
}

// QuizResponse carries the full quiz definition for play. Answers are
// included; checking happens inside the session, like the client player
// this replaces.
type QuizResponse struct {
	ID             string            `json:"id"`
	PostID         string            `json:"post_id"`
	TotalQuestions int               `json:"total_questions"`
	Questions      []domain.Question `json:"questions"`
}

// SelectOptionRequest is the payload for recording a pending selection.
type SelectOptionRequest struct {
	Option int `json:"option"`
}

// AttemptResponse is a user's persisted result for one quiz.
type AttemptResponse struct {
	QuizID         string    `json:"quiz_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	ResultTier     string    `json:"result_tier"`
	UpdatedAt      time.Time `json:"updated_at"`
}
