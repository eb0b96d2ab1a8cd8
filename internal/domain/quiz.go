package domain

import (
	"fmt"
	"time"
)

const (
	// MinOptions and MaxOptions bound the number of answer options a
	// generated question may carry.
	MinOptions = 2
	MaxOptions = 4
)

// Question is a single multiple-choice question inside a quiz.
type Question struct {
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Validate checks the question invariants: a non-empty prompt, between two
// and four options, and an answer index inside the option range.
func (q *Question) Validate() error {
	if q.Prompt == "" {
		return NewGenerationSchemaError("question prompt is empty")
	}
	if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
		return NewGenerationSchemaError(fmt.Sprintf("question has %d options, expected between %d and %d", len(q.Options), MinOptions, MaxOptions))
	}
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return NewGenerationSchemaError(fmt.Sprintf("answer index %d is out of range for %d options", q.Answer, len(q.Options)))
	}
	return nil
}

// QuizDefinition is the structured, persisted set of questions derived
// from one source document. It is created once and immutable thereafter.
type QuizDefinition struct {
	ID             string
	PostID         string
	Questions      []Question
	TotalQuestions int
	CreatedAt      time.Time
}

// Validate checks the quiz invariants. A quiz with zero questions is
// invalid and must never reach a session.
func (q *QuizDefinition) Validate() error {
	if len(q.Questions) == 0 {
		return NewGenerationSchemaError("quiz has no questions")
	}
	if q.TotalQuestions != len(q.Questions) {
		return NewGenerationSchemaError(fmt.Sprintf("total_questions %d does not match %d questions", q.TotalQuestions, len(q.Questions)))
	}
	for i := range q.Questions {
		if err := q.Questions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Post is the parent content record a quiz hangs off. The social platform
// owns everything else about posts; this core only creates the linked
// record alongside a quiz.
type Post struct {
	ID        string
	AuthorID  string
	Content   string
	Type      string
	CreatedAt time.Time
}

// PostTypeQuiz marks a post created by the quiz pipeline.
const PostTypeQuiz = "quiz"

// QuizAttempt is one user's scored result for one quiz, unique per
// (quiz, user). Submitting again replaces the score in place.
type QuizAttempt struct {
	QuizID    string
	UserID    string
	Score     int
	UpdatedAt time.Time
}

// Validate checks the attempt score against the quiz size.
func (a *QuizAttempt) Validate(totalQuestions int) error {
	if a.QuizID == "" {
		return NewInvalidInputError("quiz ID is required")
	}
	if a.UserID == "" {
		return NewInvalidInputError("user ID is required")
	}
	if a.Score < 0 || a.Score > totalQuestions {
		return NewInvalidInputError(fmt.Sprintf("score %d is out of range for %d questions", a.Score, totalQuestions))
	}
	return nil
}

// ResultTier buckets a final score for the results screen.
func ResultTier(score, total int) string {
	if total <= 0 {
		return "keep_studying"
	}
	percentage := float64(score) / float64(total) * 100
	switch {
	case percentage == 100:
		return "perfect"
	case percentage >= 80:
		return "well_done"
	default:
		return "keep_studying"
	}
}
