package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quizforge/internal/domain"
)

// QuestionList stores the full question set of a quiz as a JSON blob
// column, the structured payload described by the external interface.
type QuestionList []domain.Question

// Value implements the driver.Valuer interface
func (q QuestionList) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (q *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*q = QuestionList{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("QuestionList Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*q = QuestionList{}
		return nil
	}

	return json.Unmarshal(bytesToParse, q)
}

// Post is the parent content record row.
type Post struct {
	ID        string    `db:"id"`
	AuthorID  string    `db:"author_id"`
	Content   string    `db:"content"`
	Type      string    `db:"type"`
	CreatedAt time.Time `db:"created_at"`
}

// Quiz is the persisted quiz definition row, linked to its parent post.
type Quiz struct {
	ID             string       `db:"id"`
	PostID         string       `db:"post_id"`
	Questions      QuestionList `db:"questions"`
	TotalQuestions int          `db:"total_questions"`
	CreatedAt      time.Time    `db:"created_at"`
}

// QuizAttempt is a user's scored result row, unique per (quiz_id, user_id).
type QuizAttempt struct {
	QuizID    string    `db:"quiz_id"`
	UserID    string    `db:"user_id"`
	Score     int       `db:"score"`
	UpdatedAt time.Time `db:"updated_at"`
}
