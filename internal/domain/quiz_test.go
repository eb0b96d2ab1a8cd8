package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionValidate(t *testing.T) {
	valid := Question{
		Prompt:      "What binds a receptor?",
		Options:     []string{"an agonist", "a solvent", "a buffer"},
		Answer:      0,
		Explanation: "Agonists bind and activate receptors.",
	}

	tests := []struct {
		name    string
		mutate  func(q *Question)
		wantErr bool
	}{
		{name: "Valid", mutate: func(q *Question) {}},
		{name: "EmptyPrompt", mutate: func(q *Question) { q.Prompt = "" }, wantErr: true},
		{name: "TooFewOptions", mutate: func(q *Question) { q.Options = []string{"only"} }, wantErr: true},
		{name: "TooManyOptions", mutate: func(q *Question) { q.Options = []string{"a", "b", "c", "d", "e"} }, wantErr: true},
		{name: "AnswerOutOfRange", mutate: func(q *Question) { q.Answer = 3 }, wantErr: true},
		{name: "NegativeAnswer", mutate: func(q *Question) { q.Answer = -1 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			q.Options = append([]string(nil), valid.Options...)
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr {
				var domainErr *DomainError
				assert.ErrorAs(t, err, &domainErr)
				assert.Equal(t, CodeGenerationSchema, domainErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuizDefinitionValidate(t *testing.T) {
	question := Question{Prompt: "p", Options: []string{"a", "b"}, Answer: 1}

	t.Run("Valid", func(t *testing.T) {
		quiz := &QuizDefinition{ID: "q1", Questions: []Question{question}, TotalQuestions: 1}
		assert.NoError(t, quiz.Validate())
	})

	t.Run("NoQuestions", func(t *testing.T) {
		quiz := &QuizDefinition{ID: "q1"}
		assert.Error(t, quiz.Validate())
	})

	t.Run("CountMismatch", func(t *testing.T) {
		quiz := &QuizDefinition{ID: "q1", Questions: []Question{question}, TotalQuestions: 5}
		assert.Error(t, quiz.Validate())
	})

	t.Run("BadQuestionInside", func(t *testing.T) {
		bad := question
		bad.Answer = 9
		quiz := &QuizDefinition{ID: "q1", Questions: []Question{question, bad}, TotalQuestions: 2}
		assert.Error(t, quiz.Validate())
	})
}

func TestQuizAttemptValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		a := &QuizAttempt{QuizID: "q1", UserID: "u1", Score: 3}
		assert.NoError(t, a.Validate(5))
	})
	t.Run("MissingIDs", func(t *testing.T) {
		assert.Error(t, (&QuizAttempt{UserID: "u1"}).Validate(5))
		assert.Error(t, (&QuizAttempt{QuizID: "q1"}).Validate(5))
	})
	t.Run("ScoreOutOfRange", func(t *testing.T) {
		assert.Error(t, (&QuizAttempt{QuizID: "q1", UserID: "u1", Score: 6}).Validate(5))
		assert.Error(t, (&QuizAttempt{QuizID: "q1", UserID: "u1", Score: -1}).Validate(5))
	})
}

func TestResultTier(t *testing.T) {
	tests := []struct {
		name  string
		score int
		total int
		want  string
	}{
		{"Perfect", 5, 5, "perfect"},
		{"Exactly80Percent", 4, 5, "well_done"},
		{"Above80Percent", 9, 10, "well_done"},
		{"Below80Percent", 3, 5, "keep_studying"},
		{"Zero", 0, 5, "keep_studying"},
		{"DegenerateTotal", 0, 0, "keep_studying"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResultTier(tt.score, tt.total))
		})
	}
}
