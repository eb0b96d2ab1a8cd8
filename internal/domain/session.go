package domain

import (
	"context"
	"sync"
	"sync/atomic"
)

// SessionState enumerates the assessment session states.
type SessionState string

const (
	// StateLocked is the terminal dead-end for a session with no bound
	// user identity. Nothing interactive happens here.
	StateLocked SessionState = "LOCKED"
	// StateAnswering means the current question is waiting for a
	// selection to be checked.
	StateAnswering SessionState = "ANSWERING"
	// StateChecked means the current question has been graded and the
	// session is waiting to advance.
	StateChecked SessionState = "CHECKED"
	// StateCompleted means every question has been answered.
	StateCompleted SessionState = "COMPLETED"
)

// noSelection marks the absence of a pending option.
const noSelection = -1

// Session is the finite-state machine driving one user through one quiz.
// It is exclusively owned by the user that created it and is never
// persisted; only the final score leaves through the ScoreRecorder.
//
// Transitions are serialized by a mutex: a call that arrives while a prior
// transition (including the terminal score submission) is still in flight
// waits its turn. The submission guard is an atomic compare-and-set, so a
// duplicate completion can fire the recorder at most once per run.
type Session struct {
	mu sync.Mutex

	id     string
	quiz   *QuizDefinition
	userID string

	state        SessionState
	currentIndex int
	selected     int
	lastCorrect  bool
	score        int

	submitted atomic.Bool
	recorder  ScoreRecorder
}

// NewSession constructs a session over an already-validated quiz. A quiz
// with zero questions is rejected outright. Without a user identity the
// session starts Locked and stays there.
func NewSession(id string, quiz *QuizDefinition, userID string, recorder ScoreRecorder) (*Session, error) {
	if quiz == nil || len(quiz.Questions) == 0 {
		return nil, NewInvalidInputError("cannot start a session on a quiz without questions")
	}
	s := &Session{
		id:       id,
		quiz:     quiz,
		userID:   userID,
		selected: noSelection,
		recorder: recorder,
	}
	if userID == "" {
		s.state = StateLocked
	} else {
		s.state = StateAnswering
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// UserID returns the identity the session is bound to.
func (s *Session) UserID() string { return s.userID }

// QuizID returns the quiz the session runs over.
func (s *Session) QuizID() string { return s.quiz.ID }

// SelectOption records opt as the pending selection for the current
// question. Valid only while answering; the state does not change.
func (s *Session) SelectOption(opt int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAnswering {
		return NewInvalidTransitionError("selectOption", s.state)
	}
	if opt < 0 || opt >= len(s.quiz.Questions[s.currentIndex].Options) {
		return NewInvalidInputError("selected option is out of range")
	}
	s.selected = opt
	return nil
}

// Check grades the pending selection against the current question. With no
// selection present it is a guarded no-op, not an error. A correct answer
// increments the score; either way the session moves to Checked.
func (s *Session) Check() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAnswering {
		return NewInvalidTransitionError("check", s.state)
	}
	if s.selected == noSelection {
		return nil
	}

	s.lastCorrect = s.selected == s.quiz.Questions[s.currentIndex].Answer
	if s.lastCorrect {
		s.score++
	}
	s.state = StateChecked
	return nil
}

// Advance moves past a checked question. On the last question it enters
// Completed and, exactly once per run, submits the final score through the
// recorder. A failed submission is the recorder's problem to report; the
// session keeps its in-memory score either way.
func (s *Session) Advance(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateChecked {
		return NewInvalidTransitionError("advance", s.state)
	}

	if s.currentIndex+1 < s.quiz.TotalQuestions {
		s.currentIndex++
		s.selected = noSelection
		s.state = StateAnswering
		return nil
	}

	s.state = StateCompleted
	if s.recorder != nil && s.submitted.CompareAndSwap(false, true) {
		// Best effort: the score shown to the user is the in-memory
		// value, not a re-read of the store.
		_ = s.recorder.RecordScore(ctx, s.quiz.ID, s.userID, s.score)
	}
	return nil
}

// Retry restarts a completed session from the first question with a clean
// score. A later completion submits again, overwriting the stored attempt.
func (s *Session) Retry() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCompleted {
		return NewInvalidTransitionError("retry", s.state)
	}
	s.currentIndex = 0
	s.selected = noSelection
	s.lastCorrect = false
	s.score = 0
	s.submitted.Store(false)
	s.state = StateAnswering
	return nil
}

// SessionView is a read-only snapshot of the session for presentation.
type SessionView struct {
	ID             string `json:"id"`
	QuizID         string `json:"quiz_id"`
	State          string `json:"state"`
	CurrentIndex   int    `json:"current_index"`
	TotalQuestions int    `json:"total_questions"`
	SelectedOption *int   `json:"selected_option,omitempty"`
	LastCorrect    *bool  `json:"last_correct,omitempty"`
	Score          int    `json:"score"`
	Submitted      bool   `json:"submitted"`
	ResultTier     string `json:"result_tier,omitempty"`
}

// View snapshots the current session state.
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := SessionView{
		ID:             s.id,
		QuizID:         s.quiz.ID,
		State:          string(s.state),
		CurrentIndex:   s.currentIndex,
		TotalQuestions: s.quiz.TotalQuestions,
		Score:          s.score,
		Submitted:      s.submitted.Load(),
	}
	if s.selected != noSelection {
		sel := s.selected
		view.SelectedOption = &sel
	}
	if s.state == StateChecked {
		correct := s.lastCorrect
		view.LastCorrect = &correct
	}
	if s.state == StateCompleted {
		view.ResultTier = ResultTier(s.score, s.quiz.TotalQuestions)
	}
	return view
}
