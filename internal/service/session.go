package service

import (
	"context"
	"sync"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/logger"
	"quizforge/internal/util"

	"go.uber.org/zap"
)

// defaultSessionTTL bounds registry growth when no TTL is configured.
const defaultSessionTTL = 2 * time.Hour

// SessionService manages the live assessment sessions. Sessions are
// transient: they live in memory, belong to exactly one user, and are
// discarded when replaced, when they go idle past the TTL, or when the
// process ends. Only final scores are persisted, through the recorder
// wired into each session.
type SessionService interface {
	StartSession(ctx context.Context, quizID, userID string) (domain.SessionView, error)
	GetSession(ctx context.Context, sessionID, userID string) (domain.SessionView, error)
	SelectOption(ctx context.Context, sessionID, userID string, option int) (domain.SessionView, error)
	Check(ctx context.Context, sessionID, userID string) (domain.SessionView, error)
	Advance(ctx context.Context, sessionID, userID string) (domain.SessionView, error)
	Retry(ctx context.Context, sessionID, userID string) (domain.SessionView, error)
}

// sessionEntry pairs a session with the bookkeeping the registry needs to
// evict it.
type sessionEntry struct {
	session  *domain.Session
	ownerKey string
	lastSeen time.Time
}

// sessionService implements SessionService
type sessionService struct {
	mu      sync.Mutex
	byID    map[string]*sessionEntry
	byOwner map[string]string // quizID + "\x00" + userID -> session ID

	quizzes  QuizService
	recorder domain.ScoreRecorder
	ttl      time.Duration
}

// NewSessionService creates a new session service. Sessions idle longer
// than ttl are swept out of the registry.
func NewSessionService(quizzes QuizService, recorder domain.ScoreRecorder, ttl time.Duration) SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionService{
		byID:     make(map[string]*sessionEntry),
		byOwner:  make(map[string]string),
		quizzes:  quizzes,
		recorder: recorder,
		ttl:      ttl,
	}
}

func ownerKey(quizID, userID string) string {
	return quizID + "\x00" + userID
}

// evictStale drops entries idle past the TTL. Caller holds the mutex.
func (s *sessionService) evictStale(now time.Time) {
	for id, entry := range s.byID {
		if now.Sub(entry.lastSeen) > s.ttl {
			delete(s.byID, id)
			if s.byOwner[entry.ownerKey] == id {
				delete(s.byOwner, entry.ownerKey)
			}
		}
	}
}

// StartSession creates a fresh session for the (quiz, user) pair. Any
// prior session for the pair is discarded, along with its unsubmitted
// state.
func (s *sessionService) StartSession(ctx context.Context, quizID, userID string) (domain.SessionView, error) {
	if userID == "" {
		return domain.SessionView{}, domain.NewUnauthorizedError("a user identity is required to start a session")
	}

	quiz, err := s.quizzes.GetQuizDefinition(ctx, quizID)
	if err != nil {
		return domain.SessionView{}, err
	}

	session, err := domain.NewSession(util.NewULID(), quiz, userID, s.recorder)
	if err != nil {
		return domain.SessionView{}, err
	}

	s.mu.Lock()
	now := time.Now()
	s.evictStale(now)
	key := ownerKey(quizID, userID)
	if oldID, ok := s.byOwner[key]; ok {
		delete(s.byID, oldID)
	}
	s.byOwner[key] = session.ID()
	s.byID[session.ID()] = &sessionEntry{session: session, ownerKey: key, lastSeen: now}
	s.mu.Unlock()

	logger.Get().Info("Assessment session started",
		zap.String("session_id", session.ID()),
		zap.String("quiz_id", quizID),
		zap.String("user_id", userID),
	)

	return session.View(), nil
}

// lookup fetches a session, refreshes its idle clock and enforces
// exclusive ownership.
func (s *sessionService) lookup(sessionID, userID string) (*domain.Session, error) {
	s.mu.Lock()
	entry, ok := s.byID[sessionID]
	if ok {
		entry.lastSeen = time.Now()
	}
	s.mu.Unlock()

	if !ok {
		return nil, domain.NewNotFoundError("session not found or already discarded")
	}
	if entry.session.UserID() != userID {
		return nil, domain.NewUnauthorizedError("session belongs to another user")
	}
	return entry.session, nil
}

// GetSession implements SessionService
func (s *sessionService) GetSession(ctx context.Context, sessionID, userID string) (domain.SessionView, error) {
	session, err := s.lookup(sessionID, userID)
	if err != nil {
		return domain.SessionView{}, err
	}
	return session.View(), nil
}

// SelectOption implements SessionService
func (s *sessionService) SelectOption(ctx context.Context, sessionID, userID string, option int) (domain.SessionView, error) {
	session, err := s.lookup(sessionID, userID)
	if err != nil {
		return domain.SessionView{}, err
	}
	if err := session.SelectOption(option); err != nil {
		return domain.SessionView{}, err
	}
	return session.View(), nil
}

// Check implements SessionService
func (s *sessionService) Check(ctx context.Context, sessionID, userID string) (domain.SessionView, error) {
	session, err := s.lookup(sessionID, userID)
	if err != nil {
		return domain.SessionView{}, err
	}
	if err := session.Check(); err != nil {
		return domain.SessionView{}, err
	}
	return session.View(), nil
}

// Advance implements SessionService. Entering Completed fires the score
// submission inside the session, at most once per run.
func (s *sessionService) Advance(ctx context.Context, sessionID, userID string) (domain.SessionView, error) {
	session, err := s.lookup(sessionID, userID)
	if err != nil {
		return domain.SessionView{}, err
	}
	if err := session.Advance(ctx); err != nil {
		return domain.SessionView{}, err
	}
	return session.View(), nil
}

// Retry implements SessionService
func (s *sessionService) Retry(ctx context.Context, sessionID, userID string) (domain.SessionView, error) {
	session, err := s.lookup(sessionID, userID)
	if err != nil {
		return domain.SessionView{}, err
	}
	if err := session.Retry(); err != nil {
		return domain.SessionView{}, err
	}
	return session.View(), nil
}
