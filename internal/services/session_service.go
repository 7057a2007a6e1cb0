package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"drebuilder/internal/dre"
	apperrors "drebuilder/internal/errors"
	"drebuilder/internal/logger"
	"drebuilder/internal/uuid"
)

type sessionEntry struct {
	mu         sync.Mutex
	budget     *dre.Budget
	createdAt  time.Time
	lastActive atomic.Int64
}

func (e *sessionEntry) touch(now time.Time) {
	e.lastActive.Store(now.UnixNano())
}

func (e *sessionEntry) snapshot(id string) *Session {
	return &Session{
		ID:           id,
		CreatedAt:    e.createdAt,
		LastActiveAt: time.Unix(0, e.lastActive.Load()).UTC(),
	}
}

// sessionService keeps every session's budget in memory. Access to a single
// budget is serialized by that session's mutex.
type sessionService struct {
	mu          sync.RWMutex
	sessions    map[string]*sessionEntry
	activity    ActivityServicer
	idleTimeout time.Duration
	now         func() time.Time
}

// NewSessionService creates a new SessionServicer. Notices raised by a
// session's budget are forwarded to activity, which may be nil.
func NewSessionService(activity ActivityServicer, idleTimeout time.Duration) SessionServicer {
	return &sessionService{
		sessions:    make(map[string]*sessionEntry),
		activity:    activity,
		idleTimeout: idleTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateSession starts a session with an empty budget.
func (s *sessionService) CreateSession() (*Session, error) {
	id := uuid.New()
	now := s.now()

	entry := &sessionEntry{createdAt: now}
	entry.touch(now)
	entry.budget = dre.New(dre.WithNotifier(s.notifierFor(id)))

	s.mu.Lock()
	s.sessions[id] = entry
	s.mu.Unlock()

	logger.Get().Infow("session created", "session_id", id)
	return entry.snapshot(id), nil
}

// GetSession returns the session's metadata.
func (s *sessionService) GetSession(sessionID string) (*Session, error) {
	entry, ok := s.lookup(sessionID)
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return entry.snapshot(sessionID), nil
}

// EndSession discards the session and its budget.
func (s *sessionService) EndSession(sessionID string) error {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return apperrors.ErrSessionNotFound
	}
	logger.Get().Infow("session ended", "session_id", sessionID)
	return nil
}

// WithBudget runs fn while holding the session's lock. fn must not retain the
// budget or any of its items after it returns.
func (s *sessionService) WithBudget(sessionID string, fn func(b *dre.Budget) error) error {
	entry, ok := s.lookup(sessionID)
	if !ok {
		return apperrors.ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.touch(s.now())
	return fn(entry.budget)
}

// Sweep discards sessions idle since before now minus the idle timeout and
// returns how many were removed.
func (s *sessionService) Sweep(now time.Time) int {
	if s.idleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-s.idleTimeout).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.sessions {
		if entry.lastActive.Load() < cutoff {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *sessionService) lookup(sessionID string) (*sessionEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sessionID]
	return entry, ok
}

func (s *sessionService) notifierFor(sessionID string) dre.Notifier {
	log := logger.Named("budget")
	return dre.NotifierFunc(func(n dre.Notice) {
		log.Debugw("budget notice",
			"session_id", sessionID,
			"kind", n.Kind,
			"title", n.Title,
		)
		if s.activity != nil {
			s.activity.Record(sessionID, n)
		}
	})
}

// RunSweeper calls Sweep every interval until ctx is done.
func RunSweeper(ctx context.Context, sessions SessionServicer, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := sessions.Sweep(now.UTC()); n > 0 {
				logger.Get().Infow("idle sessions discarded", "count", n)
			}
		}
	}
}
