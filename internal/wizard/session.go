package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/felixbrock/logoassist/internal/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Session is one browser (or terminal) run of the wizard. The credential lives
// in Renderer and dies with the session.
type Session struct {
	Id         string
	Controller *Controller
	Renderer   *render.Client
	lastSeen   time.Time
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	backend  render.Backend
	limiter  *rate.Limiter
	idle     time.Duration
	now      func() time.Time
	log      *zap.Logger
}

func NewStore(backend render.Backend, limiter *rate.Limiter, idle time.Duration, log *zap.Logger) *Store {
	return &Store{
		sessions: map[string]*Session{},
		backend:  backend,
		limiter:  limiter,
		idle:     idle,
		now:      time.Now,
		log:      log,
	}
}

// NewSession builds a session outside any store, for single-user front ends.
func NewSession(backend render.Backend, limiter *rate.Limiter, log *zap.Logger) *Session {
	renderer := render.NewClient(backend, limiter)
	return &Session{
		Id:         uuid.NewString(),
		Controller: NewController(renderer, log),
		Renderer:   renderer,
	}
}

func (s *Store) Create() *Session {
	session := NewSession(s.backend, s.limiter, s.log)

	s.mu.Lock()
	session.lastSeen = s.now()
	s.sessions[session.Id] = session
	s.mu.Unlock()

	s.log.Debug("session created", zap.String("session", session.Id))
	return session
}

// Get returns a live session and marks it as used.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	session.lastSeen = s.now()
	return session, true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

func (s *Store) End(id string) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		session.Close()
	}
}

// Sweep ends sessions idle for longer than the configured timeout.
func (s *Store) Sweep() int {
	s.mu.Lock()
	cutoff := s.now().Add(-s.idle)
	var expired []*Session
	for id, session := range s.sessions {
		if session.lastSeen.Before(cutoff) {
			expired = append(expired, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	if len(expired) > 0 {
		s.log.Info("expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Close cancels outstanding renders and forgets the credential.
func (s *Session) Close() {
	s.Controller.Close()
	s.Renderer.ClearCredential()
}
