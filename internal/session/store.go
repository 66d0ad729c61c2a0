package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultIdleTTL is how long an untouched session is kept.
const DefaultIdleTTL = 30 * time.Minute

// Store keeps one Controller per browser session and evicts idle ones.
type Store struct {
	analyzer Analyzer
	renderer ResultRenderer
	opts     Options
	idleTTL  time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Controller
	closed   bool
}

func NewStore(analyzer Analyzer, renderer ResultRenderer, opts Options, idleTTL time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Store{
		analyzer: analyzer,
		renderer: renderer,
		opts:     opts,
		idleTTL:  idleTTL,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Controller),
	}
}

// Get returns an existing session and marks it as seen.
func (s *Store) Get(id string) (*Controller, bool) {
	s.mu.Lock()
	c, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		c.Touch(s.now())
	}
	return c, ok
}

// GetOrCreate returns the session for id, creating a fresh one under a new
// id when id is empty or unknown.
func (s *Store) GetOrCreate(id string) (c *Controller, created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false, ErrClosed
	}
	if c, ok := s.sessions[id]; ok && id != "" {
		c.Touch(s.now())
		return c, false, nil
	}

	id = uuid.NewString()
	c = New(id, s.analyzer, s.renderer, s.opts, s.logger)
	c.Touch(s.now())
	s.sessions[id] = c
	s.logger.Debug("session created", zap.String("session", id))
	return c, true, nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes and removes every session idle since before now-idleTTL.
func (s *Store) Sweep(now time.Time) int {
	var idle []*Controller

	s.mu.Lock()
	for id, c := range s.sessions {
		if now.Sub(c.LastSeen()) > s.idleTTL {
			idle = append(idle, c)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, c := range idle {
		c.Close()
	}
	if len(idle) > 0 {
		s.logger.Info("evicted idle sessions", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// Run sweeps idle sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

// Close closes every session. Later GetOrCreate calls fail with ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	sessions := s.sessions
	s.sessions = make(map[string]*Controller)
	s.mu.Unlock()

	for _, c := range sessions {
		c.Close()
	}
}
