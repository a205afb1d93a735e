package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	jobdomain "github.com/honeycarbs/job-finder/internal/domain/job"
	"github.com/honeycarbs/job-finder/pkg/logging"
)

// janitorSpec is how often expired sessions are swept
const janitorSpec = "@every 1m"

var _ jobdomain.SessionStore = (*SessionStore)(nil)

type entry struct {
	state     jobdomain.State
	expiresAt time.Time
}

// SessionStore keeps session state in process memory. Entries expire ttl
// after their last save.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time

	cron   *cron.Cron
	logger *logging.Logger
}

// NewSessionStore builds a store; call Start to run the expiry janitor
func NewSessionStore(ttl time.Duration, logger *logging.Logger) (*SessionStore, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session: ttl must be positive, got %s", ttl)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &SessionStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		cron:    cron.New(),
		logger:  logger,
	}, nil
}

// Start schedules the janitor
func (s *SessionStore) Start() error {
	if _, err := s.cron.AddFunc(janitorSpec, func() {
		if n := s.Sweep(); n > 0 {
			s.logger.Debug("expired sessions removed", "count", n)
		}
	}); err != nil {
		return fmt.Errorf("session: schedule janitor: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the janitor and waits for a running sweep to finish
func (s *SessionStore) Stop() {
	<-s.cron.Stop().Done()
}

// Load returns the state saved under id
func (s *SessionStore) Load(_ context.Context, id string) (jobdomain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.live(id)
	if !ok {
		return jobdomain.State{}, jobdomain.ErrSessionNotFound
	}
	return st, nil
}

// Update applies fn under the store lock and refreshes the expiry
func (s *SessionStore) Update(_ context.Context, id string, fn func(jobdomain.State, bool) jobdomain.State) (jobdomain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.live(id)
	next := fn(st, ok)
	s.entries[id] = entry{state: next, expiresAt: s.now().Add(s.ttl)}
	return next, nil
}

// live must be called with mu held
func (s *SessionStore) live(id string) (jobdomain.State, bool) {
	e, ok := s.entries[id]
	if !ok || !s.now().Before(e.expiresAt) {
		return jobdomain.State{}, false
	}
	return e.state, true
}

// Sweep removes expired entries and reports how many went
func (s *SessionStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions, expired or not
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
