package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podcastr/internal/app/notification"
	"github.com/osa030/podcastr/internal/app/playback"
)

// Errors
var (
	ErrInvalidSession = errors.New("invalid session")
)

// Defaults
const (
	DefaultIdleTimeout   = 6 * time.Hour
	DefaultSweepInterval = time.Minute
)

// Manager keeps the live sessions keyed by ID.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	idleTimeout   time.Duration
	sweepInterval time.Duration
	sendTimeout   time.Duration
	storeOpts     []playback.Option
	now           func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithIdleTimeout sets how long a session may stay untouched before the
// sweeper closes it.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.idleTimeout = d
		}
	}
}

// WithSweepInterval sets how often Run looks for idle sessions.
func WithSweepInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.sweepInterval = d
		}
	}
}

// WithSendTimeout sets the per-stream send timeout of each session's
// notification manager.
func WithSendTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.sendTimeout = d
	}
}

// WithStoreOptions passes options to every session's store.
func WithStoreOptions(opts ...playback.Option) Option {
	return func(m *Manager) {
		m.storeOpts = append(m.storeOpts, opts...)
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new session manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions:      make(map[string]*Session),
		idleTimeout:   DefaultIdleTimeout,
		sweepInterval: DefaultSweepInterval,
		sendTimeout:   notification.DefaultSendTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session.
func (m *Manager) Create() *Session {
	s := newSession(uuid.New().String(), m.now(), m.sendTimeout, m.storeOpts)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	zlog.Info().Msgf("session: created: id=%s", s.ID)
	return s
}

// Get returns the session with the given ID and records activity on it.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrInvalidSession, "session %q", id)
	}
	s.Touch(m.now())
	return s, nil
}

// Resolve returns the session with the given ID, creating a new one when the
// ID is empty or unknown. The second result reports whether it was created.
func (m *Manager) Resolve(id string) (*Session, bool) {
	if id != "" {
		if s, err := m.Get(id); err == nil {
			return s, false
		}
	}
	return m.Create(), true
}

// Close ends a session and releases its player and streams.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return errors.Wrapf(ErrInvalidSession, "session %q", id)
	}
	s.close()
	zlog.Info().Msgf("session: closed: id=%s", id)
	return nil
}

// All returns all sessions ordered by creation time.
func (m *Manager) All() []*Session {
	m.mu.RLock()
	result := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Count returns the number of sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes the sessions idle for longer than the idle timeout and
// returns how many were closed. Sessions with a connected stream are kept.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.idleTimeout)

	var expired []string
	m.mu.RLock()
	for id, s := range m.sessions {
		if s.Notifications.SubscriberCount() > 0 {
			continue
		}
		if s.LastSeenAt().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	closed := 0
	for _, id := range expired {
		if err := m.Close(id); err == nil {
			closed++
		}
	}
	if closed > 0 {
		zlog.Info().Msgf("session: swept idle sessions: count=%d", closed)
	}
	return closed
}

// Run sweeps idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Shutdown closes every session.
func (m *Manager) Shutdown() {
	for _, s := range m.All() {
		_ = m.Close(s.ID)
	}
}
