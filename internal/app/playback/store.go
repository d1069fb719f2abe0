package playback

import (
	"math/rand/v2"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podcastr/internal/domain/episode"
)

// Errors
var (
	ErrIndexOutOfRange = errors.New("episode index out of range")
)

// Listener receives store events.
type Listener func(Event)

type subscriber struct {
	id uint64
	fn Listener
}

// Store holds the playback queue of one session.
//
// The active index is always valid for a non-empty queue and zero for an
// empty one. Listeners run after the store lock is released, so they may
// call back into the store.
type Store struct {
	mu sync.RWMutex

	episodes []episode.Episode
	index    int
	playing  bool
	looping  bool
	shuffled bool
	version  uint64

	// intn returns a uniform integer in [0, n).
	intn func(n int) int

	subMu  sync.Mutex
	subs   []subscriber
	nextID uint64
}

// Option configures a Store.
type Option func(*Store)

// WithRandom overrides the random source used by shuffle navigation.
func WithRandom(intn func(n int) int) Option {
	return func(s *Store) {
		s.intn = intn
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		episodes: make([]episode.Episode, 0),
		intn:     rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a listener and returns the function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Play replaces the queue with a single episode and starts playing it.
func (s *Store) Play(e episode.Episode) {
	s.update(func() []EventType {
		s.episodes = []episode.Episode{e}
		s.index = 0
		return append([]EventType{EventEpisodeChanged}, s.setPlayingLocked(true)...)
	})
}

// PlayList replaces the queue and starts playing at index.
// An index outside the queue is rejected and leaves the store untouched.
func (s *Store) PlayList(episodes []episode.Episode, index int) error {
	if index < 0 || index >= len(episodes) {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d, queue length %d", index, len(episodes))
	}

	queue := make([]episode.Episode, len(episodes))
	copy(queue, episodes)

	s.update(func() []EventType {
		s.episodes = queue
		s.index = index
		return append([]EventType{EventEpisodeChanged}, s.setPlayingLocked(true)...)
	})
	return nil
}

// SetPlaying sets the playing flag.
func (s *Store) SetPlaying(playing bool) {
	s.update(func() []EventType {
		return s.setPlayingLocked(playing)
	})
}

// TogglePlay inverts the playing flag.
func (s *Store) TogglePlay() {
	s.update(func() []EventType {
		return s.setPlayingLocked(!s.playing)
	})
}

// ToggleLoop inverts the looping flag.
func (s *Store) ToggleLoop() {
	s.update(func() []EventType {
		s.looping = !s.looping
		return []EventType{EventLoopChanged}
	})
}

// ToggleShuffle inverts the shuffle flag.
func (s *Store) ToggleShuffle() {
	s.update(func() []EventType {
		s.shuffled = !s.shuffled
		return []EventType{EventShuffleChanged}
	})
}

// PlayNext advances the queue position and reports whether it moved.
func (s *Store) PlayNext() bool {
	var moved bool
	s.update(func() []EventType {
		next, ok := s.nextIndexLocked()
		if !ok {
			return nil
		}
		s.index = next
		moved = true
		return []EventType{EventEpisodeChanged}
	})
	return moved
}

// PlayPrevious retreats the queue position and reports whether it moved.
func (s *Store) PlayPrevious() bool {
	var moved bool
	s.update(func() []EventType {
		prev, ok := s.previousIndexLocked()
		if !ok {
			return nil
		}
		s.index = prev
		moved = true
		return []EventType{EventEpisodeChanged}
	})
	return moved
}

// ClearPlayerState empties the queue. The playing flag is left as is.
func (s *Store) ClearPlayerState() {
	s.update(func() []EventType {
		s.episodes = make([]episode.Episode, 0)
		s.index = 0
		return []EventType{EventQueueCleared}
	})
}

// HasNext reports whether PlayNext can move.
func (s *Store) HasNext() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasNextLocked()
}

// HasPrevious reports whether PlayPrevious can move.
func (s *Store) HasPrevious() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasPreviousLocked()
}

// State returns a snapshot of the store.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

// update runs fn under the write lock, then publishes the returned events.
// Events of concurrent updates may reach listeners out of order; the state
// version tells them apart.
func (s *Store) update(fn func() []EventType) {
	s.mu.Lock()
	types := fn()
	if len(types) > 0 {
		s.version++
	}
	state := s.stateLocked()
	s.mu.Unlock()

	for _, t := range types {
		zlog.Debug().Msgf("playback: %s: version=%d index=%d queue=%d playing=%t", t, state.Version, state.CurrentIndex, len(state.Episodes), state.IsPlaying)
		s.publish(Event{Type: t, State: state})
	}
}

func (s *Store) publish(e Event) {
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(e)
	}
}

func (s *Store) setPlayingLocked(playing bool) []EventType {
	if s.playing == playing {
		return nil
	}
	s.playing = playing
	return []EventType{EventPlayStateChanged}
}

func (s *Store) hasNextLocked() bool {
	return s.shuffled || s.index+1 < len(s.episodes)
}

func (s *Store) hasPreviousLocked() bool {
	return s.shuffled || s.index > 0
}

func (s *Store) nextIndexLocked() (int, bool) {
	if s.shuffled {
		return s.randomIndexLocked()
	}
	if !s.hasNextLocked() {
		return 0, false
	}
	return s.index + 1, true
}

func (s *Store) previousIndexLocked() (int, bool) {
	if s.shuffled {
		return s.randomIndexLocked()
	}
	if s.index <= 0 {
		return 0, false
	}
	return s.index - 1, true
}

// randomIndexLocked picks uniformly among the indices other than the current
// one. It fails when the queue offers no alternative.
func (s *Store) randomIndexLocked() (int, bool) {
	n := len(s.episodes)
	if n < 2 {
		return 0, false
	}
	pick := s.intn(n - 1)
	if pick >= s.index {
		pick++
	}
	return pick, true
}

func (s *Store) stateLocked() State {
	episodes := make([]episode.Episode, len(s.episodes))
	copy(episodes, s.episodes)
	return State{
		Version:      s.version,
		Episodes:     episodes,
		CurrentIndex: s.index,
		IsPlaying:    s.playing,
		IsLooping:    s.looping,
		IsShuffled:   s.shuffled,
		HasNext:      s.hasNextLocked(),
		HasPrevious:  s.hasPreviousLocked(),
	}
}
