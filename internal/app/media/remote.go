package media

import (
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// ErrStaleEvent is returned for events reported against a source that is no
// longer loaded.
var ErrStaleEvent = errors.New("event for a source that is no longer loaded")

type listenerEntry struct {
	id uint64
	fn Listener
}

// Remote is an Element whose real counterpart lives in a browser.
// Commands are handed to a sink (the session's stream fan-out) and events
// come back through Dispatch.
type Remote struct {
	mu sync.RWMutex

	src      string
	loop     bool
	paused   bool
	position int

	listeners map[EventKind][]listenerEntry
	nextID    uint64

	sink func(Command)
}

// Ensure Remote implements Element.
var _ Element = (*Remote)(nil)

// NewRemote creates a remote element that forwards commands to sink.
func NewRemote(sink func(Command)) *Remote {
	if sink == nil {
		sink = func(Command) {}
	}
	return &Remote{
		paused:    true,
		listeners: make(map[EventKind][]listenerEntry),
		sink:      sink,
	}
}

// Load points the element at src.
func (r *Remote) Load(src string, autoplay bool) {
	r.mu.Lock()
	r.src = src
	r.position = 0
	r.paused = !autoplay
	cmd := Command{Type: CommandLoad, Src: src, Autoplay: autoplay, Loop: r.loop}
	r.mu.Unlock()

	r.sink(cmd)
}

// Unload detaches the current source.
func (r *Remote) Unload() {
	r.mu.Lock()
	r.src = ""
	r.position = 0
	r.paused = true
	cmd := Command{Type: CommandUnload, Loop: r.loop}
	r.mu.Unlock()

	r.sink(cmd)
}

// Play resumes playback.
func (r *Remote) Play() {
	r.mu.Lock()
	if r.src == "" {
		r.mu.Unlock()
		return
	}
	r.paused = false
	cmd := Command{Type: CommandPlay, Src: r.src, Loop: r.loop, Position: r.position}
	r.mu.Unlock()

	r.sink(cmd)
}

// Pause pauses playback.
func (r *Remote) Pause() {
	r.mu.Lock()
	if r.src == "" {
		r.mu.Unlock()
		return
	}
	r.paused = true
	cmd := Command{Type: CommandPause, Src: r.src, Loop: r.loop, Position: r.position}
	r.mu.Unlock()

	r.sink(cmd)
}

// SetLoop sets the loop attribute.
func (r *Remote) SetLoop(loop bool) {
	r.mu.Lock()
	r.loop = loop
	cmd := Command{Type: CommandLoop, Src: r.src, Loop: loop, Position: r.position}
	r.mu.Unlock()

	r.sink(cmd)
}

// Seek moves the playback position.
func (r *Remote) Seek(position int) {
	if position < 0 {
		position = 0
	}
	r.mu.Lock()
	if r.src == "" {
		r.mu.Unlock()
		return
	}
	r.position = position
	cmd := Command{Type: CommandSeek, Src: r.src, Loop: r.loop, Position: position}
	r.mu.Unlock()

	r.sink(cmd)
}

// On registers a listener for kind.
func (r *Remote) On(kind EventKind, fn Listener) func() {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.listeners[kind] = append(r.listeners[kind], listenerEntry{id: id, fn: fn})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			entries := r.listeners[kind]
			for i, e := range entries {
				if e.id == id {
					r.listeners[kind] = append(entries[:i:i], entries[i+1:]...)
					return
				}
			}
		})
	}
}

// ListenerCount returns the number of listeners registered for kind.
func (r *Remote) ListenerCount(kind EventKind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners[kind])
}

// Dispatch delivers an event reported by the browser to the listeners.
// Events carrying a source other than the loaded one are dropped.
func (r *Remote) Dispatch(e Event) error {
	r.mu.Lock()
	if e.Src != "" && e.Src != r.src {
		current := r.src
		r.mu.Unlock()
		zlog.Debug().Msgf("media: dropping stale %s event: src=%s current=%s", e.Kind, e.Src, current)
		return ErrStaleEvent
	}
	if e.CurrentTime < 0 {
		e.CurrentTime = 0
	}

	switch e.Kind {
	case EventTimeUpdate:
		r.position = e.CurrentTime
	case EventPlay:
		r.paused = false
	case EventPause:
		r.paused = true
	case EventEnded:
		r.position = e.CurrentTime
		if !r.loop {
			r.paused = true
		}
	case EventLoadedMetadata:
		r.position = 0
	}
	if e.Src == "" {
		e.Src = r.src
	}

	entries := make([]listenerEntry, len(r.listeners[e.Kind]))
	copy(entries, r.listeners[e.Kind])
	r.mu.Unlock()

	for _, entry := range entries {
		entry.fn(e)
	}
	return nil
}

// Snapshot returns the last known element state.
func (r *Remote) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		Src:      r.src,
		Loop:     r.loop,
		Paused:   r.paused,
		Position: r.position,
	}
}
