// Package player binds a media element to a playback store.
package player

import (
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podcastr/internal/app/media"
	"github.com/osa030/podcastr/internal/app/playback"
)

// Errors
var (
	ErrNoEpisode = errors.New("no episode loaded")
)

// Player reflects store state into one media element and feeds element
// events back into the store.
type Player struct {
	mu sync.Mutex
	// bindMu serializes everything that drives the element from store state.
	bindMu sync.Mutex

	store   *playback.Store
	element media.Element

	progress int
	src      string

	// Last store version and flags reflected into the element. Guarded by bindMu.
	applied uint64
	playing bool
	looping bool

	// offEnded removes the completion listener of the bound episode.
	offEnded func()
	// offs removes the subscriptions held for the player's lifetime.
	offs []func()

	onChange func(Snapshot)
	closed   bool
}

// Option configures a Player.
type Option func(*Player)

// WithChangeHandler registers a callback invoked with a fresh snapshot after
// every store change and seek.
func WithChangeHandler(fn func(Snapshot)) Option {
	return func(p *Player) {
		p.onChange = fn
	}
}

// New creates a player and binds it to store and element.
// The element must not be bound by another player.
func New(store *playback.Store, element media.Element, opts ...Option) *Player {
	p := &Player{
		store:   store,
		element: element,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.offs = append(p.offs,
		store.Subscribe(p.handleStoreEvent),
		element.On(media.EventTimeUpdate, p.handleTimeUpdate),
		element.On(media.EventPlay, p.handlePlay),
	)

	// Adopt whatever the store already holds.
	p.bindMu.Lock()
	state := store.State()
	p.applied = state.Version
	p.reconcile(state, false)
	p.bindMu.Unlock()
	return p
}

// Close releases every subscription held by the player.
func (p *Player) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	offs := append(p.offs, p.offEnded)
	p.offs = nil
	p.offEnded = nil
	p.mu.Unlock()

	for _, off := range offs {
		if off != nil {
			off()
		}
	}
}

// Store returns the bound store.
func (p *Player) Store() *playback.Store {
	return p.store
}

// Progress returns the elapsed seconds of the current episode.
func (p *Player) Progress() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

// Seek moves the playback position without touching the playing flag.
// The position is clamped to the episode duration.
func (p *Player) Seek(position int) error {
	current, ok := p.store.State().Current()
	if !ok {
		return ErrNoEpisode
	}
	if position < 0 {
		position = 0
	}
	if current.Duration > 0 && position > current.Duration {
		position = current.Duration
	}

	p.bindMu.Lock()
	defer p.bindMu.Unlock()

	p.element.Seek(position)

	p.mu.Lock()
	p.progress = position
	p.mu.Unlock()

	p.notify()
	return nil
}

// Snapshot returns the view-model of the player panel.
func (p *Player) Snapshot() Snapshot {
	return NewSnapshot(p.store.State(), p.Progress())
}

func (p *Player) handleStoreEvent(e playback.Event) {
	p.bindMu.Lock()
	defer p.bindMu.Unlock()

	if e.State.Version < p.applied {
		zlog.Debug().Msgf("player: skipping stale %s event: version=%d applied=%d", e.Type, e.State.Version, p.applied)
		return
	}
	p.applied = e.State.Version
	p.reconcile(e.State, e.Type == playback.EventEpisodeChanged)
	p.notify()
}

// reconcile brings the element in line with state, diffing against what was
// last reflected so a skipped stale event leaves nothing behind. reload
// forces a fresh load even when the source did not change.
func (p *Player) reconcile(state playback.State, reload bool) {
	current, ok := state.Current()
	if !ok {
		p.unbindEpisode()
		p.playing = state.IsPlaying
		if state.IsLooping != p.looping {
			p.looping = state.IsLooping
			p.element.SetLoop(state.IsLooping)
		}
		return
	}

	p.mu.Lock()
	src := p.src
	p.mu.Unlock()

	if reload || src != current.URL {
		p.bindEpisode(state)
		p.looping = state.IsLooping
		p.playing = state.IsPlaying
		return
	}
	if state.IsLooping != p.looping {
		p.looping = state.IsLooping
		p.element.SetLoop(state.IsLooping)
	}
	if state.IsPlaying != p.playing {
		p.playing = state.IsPlaying
		if state.IsPlaying {
			p.element.Play()
		} else {
			p.element.Pause()
		}
	}
}

// bindEpisode points the element at the active episode and replaces the
// completion listener with one scoped to that episode.
func (p *Player) bindEpisode(state playback.State) {
	current, ok := state.Current()
	if !ok {
		p.unbindEpisode()
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	prevOff := p.offEnded
	p.offEnded = nil
	p.progress = 0
	p.src = current.URL
	p.mu.Unlock()

	if prevOff != nil {
		prevOff()
	}

	zlog.Debug().Msgf("player: binding episode: id=%s src=%s", current.ID, current.URL)
	p.element.SetLoop(state.IsLooping)
	p.element.Load(current.URL, true)
	off := p.element.On(media.EventEnded, p.handleEnded)

	p.mu.Lock()
	if p.closed || p.src != current.URL || p.offEnded != nil {
		// Superseded while subscribing.
		p.mu.Unlock()
		off()
		return
	}
	p.offEnded = off
	p.mu.Unlock()
}

func (p *Player) unbindEpisode() {
	p.mu.Lock()
	off := p.offEnded
	p.offEnded = nil
	p.progress = 0
	hadSource := p.src != ""
	p.src = ""
	p.mu.Unlock()

	if off != nil {
		off()
	}
	if hadSource {
		p.element.Unload()
	}
}

// handleEnded applies the end-of-track policy: advance when possible,
// otherwise empty the queue. A looping episode restarts instead.
func (p *Player) handleEnded(e media.Event) {
	state := p.store.State()
	if state.IsLooping {
		p.bindMu.Lock()
		p.element.Seek(0)
		p.element.Play()
		p.bindMu.Unlock()
		return
	}
	// Under shuffle a single-episode queue reports a next episode that
	// PlayNext cannot reach.
	if p.store.PlayNext() {
		return
	}
	p.store.ClearPlayerState()
}

func (p *Player) handleTimeUpdate(e media.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e.Src != "" && e.Src != p.src {
		return
	}
	p.progress = e.CurrentTime
}

func (p *Player) handlePlay(media.Event) {
	p.store.SetPlaying(true)
}

func (p *Player) notify() {
	if p.onChange == nil {
		return
	}
	p.onChange(p.Snapshot())
}
