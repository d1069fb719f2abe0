// Package playback provides the per-session playback state store.
package playback

import "github.com/osa030/podcastr/internal/domain/episode"

// Status represents the coarse playback status derived from the store.
type Status int

const (
	StatusIdle    Status = iota // Queue is empty
	StatusPlaying               // An episode is selected and playing
	StatusPaused                // An episode is selected and paused
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the store.
type State struct {
	// Version increases by one with every change to the store.
	Version uint64

	Episodes     []episode.Episode
	CurrentIndex int
	IsPlaying    bool
	IsLooping    bool
	IsShuffled   bool
	HasNext      bool
	HasPrevious  bool
}

// Current returns the active episode, if any.
func (s State) Current() (episode.Episode, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Episodes) {
		return episode.Episode{}, false
	}
	return s.Episodes[s.CurrentIndex], true
}

// Status returns the coarse playback status.
func (s State) Status() Status {
	if len(s.Episodes) == 0 {
		return StatusIdle
	}
	if s.IsPlaying {
		return StatusPlaying
	}
	return StatusPaused
}
