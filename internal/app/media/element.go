// Package media provides the media element abstraction bound by the player.
package media

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnknownEvent is returned when an event name cannot be parsed.
var ErrUnknownEvent = errors.New("unknown media event")

// EventKind represents a media element event.
type EventKind int

const (
	EventTimeUpdate     EventKind = iota // Playback position advanced
	EventEnded                           // Media reached its natural end
	EventPlay                            // Playback started
	EventPause                           // Playback paused
	EventLoadedMetadata                  // Metadata of the source is available
)

// String returns the DOM name of the event.
func (k EventKind) String() string {
	switch k {
	case EventTimeUpdate:
		return "timeupdate"
	case EventEnded:
		return "ended"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventLoadedMetadata:
		return "loadedmetadata"
	default:
		return "unknown"
	}
}

// ParseEventKind parses a DOM event name.
func ParseEventKind(name string) (EventKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "timeupdate":
		return EventTimeUpdate, nil
	case "ended":
		return EventEnded, nil
	case "play":
		return EventPlay, nil
	case "pause":
		return EventPause, nil
	case "loadedmetadata":
		return EventLoadedMetadata, nil
	default:
		return 0, errors.Wrapf(ErrUnknownEvent, "%q", name)
	}
}

// Event is an event emitted by a media element.
type Event struct {
	Kind        EventKind
	CurrentTime int    // Playback position in whole seconds
	Src         string // Source the event belongs to (empty if unknown)
}

// Listener handles media element events.
type Listener func(Event)

// Element is a single media element, such as the browser's audio tag.
type Element interface {
	// Load points the element at a new source and rewinds it.
	Load(src string, autoplay bool)
	// Unload detaches the current source.
	Unload()
	// Play resumes playback.
	Play()
	// Pause pauses playback.
	Pause()
	// SetLoop sets the loop attribute.
	SetLoop(loop bool)
	// Seek moves the playback position.
	Seek(position int)
	// On registers a listener for one event kind and returns the function
	// removing it. Calling the returned function more than once is safe.
	On(kind EventKind, fn Listener) (off func())
}
