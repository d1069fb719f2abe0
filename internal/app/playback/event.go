package playback

// EventType represents a store change.
type EventType int

const (
	EventEpisodeChanged   EventType = iota // Queue replaced or active index moved
	EventPlayStateChanged                  // Playing flag flipped
	EventLoopChanged                       // Looping flag flipped
	EventShuffleChanged                    // Shuffle flag flipped
	EventQueueCleared                      // Queue emptied
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventEpisodeChanged:
		return "episode_changed"
	case EventPlayStateChanged:
		return "play_state_changed"
	case EventLoopChanged:
		return "loop_changed"
	case EventShuffleChanged:
		return "shuffle_changed"
	case EventQueueCleared:
		return "queue_cleared"
	default:
		return "unknown"
	}
}

// Event represents a store change together with the state right after it.
type Event struct {
	Type  EventType
	State State
}
