// Package episode provides the Episode domain entity.
package episode

import "time"

// Episode represents a single podcast episode.
// Values are built once from an episode source and never mutated afterwards.
type Episode struct {
	ID          string    // Opaque identifier assigned by the source
	Title       string    // Episode title
	Members     string    // Free-text credits
	Thumbnail   string    // Cover image URL
	URL         string    // Playable media URL
	Duration    int       // Duration in seconds
	PublishedAt time.Time // Publication time
	Description string    // HTML description (detail endpoint only)
}

// DurationAsString returns the duration formatted as HH:MM:SS.
func (e Episode) DurationAsString() string {
	return FormatDuration(e.Duration)
}

// IsPlayable reports whether the episode has a media URL to load.
func (e Episode) IsPlayable() bool {
	return e.URL != ""
}

// IDs returns the identifiers of the given episodes in order.
func IDs(episodes []Episode) []string {
	ids := make([]string, len(episodes))
	for i, e := range episodes {
		ids[i] = e.ID
	}
	return ids
}

// TotalDuration returns the summed duration of the episodes in seconds.
func TotalDuration(episodes []Episode) int {
	var total int
	for _, e := range episodes {
		total += e.Duration
	}
	return total
}
