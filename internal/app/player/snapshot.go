package player

import (
	"github.com/osa030/podcastr/internal/app/playback"
	"github.com/osa030/podcastr/internal/domain/episode"
)

// Controls holds the enabled state of each player button.
type Controls struct {
	Shuffle  bool `json:"shuffle"`
	Previous bool `json:"previous"`
	Play     bool `json:"play"`
	Next     bool `json:"next"`
	Loop     bool `json:"loop"`
}

// Snapshot is the view-model of the player panel.
type Snapshot struct {
	Episode       *episode.Episode `json:"episode,omitempty"`
	Status        string           `json:"status"`
	QueueLength   int              `json:"queue_length"`
	CurrentIndex  int              `json:"current_index"`
	IsPlaying     bool             `json:"is_playing"`
	IsLooping     bool             `json:"is_looping"`
	IsShuffled    bool             `json:"is_shuffled"`
	HasNext       bool             `json:"has_next"`
	HasPrevious   bool             `json:"has_previous"`
	Progress      int              `json:"progress"`
	ProgressLabel string           `json:"progress_label"`
	DurationLabel string           `json:"duration_label"`
	Controls      Controls         `json:"controls"`
}

// NewSnapshot builds the panel view-model from a store state.
func NewSnapshot(state playback.State, progress int) Snapshot {
	s := Snapshot{
		Status:        state.Status().String(),
		QueueLength:   len(state.Episodes),
		CurrentIndex:  state.CurrentIndex,
		IsPlaying:     state.IsPlaying,
		IsLooping:     state.IsLooping,
		IsShuffled:    state.IsShuffled,
		HasNext:       state.HasNext,
		HasPrevious:   state.HasPrevious,
		ProgressLabel: episode.FormatDuration(0),
		DurationLabel: episode.FormatDuration(0),
	}

	current, ok := state.Current()
	if !ok {
		return s
	}

	s.Episode = &current
	s.Progress = progress
	s.ProgressLabel = episode.FormatDuration(progress)
	s.DurationLabel = current.DurationAsString()
	s.Controls = Controls{
		Shuffle:  len(state.Episodes) > 1,
		Previous: state.HasPrevious,
		Play:     true,
		Next:     state.HasNext,
		Loop:     true,
	}
	return s
}
