package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/podcastr/internal/app/playback"
)

func TestNewSnapshot_Controls(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(s *playback.Store)
		expected Controls
	}{
		{
			name:     "empty player",
			setup:    func(s *playback.Store) {},
			expected: Controls{},
		},
		{
			name:     "single episode",
			setup:    func(s *playback.Store) { s.Play(eps("a")[0]) },
			expected: Controls{Play: true, Loop: true},
		},
		{
			name: "first of three",
			setup: func(s *playback.Store) {
				_ = s.PlayList(eps("a", "b", "c"), 0)
			},
			expected: Controls{Shuffle: true, Play: true, Next: true, Loop: true},
		},
		{
			name: "middle of three",
			setup: func(s *playback.Store) {
				_ = s.PlayList(eps("a", "b", "c"), 1)
			},
			expected: Controls{Shuffle: true, Previous: true, Play: true, Next: true, Loop: true},
		},
		{
			name: "last of three shuffled",
			setup: func(s *playback.Store) {
				_ = s.PlayList(eps("a", "b", "c"), 2)
				s.ToggleShuffle()
			},
			expected: Controls{Shuffle: true, Previous: true, Play: true, Next: true, Loop: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := playback.NewStore()
			tt.setup(s)
			assert.Equal(t, tt.expected, NewSnapshot(s.State(), 0).Controls)
		})
	}
}

func TestNewSnapshot_EmptyPlayer(t *testing.T) {
	snapshot := NewSnapshot(playback.NewStore().State(), 99)

	assert.Nil(t, snapshot.Episode)
	assert.Equal(t, "idle", snapshot.Status)
	assert.Equal(t, 0, snapshot.Progress)
	assert.Equal(t, "00:00:00", snapshot.ProgressLabel)
	assert.Equal(t, "00:00:00", snapshot.DurationLabel)
}

func TestNewSnapshot_CurrentEpisode(t *testing.T) {
	s := playback.NewStore()
	require.NoError(t, s.PlayList(eps("a", "b"), 1))

	snapshot := NewSnapshot(s.State(), 61)

	require.NotNil(t, snapshot.Episode)
	assert.Equal(t, "b", snapshot.Episode.ID)
	assert.Equal(t, "playing", snapshot.Status)
	assert.Equal(t, 2, snapshot.QueueLength)
	assert.Equal(t, "00:01:01", snapshot.ProgressLabel)
	assert.Equal(t, "00:10:00", snapshot.DurationLabel)
}
