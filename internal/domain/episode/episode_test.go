package episode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEpisode_DurationAsString(t *testing.T) {
	e := Episode{ID: "a-importancia-da-contribuicao-em-open-source", Duration: 3981}
	assert.Equal(t, "01:06:21", e.DurationAsString())
}

func TestEpisode_IsPlayable(t *testing.T) {
	assert.True(t, Episode{URL: "https://cdn.example.com/ep1.m4a"}.IsPlayable())
	assert.False(t, Episode{}.IsPlayable())
}

func TestIDsAndTotalDuration(t *testing.T) {
	episodes := []Episode{
		{ID: "a", Duration: 60},
		{ID: "b", Duration: 120},
		{ID: "c", Duration: 30},
	}

	assert.Equal(t, []string{"a", "b", "c"}, IDs(episodes))
	assert.Equal(t, 210, TotalDuration(episodes))
	assert.Empty(t, IDs(nil))
	assert.Equal(t, 0, TotalDuration(nil))
}
