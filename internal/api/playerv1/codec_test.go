package playerv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodec(t *testing.T) {
	c := JSONCodec{}
	assert.Equal(t, "json", c.Name())

	b, err := c.Marshal(&PlayListRequest{EpisodeIds: []string{"a", "b"}, Index: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"episodeIds":["a","b"],"index":1}`, string(b))

	var req PlayListRequest
	require.NoError(t, c.Unmarshal([]byte(`{"episodeIds":["x"],"index":0}`), &req))
	assert.Equal(t, []string{"x"}, req.EpisodeIds)

	var empty ControlRequest
	assert.NoError(t, c.Unmarshal(nil, &empty))

	assert.Error(t, c.Unmarshal([]byte(`{"index":"one"}`), &req))
}

func TestPlayerState_OmitsMissingEpisode(t *testing.T) {
	b, err := JSONCodec{}.Marshal(&StateResponse{State: &PlayerState{Status: "idle", ProgressLabel: "00:00:00"}})
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"episode"`)
	assert.NotContains(t, string(b), `"moved"`)
}
