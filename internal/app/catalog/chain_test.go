package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/podcastr/internal/domain/episode"
	"github.com/osa030/podcastr/internal/infra/config"
	"github.com/osa030/podcastr/internal/infra/spotify"
)

func TestSourceChain_ListEpisodes(t *testing.T) {
	broken := &fakeSource{name: "broken", listErr: errors.New("timeout")}
	working := &fakeSource{name: "working", episodes: playable("a")}
	unused := &fakeSource{name: "unused", episodes: playable("z")}

	chain := NewSourceChain(broken, working, unused)
	eps, err := chain.ListEpisodes(context.Background(), 12)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, episode.IDs(eps))
	assert.Equal(t, int32(0), unused.lists.Load())
	assert.Equal(t, "chain(broken,working,unused)", chain.Name())
}

func TestSourceChain_AllFail(t *testing.T) {
	chain := NewSourceChain(
		&fakeSource{name: "one", listErr: errors.New("first")},
		&fakeSource{name: "two", listErr: errors.New("second")},
	)
	_, err := chain.ListEpisodes(context.Background(), 12)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")

	_, err = NewSourceChain().ListEpisodes(context.Background(), 12)
	assert.Error(t, err)
}

func TestSourceChain_GetEpisode(t *testing.T) {
	rest := &fakeSource{name: "rest", episodes: playable("a")}
	show := &fakeSource{name: "show", episodes: playable("b")}
	chain := NewSourceChain(rest, show)
	ctx := context.Background()

	e, err := chain.GetEpisode(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", e.ID)

	_, err = chain.GetEpisode(ctx, "c")
	assert.ErrorIs(t, err, ErrNotFound)

	show.set(nil, errors.New("unavailable"))
	_, err = chain.GetEpisode(ctx, "c")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound), "a failing source hides whether the episode exists")
}

type fakeSpotify struct {
	shows    int
	episodes []episode.Episode
	getErr   error
}

func (f *fakeSpotify) GetShow(ctx context.Context, ref string) (spotify.Show, error) {
	f.shows++
	return spotify.Show{ID: "show1", Name: "Faladev", Publisher: "Rocketseat"}, nil
}

func (f *fakeSpotify) GetShowEpisodes(ctx context.Context, show spotify.Show, limit int) ([]episode.Episode, error) {
	return f.episodes, nil
}

func (f *fakeSpotify) GetEpisode(ctx context.Context, ref string) (episode.Episode, error) {
	if f.getErr != nil {
		return episode.Episode{}, f.getErr
	}
	return f.episodes[0], nil
}

func TestSpotifySource(t *testing.T) {
	client := &fakeSpotify{episodes: playable("ep1")}
	src, err := NewSpotifySource("", client, map[string]any{"show": "spotify:show:show1"})
	require.NoError(t, err)
	assert.Equal(t, "spotify", src.Name())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		eps, err := src.ListEpisodes(ctx, 12)
		require.NoError(t, err)
		assert.Len(t, eps, 1)
	}
	assert.Equal(t, 1, client.shows, "the show is resolved once")

	client.getErr = errors.Wrap(spotify.ErrNotFound, "Non existing id")
	_, err = src.GetEpisode(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewSpotifySource_Validation(t *testing.T) {
	_, err := NewSpotifySource("", &fakeSpotify{}, map[string]any{})
	assert.Error(t, err)

	_, err = NewSpotifySource("", nil, map[string]any{"show": "x"})
	assert.Error(t, err)
}

func TestNewRESTSource_Validation(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		wantErr  bool
	}{
		{"valid", map[string]any{"base_url": "http://localhost:3333"}, false},
		{"timeout as string", map[string]any{"base_url": "http://localhost:3333", "timeout_seconds": "5"}, false},
		{"missing url", map[string]any{}, true},
		{"invalid url", map[string]any{"base_url": "not a url"}, true},
		{"timeout too large", map[string]any{"base_url": "http://localhost:3333", "timeout_seconds": 600}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRESTSource("", tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewSourceChainFromConfig(t *testing.T) {
	cfg := &config.Config{Catalog: config.CatalogConfig{Sources: []config.SourceConfig{
		{Type: config.SourceTypeSpotify, Name: "faladev", Settings: map[string]any{"show": "spotify:show:show1"}},
		{Type: config.SourceTypeREST, Settings: map[string]any{"base_url": "http://localhost:3333"}},
	}}}

	chain, err := NewSourceChainFromConfig(cfg, &fakeSpotify{})
	require.NoError(t, err)
	require.Len(t, chain.Sources(), 2)
	assert.Equal(t, "faladev", chain.Sources()[0].Name())
	assert.Equal(t, "rest", chain.Sources()[1].Name())

	_, err = NewSourceChainFromConfig(cfg, nil)
	assert.Error(t, err, "spotify source needs a client")

	_, err = NewSourceChainFromConfig(&config.Config{}, nil)
	assert.Error(t, err)

	_, err = NewSourceChainFromConfig(&config.Config{Catalog: config.CatalogConfig{
		Sources: []config.SourceConfig{{Type: "rss"}},
	}}, nil)
	assert.ErrorContains(t, err, "unsupported source type")
}

type flakySource struct {
	fakeSource
	failures int
}

func (s *flakySource) ListEpisodes(ctx context.Context, limit int) ([]episode.Episode, error) {
	if int(s.lists.Add(1)) <= s.failures {
		return nil, errors.New("not ready")
	}
	return s.episodes, nil
}

func TestValidateSources(t *testing.T) {
	opts := ValidateOptions{MaxRetries: 3, BaseDelay: time.Millisecond}
	ctx := context.Background()

	flaky := &flakySource{fakeSource: fakeSource{name: "flaky", episodes: playable("a")}, failures: 2}
	require.NoError(t, ValidateSources(ctx, []Source{flaky}, opts))
	assert.Equal(t, int32(3), flaky.lists.Load())

	down := &fakeSource{name: "down", listErr: errors.New("refused")}
	err := ValidateSources(ctx, []Source{flaky, down}, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Equal(t, int32(3), down.lists.Load())
}

func TestValidateSources_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	down := &fakeSource{name: "down", listErr: errors.New("refused")}
	err := ValidateSources(ctx, []Source{down}, ValidateOptions{MaxRetries: 5, BaseDelay: time.Hour})
	require.Error(t, err)
	assert.Equal(t, int32(1), down.lists.Load())
}
