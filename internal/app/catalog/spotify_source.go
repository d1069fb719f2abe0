package catalog

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podcastr/internal/domain/episode"
	"github.com/osa030/podcastr/internal/infra/spotify"
)

// SpotifySourceConfig represents the settings of a spotify source.
type SpotifySourceConfig struct {
	Show string `yaml:"show" mapstructure:"show" validate:"required"`
}

// SpotifyClient defines the Spotify operations a spotify source needs.
type SpotifyClient interface {
	GetShow(ctx context.Context, showRef string) (spotify.Show, error)
	GetShowEpisodes(ctx context.Context, show spotify.Show, limit int) ([]episode.Episode, error)
	GetEpisode(ctx context.Context, episodeRef string) (episode.Episode, error)
}

// SpotifySource reads the episodes of one Spotify show.
// The show is resolved on first use and kept.
type SpotifySource struct {
	name    string
	spotify SpotifyClient
	config  *SpotifySourceConfig

	mu   sync.Mutex
	show *spotify.Show
}

// NewSpotifySource creates a spotify source from its settings.
func NewSpotifySource(name string, client SpotifyClient, settings map[string]any) (*SpotifySource, error) {
	if client == nil {
		return nil, errors.New("spotify client is required")
	}

	var config SpotifySourceConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	zlog.Debug().Msgf("spotify source config: %+v", config)
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	if name == "" {
		name = "spotify"
	}
	return &SpotifySource{name: name, spotify: client, config: &config}, nil
}

func (s *SpotifySource) Name() string {
	return s.name
}

func (s *SpotifySource) resolveShow(ctx context.Context) (spotify.Show, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.show != nil {
		return *s.show, nil
	}
	show, err := s.spotify.GetShow(ctx, s.config.Show)
	if err != nil {
		return spotify.Show{}, errors.Wrapf(err, "%s: failed to resolve show %s", s.name, s.config.Show)
	}
	zlog.Info().Msgf("spotify source resolved show: name=%s publisher=%s", show.Name, show.Publisher)
	s.show = &show
	return show, nil
}

func (s *SpotifySource) ListEpisodes(ctx context.Context, limit int) ([]episode.Episode, error) {
	show, err := s.resolveShow(ctx)
	if err != nil {
		return nil, err
	}
	episodes, err := s.spotify.GetShowEpisodes(ctx, show, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: failed to list episodes", s.name)
	}
	return episodes, nil
}

func (s *SpotifySource) GetEpisode(ctx context.Context, id string) (episode.Episode, error) {
	e, err := s.spotify.GetEpisode(ctx, id)
	if err != nil {
		if errors.Is(err, spotify.ErrNotFound) {
			return episode.Episode{}, errors.Wrapf(ErrNotFound, "%s: episode %s", s.name, id)
		}
		return episode.Episode{}, errors.Wrapf(err, "%s: failed to get episode", s.name)
	}
	return e, nil
}
