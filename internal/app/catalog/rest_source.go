package catalog

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podcastr/internal/domain/episode"
	"github.com/osa030/podcastr/internal/infra/episodeapi"
)

// RESTSourceConfig represents the settings of a rest source.
type RESTSourceConfig struct {
	BaseURL        string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds" default:"10" validate:"gte=1,lte=120"`
}

// EpisodeAPI defines the episodes API operations a rest source needs.
type EpisodeAPI interface {
	ListEpisodes(ctx context.Context, limit int) ([]episode.Episode, error)
	GetEpisode(ctx context.Context, id string) (episode.Episode, error)
}

// RESTSource reads episodes from the episodes REST API.
type RESTSource struct {
	name string
	api  EpisodeAPI
}

// NewRESTSource creates a rest source from its settings.
func NewRESTSource(name string, settings map[string]any) (*RESTSource, error) {
	var config RESTSourceConfig
	if err := mapstructure.WeakDecode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	zlog.Debug().Msgf("rest source config: %+v", config)
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	api, err := episodeapi.New(episodeapi.Config{
		BaseURL: config.BaseURL,
		Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return NewRESTSourceWithAPI(name, api), nil
}

// NewRESTSourceWithAPI creates a rest source over an existing client.
func NewRESTSourceWithAPI(name string, api EpisodeAPI) *RESTSource {
	if name == "" {
		name = "rest"
	}
	return &RESTSource{name: name, api: api}
}

func (s *RESTSource) Name() string {
	return s.name
}

func (s *RESTSource) ListEpisodes(ctx context.Context, limit int) ([]episode.Episode, error) {
	episodes, err := s.api.ListEpisodes(ctx, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: failed to list episodes", s.name)
	}
	return episodes, nil
}

func (s *RESTSource) GetEpisode(ctx context.Context, id string) (episode.Episode, error) {
	e, err := s.api.GetEpisode(ctx, id)
	if err != nil {
		if errors.Is(err, episodeapi.ErrNotFound) {
			return episode.Episode{}, errors.Wrapf(ErrNotFound, "%s: episode %s", s.name, id)
		}
		return episode.Episode{}, errors.Wrapf(err, "%s: failed to get episode", s.name)
	}
	return e, nil
}
