package catalog

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podcastr/internal/domain/episode"
)

// SourceChain tries multiple sources in order; the first success wins.
type SourceChain struct {
	sources []Source
}

// Ensure SourceChain implements Source.
var _ Source = (*SourceChain)(nil)

// NewSourceChain creates a new source chain.
func NewSourceChain(sources ...Source) *SourceChain {
	return &SourceChain{
		sources: sources,
	}
}

// Sources returns the chained sources.
func (c *SourceChain) Sources() []Source {
	return c.sources
}

// Name returns the chain name.
func (c *SourceChain) Name() string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// ListEpisodes returns the episodes of the first source that answers.
func (c *SourceChain) ListEpisodes(ctx context.Context, limit int) ([]episode.Episode, error) {
	var errs error
	for i, s := range c.sources {
		zlog.Debug().Msgf("trying source: index=%d total=%d name=%s", i+1, len(c.sources), s.Name())

		episodes, err := s.ListEpisodes(ctx, limit)
		if err != nil {
			zlog.Warn().Msgf("source failed, trying next: source=%s error=%v", s.Name(), err)
			errs = errors.CombineErrors(errs, err)
			continue
		}
		return episodes, nil
	}
	if errs == nil {
		return nil, errors.New("no episode sources configured")
	}
	return nil, errors.Wrap(errs, "all sources failed to list episodes")
}

// GetEpisode asks each source in turn. It reports ErrNotFound only when
// every source answered that it has no such episode.
func (c *SourceChain) GetEpisode(ctx context.Context, id string) (episode.Episode, error) {
	var failures error
	for _, s := range c.sources {
		e, err := s.GetEpisode(ctx, id)
		if err == nil {
			return e, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		zlog.Warn().Msgf("source failed, trying next: source=%s error=%v", s.Name(), err)
		failures = errors.CombineErrors(failures, err)
	}
	if failures != nil {
		return episode.Episode{}, errors.Wrapf(failures, "failed to get episode %s", id)
	}
	return episode.Episode{}, errors.Wrapf(ErrNotFound, "episode %s", id)
}
