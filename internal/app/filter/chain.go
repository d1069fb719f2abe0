package filter

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podcastr/internal/domain/episode"
	"github.com/osa030/podcastr/internal/infra/config"
)

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain(filters ...Filter) *Chain {
	return &Chain{
		filters: filters,
	}
}

// NewChainFromConfig builds a chain of the enabled filters, in name order.
func NewChainFromConfig(filters map[string]config.FilterConfig) (*Chain, error) {
	chain := NewChain()
	for _, name := range Names() {
		fc, ok := filters[name]
		if !ok || !fc.Enabled {
			continue
		}
		f := registry[name]()
		if err := f.ValidateConfig(fc.Settings); err != nil {
			return nil, errors.Wrapf(err, "invalid settings for filter %s", name)
		}
		chain.Add(f)
		zlog.Info().Msgf("filter enabled: %s", name)
	}
	for name := range filters {
		if _, ok := registry[name]; !ok {
			return nil, errors.Newf("unknown filter: %s", name)
		}
	}
	return chain, nil
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Check runs all filters against one episode.
// Returns immediately if any filter rejects it.
func (c *Chain) Check(ctx context.Context, e episode.Episode, accepted []episode.Episode) Result {
	for _, f := range c.filters {
		result := f.Check(ctx, e, accepted)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Apply keeps the episodes every filter accepts, preserving order.
func (c *Chain) Apply(ctx context.Context, episodes []episode.Episode) []episode.Episode {
	if len(c.filters) == 0 {
		return episodes
	}
	kept := make([]episode.Episode, 0, len(episodes))
	for _, e := range episodes {
		result := c.Check(ctx, e, kept)
		if !result.Accepted {
			zlog.Debug().Msgf("filter: episode rejected: id=%s code=%s", e.ID, result.Code)
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
