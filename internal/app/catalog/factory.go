package catalog

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podcastr/internal/infra/config"
)

// NewSourceChainFromConfig creates a source chain from configuration.
// spotify may be nil when no spotify source is configured.
func NewSourceChainFromConfig(cfg *config.Config, spotify SpotifyClient) (*SourceChain, error) {
	if len(cfg.Catalog.Sources) == 0 {
		return nil, errors.New("no episode sources configured")
	}

	var sources []Source
	for i, scfg := range cfg.Catalog.Sources {
		var (
			source Source
			err    error
		)
		zlog.Debug().Msgf("creating episode source: index=%d type=%s settings=%+v", i+1, scfg.Type, scfg.Settings)
		switch scfg.Type {
		case config.SourceTypeREST:
			source, err = NewRESTSource(scfg.Name, scfg.Settings)

		case config.SourceTypeSpotify:
			if spotify == nil {
				return nil, errors.Newf("spotify source configured without a spotify client (source index %d)", i)
			}
			source, err = NewSpotifySource(scfg.Name, spotify, scfg.Settings)

		default:
			return nil, errors.Newf("unsupported source type: %s (source index %d)", scfg.Type, i)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "failed to create source (index %d, type %s)", i, scfg.Type)
		}

		sources = append(sources, source)
		zlog.Info().Msgf("registered episode source: index=%d type=%s name=%s", i+1, scfg.Type, source.Name())
	}

	return NewSourceChain(sources...), nil
}
