// Package catalog fetches, filters and caches the episodes the pages show.
package catalog

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/osa030/podcastr/internal/domain/episode"
)

// ErrNotFound is returned when no source knows the requested episode.
var ErrNotFound = errors.New("episode not found")

// Source is the interface for episode sources.
// Different implementations read episodes from different backends
// (e.g., the episodes REST API, a Spotify show).
type Source interface {
	// Name returns the source name used in logs.
	Name() string
	// ListEpisodes returns up to limit episodes, newest first.
	ListEpisodes(ctx context.Context, limit int) ([]episode.Episode, error)
	// GetEpisode returns one episode or an error wrapping ErrNotFound.
	GetEpisode(ctx context.Context, id string) (episode.Episode, error)
}
