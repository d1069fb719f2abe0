package filter

import (
	"context"

	"github.com/osa030/podcastr/internal/domain/episode"
)

// DuplicateEpisodeFilter rejects an episode whose ID or media file was
// already accepted. Republished episodes often reuse the same file.
type DuplicateEpisodeFilter struct{}

func (f *DuplicateEpisodeFilter) Name() string {
	return "duplicate_episode_filter"
}

func (f *DuplicateEpisodeFilter) Description() string {
	return "Rejects episodes already listed under the same ID or media URL"
}

func (f *DuplicateEpisodeFilter) ReturnCodes() []string {
	return []string{"duplicate_episode"}
}

func (f *DuplicateEpisodeFilter) ValidateConfig(settings map[string]any) error {
	return nil
}

func (f *DuplicateEpisodeFilter) Check(_ context.Context, e episode.Episode, accepted []episode.Episode) Result {
	for _, prev := range accepted {
		if prev.ID == e.ID {
			return Reject("duplicate_episode")
		}
		if e.URL != "" && prev.URL == e.URL {
			return Reject("duplicate_episode")
		}
	}
	return Accept()
}

func init() {
	Register("duplicate_episode_filter", func() Filter {
		return &DuplicateEpisodeFilter{}
	})
}
