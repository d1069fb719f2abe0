package filter

import (
	"context"
	"net/url"

	"github.com/osa030/podcastr/internal/domain/episode"
)

// PlayableFilter rejects episodes without a usable media URL.
type PlayableFilter struct{}

func (f *PlayableFilter) Name() string {
	return "playable_filter"
}

func (f *PlayableFilter) Description() string {
	return "Rejects episodes without an http(s) media URL"
}

func (f *PlayableFilter) ReturnCodes() []string {
	return []string{"not_playable"}
}

func (f *PlayableFilter) ValidateConfig(settings map[string]any) error {
	return nil
}

func (f *PlayableFilter) Check(_ context.Context, e episode.Episode, _ []episode.Episode) Result {
	if !e.IsPlayable() {
		return Reject("not_playable")
	}
	u, err := url.Parse(e.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Reject("not_playable")
	}
	return Accept()
}

func init() {
	Register("playable_filter", func() Filter {
		return &PlayableFilter{}
	})
}
