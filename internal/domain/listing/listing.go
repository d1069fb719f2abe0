// Package listing provides the episode listing shown on the landing page.
package listing

import "github.com/osa030/podcastr/internal/domain/episode"

// Page is one fetched page of episodes, newest first.
type Page struct {
	Latest []episode.Episode // Highlighted most recent episodes
	Others []episode.Episode // Remaining episodes of the page
}

// Split separates the first latestCount episodes from the rest.
// A negative count is treated as zero.
func Split(episodes []episode.Episode, latestCount int) Page {
	if latestCount < 0 {
		latestCount = 0
	}
	if latestCount > len(episodes) {
		latestCount = len(episodes)
	}
	return Page{
		Latest: episodes[:latestCount:latestCount],
		Others: episodes[latestCount:],
	}
}

// All returns latest and remaining episodes as one ordered queue.
func (p Page) All() []episode.Episode {
	all := make([]episode.Episode, 0, len(p.Latest)+len(p.Others))
	all = append(all, p.Latest...)
	return append(all, p.Others...)
}

// Len returns the number of episodes on the page.
func (p Page) Len() int {
	return len(p.Latest) + len(p.Others)
}

// Find returns the episode with the given id and its position in All.
func (p Page) Find(id string) (episode.Episode, int, bool) {
	for i, e := range p.All() {
		if e.ID == id {
			return e, i, true
		}
	}
	return episode.Episode{}, -1, false
}
