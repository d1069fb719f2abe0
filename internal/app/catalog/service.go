package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/osa030/podcastr/internal/app/filter"
	"github.com/osa030/podcastr/internal/domain/episode"
	"github.com/osa030/podcastr/internal/domain/listing"
)

// Defaults
const (
	DefaultPageSize     = 12
	DefaultLatestCount  = 2
	DefaultRevalidate   = 24 * time.Hour
	DefaultFetchTimeout = 10 * time.Second
)

// Options configures a Service.
type Options struct {
	PageSize     int
	LatestCount  int
	Revalidate   time.Duration
	FetchTimeout time.Duration
	Filters      *filter.Chain
	Now          func() time.Time
}

type cached[T any] struct {
	value     T
	fetchedAt time.Time
}

// Service serves the landing page listing and episode details. Results are
// kept for the revalidation period; when a refresh fails the stale copy is
// served instead.
type Service struct {
	source  Source
	filters *filter.Chain

	pageSize     int
	latestCount  int
	revalidate   time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	list    *cached[[]episode.Episode]
	details map[string]cached[episode.Episode]
}

// NewService creates a catalog service over source.
func NewService(source Source, opts Options) *Service {
	s := &Service{
		source:       source,
		filters:      opts.Filters,
		pageSize:     opts.PageSize,
		latestCount:  opts.LatestCount,
		revalidate:   opts.Revalidate,
		fetchTimeout: opts.FetchTimeout,
		now:          opts.Now,
		details:      make(map[string]cached[episode.Episode]),
	}
	if s.filters == nil {
		s.filters = filter.NewChain()
	}
	if s.pageSize <= 0 {
		s.pageSize = DefaultPageSize
	}
	if s.latestCount < 0 {
		s.latestCount = 0
	}
	if s.revalidate <= 0 {
		s.revalidate = DefaultRevalidate
	}
	if s.fetchTimeout <= 0 {
		s.fetchTimeout = DefaultFetchTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Home returns the landing page: the newest episodes split into the
// highlighted latest ones and the rest.
func (s *Service) Home(ctx context.Context) (listing.Page, error) {
	episodes, err := s.Episodes(ctx)
	if err != nil {
		return listing.Page{}, err
	}
	return listing.Split(episodes, s.latestCount), nil
}

// Episodes returns the filtered page of newest episodes.
func (s *Service) Episodes(ctx context.Context) ([]episode.Episode, error) {
	s.mu.RLock()
	list := s.list
	s.mu.RUnlock()

	if list != nil && s.fresh(list.fetchedAt) {
		return list.value, nil
	}

	v, err, _ := s.group.Do("list", func() (any, error) {
		return s.refreshList(ctx)
	})
	if err != nil {
		if list != nil {
			zlog.Warn().Msgf("catalog: refresh failed, serving stale listing: age=%v error=%v", s.now().Sub(list.fetchedAt), err)
			return list.value, nil
		}
		return nil, err
	}
	return v.([]episode.Episode), nil
}

func (s *Service) refreshList(ctx context.Context) ([]episode.Episode, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
	defer cancel()

	fetched, err := s.source.ListEpisodes(ctx, s.pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch episodes")
	}
	episodes := s.filters.Apply(ctx, fetched)

	s.mu.Lock()
	s.list = &cached[[]episode.Episode]{value: episodes, fetchedAt: s.now()}
	s.mu.Unlock()

	zlog.Info().Msgf("catalog: listing refreshed: source=%s fetched=%d kept=%d", s.source.Name(), len(fetched), len(episodes))
	return episodes, nil
}

// Episode returns one episode by ID.
func (s *Service) Episode(ctx context.Context, id string) (episode.Episode, error) {
	if id == "" {
		return episode.Episode{}, errors.Wrap(ErrNotFound, "empty episode id")
	}

	s.mu.RLock()
	entry, ok := s.details[id]
	s.mu.RUnlock()

	if ok && s.fresh(entry.fetchedAt) {
		return entry.value, nil
	}

	v, err, _ := s.group.Do("episode:"+id, func() (any, error) {
		return s.refreshEpisode(ctx, id)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.mu.Lock()
			delete(s.details, id)
			s.mu.Unlock()
			return episode.Episode{}, err
		}
		if ok {
			zlog.Warn().Msgf("catalog: refresh failed, serving stale episode: id=%s error=%v", id, err)
			return entry.value, nil
		}
		return episode.Episode{}, err
	}
	return v.(episode.Episode), nil
}

func (s *Service) refreshEpisode(ctx context.Context, id string) (episode.Episode, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
	defer cancel()

	e, err := s.source.GetEpisode(ctx, id)
	if err != nil {
		return episode.Episode{}, err
	}
	if result := s.filters.Check(ctx, e, nil); !result.Accepted {
		return episode.Episode{}, errors.Wrapf(ErrNotFound, "episode %s rejected: %s", id, result.Code)
	}

	s.mu.Lock()
	s.details[id] = cached[episode.Episode]{value: e, fetchedAt: s.now()}
	s.mu.Unlock()
	return e, nil
}

// Lookup resolves IDs to episodes in the given order, preferring the
// cached listing over detail requests.
func (s *Service) Lookup(ctx context.Context, ids []string) ([]episode.Episode, error) {
	byID := make(map[string]episode.Episode)
	if listed, err := s.Episodes(ctx); err == nil {
		for _, e := range listed {
			byID[e.ID] = e
		}
	}

	result := make([]episode.Episode, 0, len(ids))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			result = append(result, e)
			continue
		}
		e, err := s.Episode(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}

// Invalidate drops every cached result so the next request refetches.
func (s *Service) Invalidate() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.details)
	if s.list != nil {
		n += len(s.list.value)
	}
	s.list = nil
	s.details = make(map[string]cached[episode.Episode])
	zlog.Info().Msgf("catalog: cache invalidated: entries=%d", n)
	return n
}

// Stats describes the cache state.
type Stats struct {
	ListedEpisodes int
	CachedDetails  int
	ListFetchedAt  time.Time
}

// Stats returns the cache state.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{CachedDetails: len(s.details)}
	if s.list != nil {
		st.ListedEpisodes = len(s.list.value)
		st.ListFetchedAt = s.list.fetchedAt
	}
	return st
}

func (s *Service) fresh(fetchedAt time.Time) bool {
	return s.now().Sub(fetchedAt) < s.revalidate
}
