package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/podcastr/internal/app/filter"
	"github.com/osa030/podcastr/internal/domain/episode"
)

type fakeSource struct {
	name     string
	mu       sync.Mutex
	episodes []episode.Episode
	listErr  error
	getErr   error

	lists atomic.Int32
	gets  atomic.Int32
	limit atomic.Int32
	gate  chan struct{}
}

func (s *fakeSource) Name() string {
	if s.name == "" {
		return "fake"
	}
	return s.name
}

func (s *fakeSource) ListEpisodes(ctx context.Context, limit int) ([]episode.Episode, error) {
	s.lists.Add(1)
	s.limit.Store(int32(limit))
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	if limit < len(s.episodes) {
		return s.episodes[:limit], nil
	}
	return s.episodes, nil
}

func (s *fakeSource) GetEpisode(ctx context.Context, id string) (episode.Episode, error) {
	s.gets.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return episode.Episode{}, s.getErr
	}
	for _, e := range s.episodes {
		if e.ID == id {
			return e, nil
		}
	}
	return episode.Episode{}, errors.Wrapf(ErrNotFound, "episode %s", id)
}

func (s *fakeSource) set(listErr, getErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = listErr
	s.getErr = getErr
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func playable(ids ...string) []episode.Episode {
	result := make([]episode.Episode, len(ids))
	for i, id := range ids {
		result[i] = episode.Episode{ID: id, Title: "Episode " + id, URL: "https://cdn.example.com/" + id + ".mp3", Duration: 600}
	}
	return result
}

func newTestService(src Source, opts Options) (*Service, *clock) {
	c := &clock{t: time.Date(2021, 1, 22, 12, 0, 0, 0, time.UTC)}
	opts.Now = c.Now
	return NewService(src, opts), c
}

func TestService_Home(t *testing.T) {
	src := &fakeSource{episodes: playable("a", "b", "c", "d")}
	svc, _ := newTestService(src, Options{PageSize: 12, LatestCount: 2})

	page, err := svc.Home(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, episode.IDs(page.Latest))
	assert.Equal(t, []string{"c", "d"}, episode.IDs(page.Others))
	assert.Equal(t, int32(12), src.limit.Load())
}

func TestService_AppliesFilters(t *testing.T) {
	eps := playable("a", "b", "c")
	eps[1].URL = ""
	src := &fakeSource{episodes: eps}
	svc, _ := newTestService(src, Options{
		LatestCount: 1,
		Filters:     filter.NewChain(&filter.PlayableFilter{}),
	})

	page, err := svc.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, episode.IDs(page.Latest))
	assert.Equal(t, []string{"c"}, episode.IDs(page.Others))

	_, err = svc.Episode(context.Background(), "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Revalidation(t *testing.T) {
	src := &fakeSource{episodes: playable("a")}
	svc, c := newTestService(src, Options{Revalidate: 24 * time.Hour})
	ctx := context.Background()

	_, err := svc.Episodes(ctx)
	require.NoError(t, err)
	c.Advance(23 * time.Hour)
	_, err = svc.Episodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.lists.Load())

	c.Advance(2 * time.Hour)
	_, err = svc.Episodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.lists.Load())
}

func TestService_StaleOnError(t *testing.T) {
	src := &fakeSource{episodes: playable("a", "b")}
	svc, c := newTestService(src, Options{Revalidate: time.Hour})
	ctx := context.Background()

	_, err := svc.Episodes(ctx)
	require.NoError(t, err)
	_, err = svc.Episode(ctx, "a")
	require.NoError(t, err)

	src.set(errors.New("connection refused"), errors.New("connection refused"))
	c.Advance(2 * time.Hour)

	eps, err := svc.Episodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, episode.IDs(eps))

	e, err := svc.Episode(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", e.ID)
}

func TestService_ErrorWithoutCache(t *testing.T) {
	src := &fakeSource{listErr: errors.New("boom"), getErr: errors.New("boom")}
	svc, _ := newTestService(src, Options{})

	_, err := svc.Home(context.Background())
	assert.Error(t, err)

	_, err = svc.Episode(context.Background(), "a")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestService_EpisodeCacheAndNotFound(t *testing.T) {
	src := &fakeSource{episodes: playable("a")}
	svc, _ := newTestService(src, Options{})
	ctx := context.Background()

	_, err := svc.Episode(ctx, "a")
	require.NoError(t, err)
	_, err = svc.Episode(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.gets.Load())

	_, err = svc.Episode(ctx, "zzz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Episode(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CoalescesConcurrentRefreshes(t *testing.T) {
	src := &fakeSource{episodes: playable("a"), gate: make(chan struct{})}
	svc, _ := newTestService(src, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Episodes(context.Background())
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return src.lists.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, int32(1), src.lists.Load())
}

func TestService_Lookup(t *testing.T) {
	src := &fakeSource{episodes: playable("a", "b", "c")}
	svc, _ := newTestService(src, Options{PageSize: 2})
	ctx := context.Background()

	eps, err := svc.Lookup(ctx, []string{"b", "c", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, episode.IDs(eps))
	assert.Equal(t, int32(1), src.gets.Load(), "only c is outside the listing")

	_, err = svc.Lookup(ctx, []string{"a", "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Invalidate(t *testing.T) {
	src := &fakeSource{episodes: playable("a", "b")}
	svc, _ := newTestService(src, Options{})
	ctx := context.Background()

	_, err := svc.Episodes(ctx)
	require.NoError(t, err)
	_, err = svc.Episode(ctx, "a")
	require.NoError(t, err)

	stats := svc.Stats()
	assert.Equal(t, 2, stats.ListedEpisodes)
	assert.Equal(t, 1, stats.CachedDetails)
	assert.False(t, stats.ListFetchedAt.IsZero())

	assert.Equal(t, 3, svc.Invalidate())
	assert.Equal(t, Stats{}, svc.Stats())

	_, err = svc.Episodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.lists.Load())
}
