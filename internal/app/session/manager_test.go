package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/podcastr/internal/app/media"
	"github.com/osa030/podcastr/internal/app/notification"
	"github.com/osa030/podcastr/internal/app/player"
	"github.com/osa030/podcastr/internal/domain/episode"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingStream struct {
	mu     sync.Mutex
	frames []*notification.Notification
}

func (s *recordingStream) Send(n *notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, n)
	return nil
}

func (s *recordingStream) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var types []string
	for _, f := range s.frames {
		types = append(types, f.Type)
	}
	return types
}

func newTestManager(opts ...Option) (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now), WithIdleTimeout(time.Hour)}, opts...)
	return NewManager(opts...), clock
}

func TestManager_CreateAndGet(t *testing.T) {
	m, _ := newTestManager()

	s := m.Create()
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, m.Count())

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m, _ := newTestManager()
	a := m.Create()
	b := m.Create()

	a.Store.Play(episode.Episode{ID: "1", URL: "https://cdn.example.com/1.mp3", Duration: 60})

	assert.Len(t, a.Store.State().Episodes, 1)
	assert.Empty(t, b.Store.State().Episodes)
}

func TestManager_Resolve(t *testing.T) {
	m, _ := newTestManager()

	s, created := m.Resolve("")
	assert.True(t, created)

	again, created := m.Resolve(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	_, created = m.Resolve("unknown")
	assert.True(t, created)
	assert.Equal(t, 2, m.Count())
}

func TestManager_Close(t *testing.T) {
	m, _ := newTestManager()
	s := m.Create()
	s.Notifications.Subscribe(&recordingStream{})

	require.NoError(t, m.Close(s.ID))
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, 0, s.Notifications.SubscriberCount())
	assert.Equal(t, 0, s.Remote.ListenerCount(media.EventTimeUpdate))

	assert.ErrorIs(t, m.Close(s.ID), ErrInvalidSession)
}

func TestManager_Sweep(t *testing.T) {
	m, clock := newTestManager()
	idle := m.Create()
	active := m.Create()
	streaming := m.Create()
	streaming.Notifications.Subscribe(&recordingStream{})

	clock.Advance(45 * time.Minute)
	_, err := m.Get(active.ID)
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)
	assert.Equal(t, 1, m.Sweep())

	_, err = m.Get(idle.ID)
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = m.Get(active.ID)
	assert.NoError(t, err)
	_, err = m.Get(streaming.ID)
	assert.NoError(t, err)
}

func TestManager_AllOrderedByCreation(t *testing.T) {
	m, clock := newTestManager()
	first := m.Create()
	clock.Advance(time.Second)
	second := m.Create()

	all := m.All()
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}

func TestManager_Shutdown(t *testing.T) {
	m, _ := newTestManager()
	m.Create()
	m.Create()

	m.Shutdown()
	assert.Equal(t, 0, m.Count())
}

func TestSession_StreamsCommandsAndState(t *testing.T) {
	m, _ := newTestManager()
	s := m.Create()
	stream := &recordingStream{}
	s.Notifications.Subscribe(stream)

	s.Store.Play(episode.Episode{ID: "1", URL: "https://cdn.example.com/1.mp3", Duration: 60})

	types := stream.types()
	assert.Contains(t, types, notification.TypeCommand)
	assert.Contains(t, types, notification.TypeState)

	stream.mu.Lock()
	defer stream.mu.Unlock()
	var loaded bool
	for _, f := range stream.frames {
		if cmd, ok := f.Payload.(media.Command); ok && cmd.Type == media.CommandLoad {
			loaded = true
			assert.Equal(t, "https://cdn.example.com/1.mp3", cmd.Src)
		}
	}
	assert.True(t, loaded)
	last := stream.frames[len(stream.frames)-1]
	snap, ok := last.Payload.(player.Snapshot)
	require.True(t, ok)
	require.NotNil(t, snap.Episode)
	assert.Equal(t, "1", snap.Episode.ID)
}

func TestSession_InitialState(t *testing.T) {
	m, _ := newTestManager()
	s := m.Create()
	s.Store.Play(episode.Episode{ID: "1", URL: "https://cdn.example.com/1.mp3", Duration: 60})

	frame := s.InitialState()
	assert.Equal(t, notification.TypeInitialState, frame.Type)
	state, ok := frame.Payload.(InitialState)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/1.mp3", state.Media.Src)
	assert.True(t, state.Player.IsPlaying)
}
