// Package session provides per-browser playback sessions.
package session

import (
	"sync/atomic"
	"time"

	"github.com/osa030/podcastr/internal/app/media"
	"github.com/osa030/podcastr/internal/app/notification"
	"github.com/osa030/podcastr/internal/app/playback"
	"github.com/osa030/podcastr/internal/app/player"
)

// Session owns the playback state of one browser.
type Session struct {
	ID        string
	CreatedAt time.Time

	Store         *playback.Store
	Player        *player.Player
	Remote        *media.Remote
	Notifications *notification.Manager

	lastSeen atomic.Int64
}

func newSession(id string, now time.Time, sendTimeout time.Duration, storeOpts []playback.Option) *Session {
	s := &Session{
		ID:            id,
		CreatedAt:     now,
		Store:         playback.NewStore(storeOpts...),
		Notifications: notification.NewManager(sendTimeout),
	}
	s.lastSeen.Store(now.UnixNano())

	s.Remote = media.NewRemote(func(cmd media.Command) {
		s.Notifications.Broadcast(&notification.Notification{
			Type:    notification.TypeCommand,
			Payload: cmd,
		})
	})
	s.Player = player.New(s.Store, s.Remote, player.WithChangeHandler(func(snap player.Snapshot) {
		s.Notifications.Broadcast(&notification.Notification{
			Type:    notification.TypeState,
			Payload: snap,
		})
	}))
	return s
}

// Touch records activity at t.
func (s *Session) Touch(t time.Time) {
	s.lastSeen.Store(t.UnixNano())
}

// LastSeenAt returns the time of the last recorded activity.
func (s *Session) LastSeenAt() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// InitialState builds the frame sent to a stream when it connects.
func (s *Session) InitialState() *notification.Notification {
	return &notification.Notification{
		Type:       notification.TypeInitialState,
		SequenceNo: s.Notifications.NextSequenceNo(),
		Payload: InitialState{
			Player: s.Player.Snapshot(),
			Media:  s.Remote.Snapshot(),
		},
	}
}

// InitialState carries what a fresh stream needs to restore the panel and
// the audio element.
type InitialState struct {
	Player player.Snapshot `json:"player"`
	Media  media.Snapshot  `json:"media"`
}

func (s *Session) close() {
	s.Player.Close()
	s.Notifications.Close()
}
