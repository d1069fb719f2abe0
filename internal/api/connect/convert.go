package connect

import (
	"time"

	playerv1 "github.com/osa030/podcastr/internal/api/playerv1"
	"github.com/osa030/podcastr/internal/app/player"
	"github.com/osa030/podcastr/internal/app/session"
	"github.com/osa030/podcastr/internal/domain/episode"
)

func toEpisode(e episode.Episode) *playerv1.Episode {
	msg := &playerv1.Episode{
		Id:               e.ID,
		Title:            e.Title,
		Members:          e.Members,
		Thumbnail:        e.Thumbnail,
		Url:              e.URL,
		Duration:         int32(e.Duration),
		DurationAsString: e.DurationAsString(),
	}
	if !e.PublishedAt.IsZero() {
		msg.PublishedAt = e.PublishedAt.Format(time.RFC3339)
	}
	return msg
}

// ToPlayerState converts a player snapshot to its wire form.
func ToPlayerState(s player.Snapshot) *playerv1.PlayerState {
	msg := &playerv1.PlayerState{
		Status:        s.Status,
		QueueLength:   int32(s.QueueLength),
		CurrentIndex:  int32(s.CurrentIndex),
		IsPlaying:     s.IsPlaying,
		IsLooping:     s.IsLooping,
		IsShuffled:    s.IsShuffled,
		HasNext:       s.HasNext,
		HasPrevious:   s.HasPrevious,
		Progress:      int32(s.Progress),
		ProgressLabel: s.ProgressLabel,
		DurationLabel: s.DurationLabel,
		Controls: playerv1.Controls{
			Shuffle:  s.Controls.Shuffle,
			Previous: s.Controls.Previous,
			Play:     s.Controls.Play,
			Next:     s.Controls.Next,
			Loop:     s.Controls.Loop,
		},
	}
	if s.Episode != nil {
		msg.Episode = toEpisode(*s.Episode)
	}
	return msg
}

func toSessionInfo(s *session.Session) *playerv1.SessionInfo {
	return &playerv1.SessionInfo{
		Id:         s.ID,
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
		LastSeenAt: s.LastSeenAt().Format(time.RFC3339),
		Streams:    int32(s.Notifications.SubscriberCount()),
		State:      ToPlayerState(s.Player.Snapshot()),
	}
}
