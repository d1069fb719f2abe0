package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmb3/spotify/v2"
)

func TestExtractShowID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Spotify URI format", "spotify:show:2mTUnDkuKUkhiueKcVWoP0", "2mTUnDkuKUkhiueKcVWoP0"},
		{"Spotify URL format", "https://open.spotify.com/show/2mTUnDkuKUkhiueKcVWoP0", "2mTUnDkuKUkhiueKcVWoP0"},
		{"URL with query params", "https://open.spotify.com/show/2mTUnDkuKUkhiueKcVWoP0?si=abc123", "2mTUnDkuKUkhiueKcVWoP0"},
		{"URL with intl segment", "https://open.spotify.com/intl-pt/show/abc123/", "abc123"},
		{"Plain show ID", "2mTUnDkuKUkhiueKcVWoP0", "2mTUnDkuKUkhiueKcVWoP0"},
		{"Empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractShowID(tt.input))
		})
	}
}

func TestExtractEpisodeID(t *testing.T) {
	assert.Equal(t, "512ojhOuo1ktJprKbVcKyQ", extractEpisodeID("spotify:episode:512ojhOuo1ktJprKbVcKyQ"))
	assert.Equal(t, "512ojhOuo1ktJprKbVcKyQ", extractEpisodeID("https://open.spotify.com/episode/512ojhOuo1ktJprKbVcKyQ?si=x"))
	assert.Equal(t, "spotify:show:abc", extractEpisodeID("spotify:show:abc"), "other kinds are left alone")
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"api rate limit", spotify.Error{Status: 429, Message: "API rate limit exceeded"}, true},
		{"api server error", spotify.Error{Status: 503, Message: "Service unavailable"}, true},
		{"api not found", spotify.Error{Status: 404, Message: "Non existing id"}, false},
		{"rate limit text", errors.New("rate limit exceeded"), true},
		{"server error 502", errors.New("502 Bad Gateway"), true},
		{"client error 400", errors.New("400 Bad Request"), false},
		{"generic error", errors.New("something went wrong"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isRetryable(tt.err))
		})
	}
}

func TestParseReleaseDate(t *testing.T) {
	assert.Equal(t, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), parseReleaseDate("2021-03-04"))
	assert.Equal(t, time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), parseReleaseDate("2021-03"))
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), parseReleaseDate("2021"))
	assert.True(t, parseReleaseDate("soon").IsZero())
}

const episodesPage = `{
	"href": "https://api.spotify.com/v1/shows/show1/episodes",
	"limit": 12,
	"offset": 0,
	"total": 2,
	"items": [
		{
			"id": "ep1",
			"name": "Episode one",
			"description": "First",
			"audio_preview_url": "https://p.scdn.co/mp3-preview/ep1",
			"duration_ms": 3601000,
			"release_date": "2021-01-22",
			"images": [{"url": "https://i.scdn.co/image/ep1", "height": 640, "width": 640}]
		},
		{
			"id": "ep2",
			"name": "Episode two",
			"audio_preview_url": "https://p.scdn.co/mp3-preview/ep2",
			"duration_ms": 1500,
			"release_date": "2021-01",
			"images": []
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(context.Background(), Config{
		Market:     "BR",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	c.retryDelay = time.Millisecond
	return c
}

func TestGetShowEpisodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shows/show1/episodes", r.URL.Path)
		assert.Equal(t, "12", r.URL.Query().Get("limit"))
		assert.Equal(t, "BR", r.URL.Query().Get("market"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, episodesPage)
	})

	show := Show{ID: "show1", Name: "Faladev", Publisher: "Rocketseat", Thumbnail: "https://i.scdn.co/image/show"}
	episodes, err := c.GetShowEpisodes(context.Background(), show, 12)
	require.NoError(t, err)
	require.Len(t, episodes, 2)

	assert.Equal(t, "ep1", episodes[0].ID)
	assert.Equal(t, "Rocketseat", episodes[0].Members)
	assert.Equal(t, "https://p.scdn.co/mp3-preview/ep1", episodes[0].URL)
	assert.Equal(t, 3601, episodes[0].Duration)
	assert.Equal(t, "https://i.scdn.co/image/ep1", episodes[0].Thumbnail)
	assert.Equal(t, "https://i.scdn.co/image/show", episodes[1].Thumbnail, "falls back to the show image")
	assert.Equal(t, 1, episodes[1].Duration)
}

func TestGetEpisode_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"status": 404, "message": "Non existing id"}}`)
	})

	_, err := c.GetEpisode(context.Background(), "spotify:episode:missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{ClientID: "id", ClientSecret: "secret"})
	assert.NoError(t, err)
}

func TestGetEpisodeURL(t *testing.T) {
	assert.Equal(t, "https://open.spotify.com/episode/abc", GetEpisodeURL("abc"))
}
