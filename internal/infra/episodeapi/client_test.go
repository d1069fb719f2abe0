package episodeapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listResponse = `[
	{
		"id": "a-importancia-da-contribuicao-em-open-source",
		"title": "Faladev #30 | A importância da contribuição em Open Source",
		"members": "Diego Fernandes, João Pedro, Diego Schell Fernandes e Bruno Lemos",
		"published_at": "2021-01-22 19:17:00",
		"thumbnail": "https://cdn.example.com/opensource.jpg",
		"description": "<p>Neste episódio do Faladev...</p>",
		"file": {"url": "https://cdn.example.com/opensource.m4a", "type": "audio/x-m4a", "duration": 3981}
	},
	{
		"id": "como-virar-lider-desenvolvimento",
		"title": "Como se tornar um líder de desenvolvimento",
		"members": "Diego e Richard",
		"published_at": "2021-01-20T08:00:00Z",
		"thumbnail": "https://cdn.example.com/lider.jpg",
		"description": "",
		"file": {"url": "https://cdn.example.com/lider.m4a", "type": "audio/x-m4a", "duration": "2202"}
	}
]`

func TestListEpisodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/episodes", r.URL.Path)
		assert.Equal(t, "12", r.URL.Query().Get("_limit"))
		assert.Equal(t, "published_at", r.URL.Query().Get("_sort"))
		assert.Equal(t, "desc", r.URL.Query().Get("_order"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, listResponse)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL + "/"})
	require.NoError(t, err)

	episodes, err := client.ListEpisodes(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, episodes, 2)

	first := episodes[0]
	assert.Equal(t, "a-importancia-da-contribuicao-em-open-source", first.ID)
	assert.Equal(t, "https://cdn.example.com/opensource.m4a", first.URL)
	assert.Equal(t, 3981, first.Duration)
	assert.Equal(t, time.Date(2021, 1, 22, 19, 17, 0, 0, time.UTC), first.PublishedAt)

	assert.Equal(t, 2202, episodes[1].Duration, "numeric strings are accepted")
	assert.Equal(t, time.Date(2021, 1, 20, 8, 0, 0, 0, time.UTC), episodes[1].PublishedAt)
}

func TestGetEpisode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/episodes/known":
			fmt.Fprint(w, `{"id":"known","title":"Known","file":{"url":"https://cdn.example.com/k.mp3","duration":60},"description":"<p>hi</p>"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{}`)
		}
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	e, err := client.GetEpisode(context.Background(), "known")
	require.NoError(t, err)
	assert.Equal(t, "Known", e.Title)
	assert.Equal(t, "<p>hi</p>", e.Description)
	assert.True(t, e.PublishedAt.IsZero())

	_, err = client.GetEpisode(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.ListEpisodes(context.Background(), 5)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.True(t, statusErr.Temporary())
}

func TestGet_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": "a", "file": {"duration": "forever"}}]`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.ListEpisodes(context.Background(), 5)
	assert.Error(t, err)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"valid", "http://localhost:3333", false},
		{"empty", "", true},
		{"no scheme", "localhost:3333", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{BaseURL: tt.baseURL})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
