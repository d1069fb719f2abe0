// Package episodeapi provides a client for the podcast episodes REST API.
package episodeapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podcastr/internal/domain/episode"
)

// ErrNotFound is returned when the API has no episode with the given ID.
var ErrNotFound = errors.New("episode not found")

// Client is an episodes API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config represents episodes API client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// New creates a new episodes API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("episodes API base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Newf("invalid episodes API base URL: %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// record is the wire shape of one episode.
type record struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Members     string   `json:"members"`
	PublishedAt string   `json:"published_at"`
	Thumbnail   string   `json:"thumbnail"`
	Description string   `json:"description"`
	File        fileInfo `json:"file"`
}

type fileInfo struct {
	URL      string  `json:"url"`
	Type     string  `json:"type"`
	Duration seconds `json:"duration"`
}

// seconds accepts a duration sent either as a number or as a numeric string.
type seconds int

func (s *seconds) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", raw)
	}
	*s = seconds(f)
	return nil
}

var publishedLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parsePublishedAt(v string) (time.Time, error) {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Newf("invalid published_at %q", v)
}

func (r record) toEpisode() episode.Episode {
	e := episode.Episode{
		ID:          r.ID,
		Title:       r.Title,
		Members:     r.Members,
		Thumbnail:   r.Thumbnail,
		URL:         r.File.URL,
		Duration:    int(r.File.Duration),
		Description: r.Description,
	}
	if r.PublishedAt != "" {
		t, err := parsePublishedAt(r.PublishedAt)
		if err != nil {
			zlog.Warn().Msgf("episodeapi: %v: id=%s", err, r.ID)
		} else {
			e.PublishedAt = t
		}
	}
	return e
}

// ListEpisodes returns the newest episodes first.
func (c *Client) ListEpisodes(ctx context.Context, limit int) ([]episode.Episode, error) {
	if limit <= 0 {
		limit = 12
	}

	params := url.Values{}
	params.Set("_limit", strconv.Itoa(limit))
	params.Set("_sort", "published_at")
	params.Set("_order", "desc")

	var records []record
	if err := c.get(ctx, "/episodes?"+params.Encode(), &records); err != nil {
		return nil, err
	}

	episodes := make([]episode.Episode, 0, len(records))
	for _, r := range records {
		episodes = append(episodes, r.toEpisode())
	}
	return episodes, nil
}

// GetEpisode returns one episode by ID.
func (c *Client) GetEpisode(ctx context.Context, id string) (episode.Episode, error) {
	if id == "" {
		return episode.Episode{}, errors.New("episode ID is required")
	}

	var r record
	if err := c.get(ctx, "/episodes/"+url.PathEscape(id), &r); err != nil {
		return episode.Episode{}, err
	}
	if r.ID == "" {
		return episode.Episode{}, errors.Wrapf(ErrNotFound, "episode %s", id)
	}
	return r.toEpisode(), nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.Wrapf(ErrNotFound, "GET %s", path)
	case resp.StatusCode >= 300:
		return &StatusError{StatusCode: resp.StatusCode, Path: path}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "failed to parse response")
	}
	zlog.Debug().Msgf("episodeapi: GET %s: %d bytes", path, len(body))
	return nil
}

// StatusError reports an unexpected HTTP status from the API.
type StatusError struct {
	StatusCode int
	Path       string
}

func (e *StatusError) Error() string {
	return "episodes API returned " + strconv.Itoa(e.StatusCode) + " for " + e.Path
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
