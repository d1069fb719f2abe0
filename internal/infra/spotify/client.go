// Package spotify reads podcast shows and episodes from the Spotify Web API.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/osa030/podcastr/internal/domain/episode"
)

// ErrNotFound is returned when Spotify has no episode or show with the ID.
var ErrNotFound = errors.New("spotify: not found")

// maxPageSize is the largest page the show episodes endpoint serves.
const maxPageSize = 50

// Client is a Spotify API client.
type Client struct {
	client     *spotify.Client
	market     string
	maxRetries int
	retryDelay time.Duration
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	Market       string

	// BaseURL overrides the API root; used by tests.
	BaseURL string
	// HTTPClient overrides the authenticated client; used by tests.
	HTTPClient *http.Client
}

// New creates a Spotify client authenticated with the client credentials
// flow. Show and episode endpoints need no user authorization.
func New(ctx context.Context, cfg Config) (*Client, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return nil, errors.New("spotify credentials are required")
		}
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     spotifyauth.TokenURL,
		}
		httpClient = cc.Client(ctx)
	}

	var opts []spotify.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, spotify.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}

	market := cfg.Market
	if market == "" {
		market = "BR"
	}

	return &Client{
		client:     spotify.New(httpClient, opts...),
		market:     market,
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

// Show holds the show-level fields copied onto every episode.
type Show struct {
	ID        string
	Name      string
	Publisher string
	Thumbnail string
}

// GetShow retrieves show information by ID, URL, or URI.
func (c *Client) GetShow(ctx context.Context, showRef string) (Show, error) {
	id := extractShowID(showRef)
	if id == "" {
		return Show{}, errors.New("invalid show reference")
	}

	var result *spotify.FullShow
	err := c.retry(ctx, func() error {
		s, err := c.client.GetShow(ctx, spotify.ID(id), spotify.Market(c.market))
		if err != nil {
			return err
		}
		result = s
		return nil
	})
	if err != nil {
		return Show{}, wrapNotFound(err, "failed to get show")
	}

	show := Show{
		ID:        string(result.ID),
		Name:      result.Name,
		Publisher: result.Publisher,
	}
	if len(result.Images) > 0 {
		show.Thumbnail = result.Images[0].URL
	}
	return show, nil
}

// GetShowEpisodes retrieves the newest episodes of a show.
func (c *Client) GetShowEpisodes(ctx context.Context, show Show, limit int) ([]episode.Episode, error) {
	if limit <= 0 {
		limit = 12
	}

	episodes := make([]episode.Episode, 0, limit)
	offset := 0
	for len(episodes) < limit {
		pageSize := min(limit-len(episodes), maxPageSize)

		var page *spotify.SimpleEpisodePage
		err := c.retry(ctx, func() error {
			p, err := c.client.GetShowEpisodes(ctx, show.ID,
				spotify.Limit(pageSize),
				spotify.Offset(offset),
				spotify.Market(c.market),
			)
			if err != nil {
				return err
			}
			page = p
			return nil
		})
		if err != nil {
			return nil, wrapNotFound(err, "failed to get show episodes")
		}

		for i := range page.Episodes {
			episodes = append(episodes, convertEpisode(&page.Episodes[i], show))
		}

		if len(page.Episodes) < pageSize {
			break
		}
		offset += pageSize
	}

	return episodes, nil
}

// GetEpisode retrieves one episode by ID, URL, or URI.
func (c *Client) GetEpisode(ctx context.Context, episodeRef string) (episode.Episode, error) {
	id := extractEpisodeID(episodeRef)
	if id == "" {
		return episode.Episode{}, errors.New("invalid episode reference")
	}

	var result *spotify.EpisodePage
	err := c.retry(ctx, func() error {
		e, err := c.client.GetEpisode(ctx, id, spotify.Market(c.market))
		if err != nil {
			return err
		}
		result = e
		return nil
	})
	if err != nil {
		return episode.Episode{}, wrapNotFound(err, "failed to get episode")
	}

	show := Show{
		ID:        string(result.Show.ID),
		Name:      result.Show.Name,
		Publisher: result.Show.Publisher,
	}
	return convertEpisode(result, show), nil
}

// GetEpisodeURL returns the Spotify URL for an episode.
func GetEpisodeURL(episodeID string) string {
	return fmt.Sprintf("https://open.spotify.com/episode/%s", episodeID)
}

// convertEpisode converts a Spotify episode to a domain Episode.
// Spotify exposes only a preview clip to third parties; it becomes the
// media URL while the duration stays the full length.
func convertEpisode(e *spotify.EpisodePage, show Show) episode.Episode {
	thumbnail := show.Thumbnail
	if len(e.Images) > 0 {
		thumbnail = e.Images[0].URL
	}

	members := show.Publisher
	if members == "" {
		members = show.Name
	}

	return episode.Episode{
		ID:          string(e.ID),
		Title:       e.Name,
		Members:     members,
		Thumbnail:   thumbnail,
		URL:         e.AudioPreviewURL,
		Duration:    int(e.Duration_ms) / 1000,
		PublishedAt: parseReleaseDate(e.ReleaseDate),
		Description: e.Description,
	}
}

// parseReleaseDate accepts the day, month and year precisions Spotify uses.
func parseReleaseDate(v string) time.Time {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// retry retries an operation with linear backoff.
func (c *Client) retry(ctx context.Context, fn func() error) error {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}

		if i < c.maxRetries-1 {
			zlog.Debug().Msgf("spotify: retrying after error: attempt=%d err=%v", i+1, err)
			select {
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "retry aborted")
			case <-time.After(c.retryDelay * time.Duration(i+1)):
			}
		}
	}
	return errors.Wrap(lastErr, "max retries exceeded")
}

// isRetryable checks if an error is retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500
	}
	errStr := err.Error()
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504")
}

func wrapNotFound(err error, msg string) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return errors.Wrap(ErrNotFound, apiErr.Message)
	}
	return errors.Wrap(err, msg)
}

// extractShowID extracts the show ID from a Spotify show URL or URI.
func extractShowID(input string) string {
	return extractID(input, "show")
}

// extractEpisodeID extracts the episode ID from a Spotify episode URL or URI.
func extractEpisodeID(input string) string {
	return extractID(input, "episode")
}

// extractID handles spotify:<kind>:ID URIs, open.spotify.com URLs
// (optionally with an intl-XX segment and query string) and bare IDs.
func extractID(input, kind string) string {
	input = strings.TrimSpace(input)
	if prefix := "spotify:" + kind + ":"; strings.HasPrefix(input, prefix) {
		return strings.TrimPrefix(input, prefix)
	}

	segment := "/" + kind + "/"
	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, segment) {
		parts := strings.Split(input, segment)
		id := strings.Split(parts[len(parts)-1], "?")[0]
		return strings.TrimRight(id, "/")
	}

	return input
}
