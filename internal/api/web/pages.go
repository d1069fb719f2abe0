package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	apiconnect "github.com/osa030/podcastr/internal/api/connect"
	playerv1 "github.com/osa030/podcastr/internal/api/playerv1"
	"github.com/osa030/podcastr/internal/app/catalog"
	"github.com/osa030/podcastr/internal/domain/episode"
	"github.com/osa030/podcastr/internal/infra/config"
)

const (
	pageHome     = "home.html"
	pageEpisode  = "episode.html"
	pageError    = "error.html"
	layoutTmpl   = "layout"
	sharedLayout = "templates/layout.html"
	sharedPlayer = "templates/player.html"
)

func (s *Server) funcs() template.FuncMap {
	return template.FuncMap{
		"formatDuration": episode.FormatDuration,
		"publishedAt":    s.locale.PublishedAt,
		"add":            func(a, b int) int { return a + b },
		// Descriptions come from the episode source as HTML.
		"rawHTML": func(s string) template.HTML { return template.HTML(s) },
		"toJSON": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
	}
}

func (s *Server) parseTemplates() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{pageHome, pageEpisode, pageError} {
		t, err := template.New(name).Funcs(s.funcs()).ParseFS(templateFS, sharedLayout, sharedPlayer, "templates/"+name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse template %s", name)
		}
		pages[name] = t
	}
	return pages, nil
}

// layoutData is shared by every page.
type layoutData struct {
	Site   config.SiteConfig
	Labels Labels
	Today  string
	Player *playerv1.PlayerState
}

type homeData struct {
	layoutData
	Latest []episode.Episode
	Others []episode.Episode
	Queue  []string
}

type episodeData struct {
	layoutData
	Episode episode.Episode
	// Current is set when the episode is the one loaded in the player.
	Current bool
	Playing bool
}

type errorData struct {
	layoutData
	Status  int
	Message string
}

func (s *Server) layout(r *http.Request) layoutData {
	d := layoutData{
		Site:   s.site,
		Labels: s.labels,
		Today:  s.locale.Today(s.now()),
	}
	if sess, ok := apiconnect.SessionFromContext(r.Context()); ok {
		d.Player = apiconnect.ToPlayerState(sess.Player.Snapshot())
	}
	return d
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	page, err := s.catalog.Home(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to load episodes")
		s.renderError(w, r, http.StatusBadGateway, s.labels.Unavailable)
		return
	}

	s.render(w, r, http.StatusOK, pageHome, homeData{
		layoutData: s.layout(r),
		Latest:     page.Latest,
		Others:     page.Others,
		Queue:      episode.IDs(page.All()),
	})
}

func (s *Server) handleEpisode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := s.catalog.Episode(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.renderError(w, r, http.StatusNotFound, s.labels.NotFound)
			return
		}
		hlog.FromRequest(r).Error().Err(err).Str("episode", id).Msg("failed to load episode")
		s.renderError(w, r, http.StatusBadGateway, s.labels.Unavailable)
		return
	}

	data := episodeData{layoutData: s.layout(r), Episode: e}
	if p := data.Player; p != nil && p.Episode != nil && p.Episode.Id == e.ID {
		data.Current = true
		data.Playing = p.IsPlaying
	}
	s.render(w, r, http.StatusOK, pageEpisode, data)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.render(w, r, status, pageError, errorData{
		layoutData: s.layout(r),
		Status:     status,
		Message:    message,
	})
}

// render executes the page into a buffer first so a template failure still
// produces a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, layoutTmpl, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("page", page).Msg("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
