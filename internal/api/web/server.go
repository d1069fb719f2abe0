// Package web serves the podcast pages, the player event stream and the
// static player assets.
package web

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	apiconnect "github.com/osa030/podcastr/internal/api/connect"
	"github.com/osa030/podcastr/internal/app/session"
	"github.com/osa030/podcastr/internal/domain/episode"
	"github.com/osa030/podcastr/internal/domain/listing"
	"github.com/osa030/podcastr/internal/infra/config"
	"github.com/osa030/podcastr/internal/infra/locale"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	defaultRequestTimeout = 30 * time.Second
	defaultHeartbeat      = 15 * time.Second
)

// Catalog provides the episodes shown on the pages.
type Catalog interface {
	Home(ctx context.Context) (listing.Page, error)
	Episode(ctx context.Context, id string) (episode.Episode, error)
}

// CookieFunc builds the session cookie for a session ID.
type CookieFunc func(id string) *http.Cookie

// Mount is an RPC handler mounted under its service path.
type Mount struct {
	Path    string
	Handler http.Handler
}

// Options configures a Server.
type Options struct {
	Logger     zerolog.Logger
	Site       config.SiteConfig
	Catalog    Catalog
	Sessions   *session.Manager
	Locale     *locale.Formatter
	CookieName string
	Cookie     CookieFunc
	RPC        []Mount
	Heartbeat  time.Duration
	Now        func() time.Time
}

// Server renders the pages and streams player frames.
type Server struct {
	logger     zerolog.Logger
	site       config.SiteConfig
	labels     Labels
	catalog    Catalog
	sessions   *session.Manager
	locale     *locale.Formatter
	cookieName string
	cookie     CookieFunc
	rpc        []Mount
	heartbeat  time.Duration
	now        func() time.Time

	pages map[string]*template.Template
}

// NewServer parses the page templates and creates a server.
func NewServer(opts Options) (*Server, error) {
	if opts.Catalog == nil || opts.Sessions == nil || opts.Locale == nil {
		return nil, errors.New("catalog, sessions and locale are required")
	}

	s := &Server{
		logger:     opts.Logger,
		site:       opts.Site,
		labels:     LabelsFor(opts.Locale.Locale()),
		catalog:    opts.Catalog,
		sessions:   opts.Sessions,
		locale:     opts.Locale,
		cookieName: opts.CookieName,
		cookie:     opts.Cookie,
		rpc:        opts.RPC,
		heartbeat:  opts.Heartbeat,
		now:        opts.Now,
	}
	if s.cookieName == "" {
		s.cookieName = apiconnect.DefaultCookieName
	}
	if s.cookie == nil {
		s.cookie = func(id string) *http.Cookie {
			return &http.Cookie{Name: s.cookieName, Value: id, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}
		}
	}
	if s.heartbeat <= 0 {
		s.heartbeat = defaultHeartbeat
	}
	if s.now == nil {
		s.now = time.Now
	}

	pages, err := s.parseTemplates()
	if err != nil {
		return nil, err
	}
	s.pages = pages
	return s, nil
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	r.Use(hlog.RemoteAddrHandler("remote_ip"))
	r.Use(hlog.UserAgentHandler("user_agent"))
	r.Use(hlog.AccessHandler(accessLogFn))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/player/stream", s.handleStream)

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	for _, m := range s.rpc {
		r.Handle(m.Path+"*", m.Handler)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(defaultRequestTimeout))
		r.Use(s.sessionMiddleware)

		r.Get("/", s.handleHome)
		r.Get("/episodes/{id}", s.handleEpisode)
	})

	r.NotFound(s.handleNotFound)
	return r
}

// sessionMiddleware attaches the browser's session to the request, creating
// one and setting the cookie when the browser has none.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, created := s.sessions.Resolve(apiconnect.SessionID(r.Header, s.cookieName))
		if created {
			http.SetCookie(w, s.cookie(sess.ID))
		}
		hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("session", sess.ID)
		})
		next.ServeHTTP(w, r.WithContext(apiconnect.WithSession(r.Context(), sess)))
	})
}

func accessLogFn(r *http.Request, status, size int, duration time.Duration) {
	logger := hlog.FromRequest(r)
	logger.Info().
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("http")
}
