package connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/osa030/podcastr/internal/api/playerv1/playerv1connect"
	"github.com/osa030/podcastr/internal/app/session"
)

const (
	// SessionHeader carries the session ID for clients without cookies.
	SessionHeader = "X-Session-Id"
	// DefaultCookieName is the session cookie used when none is configured.
	DefaultCookieName = "podcastr_session"
)

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session attached by the session interceptor.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*session.Session)
	return s, ok && s != nil
}

// SessionID extracts the session ID from the header, falling back to the
// cookie.
func SessionID(header http.Header, cookieName string) string {
	if id := header.Get(SessionHeader); id != "" {
		return id
	}
	r := http.Request{Header: header}
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// NewSessionInterceptor resolves the caller's session for every
// PlayerService procedure except OpenSession, which creates one.
func NewSessionInterceptor(sessions *session.Manager, cookieName string) connect.UnaryInterceptorFunc {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().Procedure == playerv1connect.PlayerServiceOpenSessionProcedure {
				return next(ctx, req)
			}

			id := SessionID(req.Header(), cookieName)
			if id == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, session.ErrInvalidSession)
			}
			s, err := sessions.Get(id)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			return next(WithSession(ctx, s), req)
		}
	}
}
