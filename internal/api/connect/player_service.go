package connect

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	playerv1 "github.com/osa030/podcastr/internal/api/playerv1"
	"github.com/osa030/podcastr/internal/api/playerv1/playerv1connect"
	"github.com/osa030/podcastr/internal/app/catalog"
	"github.com/osa030/podcastr/internal/app/media"
	"github.com/osa030/podcastr/internal/app/playback"
	"github.com/osa030/podcastr/internal/app/player"
	"github.com/osa030/podcastr/internal/app/session"
	"github.com/osa030/podcastr/internal/domain/episode"
)

// EpisodeResolver resolves episode IDs sent by the browser.
type EpisodeResolver interface {
	Episode(ctx context.Context, id string) (episode.Episode, error)
	Lookup(ctx context.Context, ids []string) ([]episode.Episode, error)
}

// PlayerService implements the PlayerService RPC.
type PlayerService struct {
	sessions   *session.Manager
	episodes   EpisodeResolver
	cookieName string
	cookieTTL  time.Duration
	secure     bool
}

// PlayerServiceOption configures a PlayerService.
type PlayerServiceOption func(*PlayerService)

// WithCookie sets the session cookie name and lifetime.
func WithCookie(name string, ttl time.Duration, secure bool) PlayerServiceOption {
	return func(s *PlayerService) {
		if name != "" {
			s.cookieName = name
		}
		s.cookieTTL = ttl
		s.secure = secure
	}
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(sessions *session.Manager, episodes EpisodeResolver, opts ...PlayerServiceOption) *PlayerService {
	s := &PlayerService{
		sessions:   sessions,
		episodes:   episodes,
		cookieName: DefaultCookieName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure PlayerService implements the interface.
var _ playerv1connect.PlayerServiceHandler = (*PlayerService)(nil)

// CookieName returns the session cookie name.
func (s *PlayerService) CookieName() string {
	return s.cookieName
}

// OpenSession resumes the caller's session or starts a new one and hands
// the ID back both as a cookie and in the body.
func (s *PlayerService) OpenSession(
	ctx context.Context,
	req *connect.Request[playerv1.OpenSessionRequest],
) (*connect.Response[playerv1.OpenSessionResponse], error) {
	sess, created := s.sessions.Resolve(SessionID(req.Header(), s.cookieName))

	resp := connect.NewResponse(&playerv1.OpenSessionResponse{
		SessionId: sess.ID,
		Created:   created,
		State:     ToPlayerState(sess.Player.Snapshot()),
	})
	resp.Header().Set(SessionHeader, sess.ID)
	resp.Header().Add("Set-Cookie", s.Cookie(sess.ID).String())
	return resp, nil
}

// Cookie builds the session cookie for id.
func (s *PlayerService) Cookie(id string) *http.Cookie {
	c := &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if s.cookieTTL > 0 {
		c.MaxAge = int(s.cookieTTL.Seconds())
	}
	return c
}

// GetState returns the player state of the session.
func (s *PlayerService) GetState(
	ctx context.Context,
	req *connect.Request[playerv1.GetStateRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	return s.control(ctx, func(*session.Session) bool { return false })
}

// Play replaces the queue with one episode.
func (s *PlayerService) Play(
	ctx context.Context,
	req *connect.Request[playerv1.PlayRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.EpisodeId == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("episode_id is required"))
	}

	e, err := s.episodes.Episode(ctx, req.Msg.EpisodeId)
	if err != nil {
		return nil, catalogError(err)
	}
	zlog.Debug().Msgf("rpc: play: session=%s episode=%s", sess.ID, e.ID)
	sess.Store.Play(e)
	return stateResponse(sess, false), nil
}

// PlayList replaces the queue and starts at the given index.
func (s *PlayerService) PlayList(
	ctx context.Context,
	req *connect.Request[playerv1.PlayListRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.Msg.EpisodeIds) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("episode_ids is required"))
	}
	index := int(req.Msg.Index)
	if index < 0 || index >= len(req.Msg.EpisodeIds) {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			errors.Wrapf(playback.ErrIndexOutOfRange, "index %d, queue length %d", index, len(req.Msg.EpisodeIds)))
	}

	eps, err := s.episodes.Lookup(ctx, req.Msg.EpisodeIds)
	if err != nil {
		return nil, catalogError(err)
	}
	if err := sess.Store.PlayList(eps, index); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	zlog.Debug().Msgf("rpc: play list: session=%s episodes=%d index=%d", sess.ID, len(eps), index)
	return stateResponse(sess, false), nil
}

// SetPlaying sets the playing flag.
func (s *PlayerService) SetPlaying(
	ctx context.Context,
	req *connect.Request[playerv1.SetPlayingRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	return s.control(ctx, func(sess *session.Session) bool {
		sess.Store.SetPlaying(req.Msg.Playing)
		return false
	})
}

// TogglePlay flips the playing flag.
func (s *PlayerService) TogglePlay(
	ctx context.Context,
	req *connect.Request[playerv1.ControlRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	return s.control(ctx, func(sess *session.Session) bool {
		sess.Store.TogglePlay()
		return false
	})
}

// ToggleLoop flips the loop flag.
func (s *PlayerService) ToggleLoop(
	ctx context.Context,
	req *connect.Request[playerv1.ControlRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	return s.control(ctx, func(sess *session.Session) bool {
		sess.Store.ToggleLoop()
		return false
	})
}

// ToggleShuffle flips the shuffle flag.
func (s *PlayerService) ToggleShuffle(
	ctx context.Context,
	req *connect.Request[playerv1.ControlRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	return s.control(ctx, func(sess *session.Session) bool {
		sess.Store.ToggleShuffle()
		return false
	})
}

// PlayNext advances to the next episode.
func (s *PlayerService) PlayNext(
	ctx context.Context,
	req *connect.Request[playerv1.ControlRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	return s.control(ctx, func(sess *session.Session) bool {
		return sess.Store.PlayNext()
	})
}

// PlayPrevious goes back to the previous episode.
func (s *PlayerService) PlayPrevious(
	ctx context.Context,
	req *connect.Request[playerv1.ControlRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	return s.control(ctx, func(sess *session.Session) bool {
		return sess.Store.PlayPrevious()
	})
}

// ClearPlayerState empties the queue.
func (s *PlayerService) ClearPlayerState(
	ctx context.Context,
	req *connect.Request[playerv1.ControlRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	return s.control(ctx, func(sess *session.Session) bool {
		sess.Store.ClearPlayerState()
		return false
	})
}

// Seek moves the playback position of the current episode.
func (s *PlayerService) Seek(
	ctx context.Context,
	req *connect.Request[playerv1.SeekRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := sess.Player.Seek(int(req.Msg.Position)); err != nil {
		if errors.Is(err, player.ErrNoEpisode) {
			return nil, connect.NewError(connect.CodeFailedPrecondition, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return stateResponse(sess, false), nil
}

// ReportMediaEvent feeds an audio element event from the browser back into
// the session's player.
func (s *PlayerService) ReportMediaEvent(
	ctx context.Context,
	req *connect.Request[playerv1.ReportMediaEventRequest],
) (*connect.Response[playerv1.ReportMediaEventResponse], error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	kind, err := media.ParseEventKind(req.Msg.Event)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	err = sess.Remote.Dispatch(media.Event{
		Kind:        kind,
		CurrentTime: int(req.Msg.CurrentTime),
		Src:         req.Msg.Src,
	})
	if errors.Is(err, media.ErrStaleEvent) {
		return connect.NewResponse(&playerv1.ReportMediaEventResponse{Accepted: false}), nil
	}
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&playerv1.ReportMediaEventResponse{Accepted: true}), nil
}

// control runs fn against the caller's session and returns the new state.
// fn reports whether the current episode moved.
func (s *PlayerService) control(ctx context.Context, fn func(*session.Session) bool) (*connect.Response[playerv1.StateResponse], error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	moved := fn(sess)
	return stateResponse(sess, moved), nil
}

func requireSession(ctx context.Context) (*session.Session, error) {
	sess, ok := SessionFromContext(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, session.ErrInvalidSession)
	}
	return sess, nil
}

func stateResponse(sess *session.Session, moved bool) *connect.Response[playerv1.StateResponse] {
	return connect.NewResponse(&playerv1.StateResponse{
		State: ToPlayerState(sess.Player.Snapshot()),
		Moved: moved,
	})
}

// catalogError maps catalog failures to RPC codes.
func catalogError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		zlog.Warn().Msgf("rpc: catalog lookup failed: %v", err)
		return connect.NewError(connect.CodeUnavailable, err)
	}
}
