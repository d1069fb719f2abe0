package connect

import (
	"context"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	playerv1 "github.com/osa030/podcastr/internal/api/playerv1"
	"github.com/osa030/podcastr/internal/api/playerv1/playerv1connect"
	"github.com/osa030/podcastr/internal/app/session"
	"github.com/osa030/podcastr/internal/domain/episode"
)

// CatalogCache is the part of the catalog the admin service manages.
type CatalogCache interface {
	Episodes(ctx context.Context) ([]episode.Episode, error)
	Invalidate() int
}

// AdminService implements the AdminService RPC.
type AdminService struct {
	sessions *session.Manager
	catalog  CatalogCache
}

// NewAdminService creates a new AdminService.
func NewAdminService(sessions *session.Manager, catalog CatalogCache) *AdminService {
	return &AdminService{
		sessions: sessions,
		catalog:  catalog,
	}
}

// Ensure AdminService implements the interface.
var _ playerv1connect.AdminServiceHandler = (*AdminService)(nil)

// ListSessions lists all live sessions.
func (s *AdminService) ListSessions(
	ctx context.Context,
	req *connect.Request[playerv1.ListSessionsRequest],
) (*connect.Response[playerv1.ListSessionsResponse], error) {
	sessions := s.sessions.All()
	infos := make([]*playerv1.SessionInfo, len(sessions))
	for i, sess := range sessions {
		infos[i] = toSessionInfo(sess)
	}

	return connect.NewResponse(&playerv1.ListSessionsResponse{
		Sessions: infos,
	}), nil
}

// CloseSession ends a session.
func (s *AdminService) CloseSession(
	ctx context.Context,
	req *connect.Request[playerv1.CloseSessionRequest],
) (*connect.Response[playerv1.CloseSessionResponse], error) {
	if req.Msg.SessionId == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("session_id is required"))
	}
	if err := s.sessions.Close(req.Msg.SessionId); err != nil {
		if errors.Is(err, session.ErrInvalidSession) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&playerv1.CloseSessionResponse{}), nil
}

// RefreshCatalog drops the catalog cache, optionally refetching the
// listing right away.
func (s *AdminService) RefreshCatalog(
	ctx context.Context,
	req *connect.Request[playerv1.RefreshCatalogRequest],
) (*connect.Response[playerv1.RefreshCatalogResponse], error) {
	n := s.catalog.Invalidate()
	resp := &playerv1.RefreshCatalogResponse{Invalidated: int32(n)}

	if req.Msg.Warm {
		eps, err := s.catalog.Episodes(ctx)
		if err != nil {
			zlog.Error().Msgf("admin: catalog warm-up failed: %v", err)
			return nil, connect.NewError(connect.CodeUnavailable, err)
		}
		resp.Episodes = int32(len(eps))
	}
	return connect.NewResponse(resp), nil
}
