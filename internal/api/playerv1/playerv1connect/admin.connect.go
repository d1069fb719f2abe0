package playerv1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	playerv1 "github.com/osa030/podcastr/internal/api/playerv1"
)

// AdminServiceName is the fully-qualified name of the AdminService service.
const AdminServiceName = "podcastr.player.v1.AdminService"

// Procedure names of AdminService.
const (
	AdminServiceListSessionsProcedure   = "/podcastr.player.v1.AdminService/ListSessions"
	AdminServiceCloseSessionProcedure   = "/podcastr.player.v1.AdminService/CloseSession"
	AdminServiceRefreshCatalogProcedure = "/podcastr.player.v1.AdminService/RefreshCatalog"
)

// AdminServiceHandler is implemented by the admin service.
type AdminServiceHandler interface {
	ListSessions(context.Context, *connect.Request[playerv1.ListSessionsRequest]) (*connect.Response[playerv1.ListSessionsResponse], error)
	CloseSession(context.Context, *connect.Request[playerv1.CloseSessionRequest]) (*connect.Response[playerv1.CloseSessionResponse], error)
	RefreshCatalog(context.Context, *connect.Request[playerv1.RefreshCatalogRequest]) (*connect.Response[playerv1.RefreshCatalogResponse], error)
}

// NewAdminServiceHandler builds an HTTP handler from the service
// implementation and returns the path to mount it on.
func NewAdminServiceHandler(svc AdminServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(playerv1.JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(AdminServiceListSessionsProcedure, connect.NewUnaryHandler(AdminServiceListSessionsProcedure, svc.ListSessions, opts...))
	mux.Handle(AdminServiceCloseSessionProcedure, connect.NewUnaryHandler(AdminServiceCloseSessionProcedure, svc.CloseSession, opts...))
	mux.Handle(AdminServiceRefreshCatalogProcedure, connect.NewUnaryHandler(AdminServiceRefreshCatalogProcedure, svc.RefreshCatalog, opts...))
	return "/" + AdminServiceName + "/", mux
}

// AdminServiceClient is a client for the admin service.
type AdminServiceClient struct {
	listSessions   *connect.Client[playerv1.ListSessionsRequest, playerv1.ListSessionsResponse]
	closeSession   *connect.Client[playerv1.CloseSessionRequest, playerv1.CloseSessionResponse]
	refreshCatalog *connect.Client[playerv1.RefreshCatalogRequest, playerv1.RefreshCatalogResponse]
}

// NewAdminServiceClient constructs a client for the admin service.
func NewAdminServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AdminServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(playerv1.JSONCodec{})}, opts...)
	return &AdminServiceClient{
		listSessions:   connect.NewClient[playerv1.ListSessionsRequest, playerv1.ListSessionsResponse](httpClient, baseURL+AdminServiceListSessionsProcedure, opts...),
		closeSession:   connect.NewClient[playerv1.CloseSessionRequest, playerv1.CloseSessionResponse](httpClient, baseURL+AdminServiceCloseSessionProcedure, opts...),
		refreshCatalog: connect.NewClient[playerv1.RefreshCatalogRequest, playerv1.RefreshCatalogResponse](httpClient, baseURL+AdminServiceRefreshCatalogProcedure, opts...),
	}
}

func (c *AdminServiceClient) ListSessions(ctx context.Context, req *connect.Request[playerv1.ListSessionsRequest]) (*connect.Response[playerv1.ListSessionsResponse], error) {
	return c.listSessions.CallUnary(ctx, req)
}

func (c *AdminServiceClient) CloseSession(ctx context.Context, req *connect.Request[playerv1.CloseSessionRequest]) (*connect.Response[playerv1.CloseSessionResponse], error) {
	return c.closeSession.CallUnary(ctx, req)
}

func (c *AdminServiceClient) RefreshCatalog(ctx context.Context, req *connect.Request[playerv1.RefreshCatalogRequest]) (*connect.Response[playerv1.RefreshCatalogResponse], error) {
	return c.refreshCatalog.CallUnary(ctx, req)
}
