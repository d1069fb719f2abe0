// Package playerv1connect wires the playerv1 services to Connect handlers
// and clients.
package playerv1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	playerv1 "github.com/osa030/podcastr/internal/api/playerv1"
)

// PlayerServiceName is the fully-qualified name of the PlayerService service.
const PlayerServiceName = "podcastr.player.v1.PlayerService"

// Procedure names of PlayerService.
const (
	PlayerServiceOpenSessionProcedure      = "/podcastr.player.v1.PlayerService/OpenSession"
	PlayerServiceGetStateProcedure         = "/podcastr.player.v1.PlayerService/GetState"
	PlayerServicePlayProcedure             = "/podcastr.player.v1.PlayerService/Play"
	PlayerServicePlayListProcedure         = "/podcastr.player.v1.PlayerService/PlayList"
	PlayerServiceSetPlayingProcedure       = "/podcastr.player.v1.PlayerService/SetPlaying"
	PlayerServiceTogglePlayProcedure       = "/podcastr.player.v1.PlayerService/TogglePlay"
	PlayerServiceToggleLoopProcedure       = "/podcastr.player.v1.PlayerService/ToggleLoop"
	PlayerServiceToggleShuffleProcedure    = "/podcastr.player.v1.PlayerService/ToggleShuffle"
	PlayerServicePlayNextProcedure         = "/podcastr.player.v1.PlayerService/PlayNext"
	PlayerServicePlayPreviousProcedure     = "/podcastr.player.v1.PlayerService/PlayPrevious"
	PlayerServiceClearPlayerStateProcedure = "/podcastr.player.v1.PlayerService/ClearPlayerState"
	PlayerServiceSeekProcedure             = "/podcastr.player.v1.PlayerService/Seek"
	PlayerServiceReportMediaEventProcedure = "/podcastr.player.v1.PlayerService/ReportMediaEvent"
)

// PlayerServiceHandler is implemented by the player service.
type PlayerServiceHandler interface {
	OpenSession(context.Context, *connect.Request[playerv1.OpenSessionRequest]) (*connect.Response[playerv1.OpenSessionResponse], error)
	GetState(context.Context, *connect.Request[playerv1.GetStateRequest]) (*connect.Response[playerv1.StateResponse], error)
	Play(context.Context, *connect.Request[playerv1.PlayRequest]) (*connect.Response[playerv1.StateResponse], error)
	PlayList(context.Context, *connect.Request[playerv1.PlayListRequest]) (*connect.Response[playerv1.StateResponse], error)
	SetPlaying(context.Context, *connect.Request[playerv1.SetPlayingRequest]) (*connect.Response[playerv1.StateResponse], error)
	TogglePlay(context.Context, *connect.Request[playerv1.ControlRequest]) (*connect.Response[playerv1.StateResponse], error)
	ToggleLoop(context.Context, *connect.Request[playerv1.ControlRequest]) (*connect.Response[playerv1.StateResponse], error)
	ToggleShuffle(context.Context, *connect.Request[playerv1.ControlRequest]) (*connect.Response[playerv1.StateResponse], error)
	PlayNext(context.Context, *connect.Request[playerv1.ControlRequest]) (*connect.Response[playerv1.StateResponse], error)
	PlayPrevious(context.Context, *connect.Request[playerv1.ControlRequest]) (*connect.Response[playerv1.StateResponse], error)
	ClearPlayerState(context.Context, *connect.Request[playerv1.ControlRequest]) (*connect.Response[playerv1.StateResponse], error)
	Seek(context.Context, *connect.Request[playerv1.SeekRequest]) (*connect.Response[playerv1.StateResponse], error)
	ReportMediaEvent(context.Context, *connect.Request[playerv1.ReportMediaEventRequest]) (*connect.Response[playerv1.ReportMediaEventResponse], error)
}

// NewPlayerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewPlayerServiceHandler(svc PlayerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(playerv1.JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(PlayerServiceOpenSessionProcedure, connect.NewUnaryHandler(PlayerServiceOpenSessionProcedure, svc.OpenSession, opts...))
	mux.Handle(PlayerServiceGetStateProcedure, connect.NewUnaryHandler(PlayerServiceGetStateProcedure, svc.GetState, opts...))
	mux.Handle(PlayerServicePlayProcedure, connect.NewUnaryHandler(PlayerServicePlayProcedure, svc.Play, opts...))
	mux.Handle(PlayerServicePlayListProcedure, connect.NewUnaryHandler(PlayerServicePlayListProcedure, svc.PlayList, opts...))
	mux.Handle(PlayerServiceSetPlayingProcedure, connect.NewUnaryHandler(PlayerServiceSetPlayingProcedure, svc.SetPlaying, opts...))
	mux.Handle(PlayerServiceTogglePlayProcedure, connect.NewUnaryHandler(PlayerServiceTogglePlayProcedure, svc.TogglePlay, opts...))
	mux.Handle(PlayerServiceToggleLoopProcedure, connect.NewUnaryHandler(PlayerServiceToggleLoopProcedure, svc.ToggleLoop, opts...))
	mux.Handle(PlayerServiceToggleShuffleProcedure, connect.NewUnaryHandler(PlayerServiceToggleShuffleProcedure, svc.ToggleShuffle, opts...))
	mux.Handle(PlayerServicePlayNextProcedure, connect.NewUnaryHandler(PlayerServicePlayNextProcedure, svc.PlayNext, opts...))
	mux.Handle(PlayerServicePlayPreviousProcedure, connect.NewUnaryHandler(PlayerServicePlayPreviousProcedure, svc.PlayPrevious, opts...))
	mux.Handle(PlayerServiceClearPlayerStateProcedure, connect.NewUnaryHandler(PlayerServiceClearPlayerStateProcedure, svc.ClearPlayerState, opts...))
	mux.Handle(PlayerServiceSeekProcedure, connect.NewUnaryHandler(PlayerServiceSeekProcedure, svc.Seek, opts...))
	mux.Handle(PlayerServiceReportMediaEventProcedure, connect.NewUnaryHandler(PlayerServiceReportMediaEventProcedure, svc.ReportMediaEvent, opts...))
	return "/" + PlayerServiceName + "/", mux
}

// PlayerServiceClient is a client for the player service.
type PlayerServiceClient struct {
	openSession      *connect.Client[playerv1.OpenSessionRequest, playerv1.OpenSessionResponse]
	getState         *connect.Client[playerv1.GetStateRequest, playerv1.StateResponse]
	play             *connect.Client[playerv1.PlayRequest, playerv1.StateResponse]
	playList         *connect.Client[playerv1.PlayListRequest, playerv1.StateResponse]
	setPlaying       *connect.Client[playerv1.SetPlayingRequest, playerv1.StateResponse]
	togglePlay       *connect.Client[playerv1.ControlRequest, playerv1.StateResponse]
	toggleLoop       *connect.Client[playerv1.ControlRequest, playerv1.StateResponse]
	toggleShuffle    *connect.Client[playerv1.ControlRequest, playerv1.StateResponse]
	playNext         *connect.Client[playerv1.ControlRequest, playerv1.StateResponse]
	playPrevious     *connect.Client[playerv1.ControlRequest, playerv1.StateResponse]
	clearPlayerState *connect.Client[playerv1.ControlRequest, playerv1.StateResponse]
	seek             *connect.Client[playerv1.SeekRequest, playerv1.StateResponse]
	reportMediaEvent *connect.Client[playerv1.ReportMediaEventRequest, playerv1.ReportMediaEventResponse]
}

// NewPlayerServiceClient constructs a client for the player service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewPlayerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PlayerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(playerv1.JSONCodec{})}, opts...)
	return &PlayerServiceClient{
		openSession:      connect.NewClient[playerv1.OpenSessionRequest, playerv1.OpenSessionResponse](httpClient, baseURL+PlayerServiceOpenSessionProcedure, opts...),
		getState:         connect.NewClient[playerv1.GetStateRequest, playerv1.StateResponse](httpClient, baseURL+PlayerServiceGetStateProcedure, opts...),
		play:             connect.NewClient[playerv1.PlayRequest, playerv1.StateResponse](httpClient, baseURL+PlayerServicePlayProcedure, opts...),
		playList:         connect.NewClient[playerv1.PlayListRequest, playerv1.StateResponse](httpClient, baseURL+PlayerServicePlayListProcedure, opts...),
		setPlaying:       connect.NewClient[playerv1.SetPlayingRequest, playerv1.StateResponse](httpClient, baseURL+PlayerServiceSetPlayingProcedure, opts...),
		togglePlay:       connect.NewClient[playerv1.ControlRequest, playerv1.StateResponse](httpClient, baseURL+PlayerServiceTogglePlayProcedure, opts...),
		toggleLoop:       connect.NewClient[playerv1.ControlRequest, playerv1.StateResponse](httpClient, baseURL+PlayerServiceToggleLoopProcedure, opts...),
		toggleShuffle:    connect.NewClient[playerv1.ControlRequest, playerv1.StateResponse](httpClient, baseURL+PlayerServiceToggleShuffleProcedure, opts...),
		playNext:         connect.NewClient[playerv1.ControlRequest, playerv1.StateResponse](httpClient, baseURL+PlayerServicePlayNextProcedure, opts...),
		playPrevious:     connect.NewClient[playerv1.ControlRequest, playerv1.StateResponse](httpClient, baseURL+PlayerServicePlayPreviousProcedure, opts...),
		clearPlayerState: connect.NewClient[playerv1.ControlRequest, playerv1.StateResponse](httpClient, baseURL+PlayerServiceClearPlayerStateProcedure, opts...),
		seek:             connect.NewClient[playerv1.SeekRequest, playerv1.StateResponse](httpClient, baseURL+PlayerServiceSeekProcedure, opts...),
		reportMediaEvent: connect.NewClient[playerv1.ReportMediaEventRequest, playerv1.ReportMediaEventResponse](httpClient, baseURL+PlayerServiceReportMediaEventProcedure, opts...),
	}
}

func (c *PlayerServiceClient) OpenSession(ctx context.Context, req *connect.Request[playerv1.OpenSessionRequest]) (*connect.Response[playerv1.OpenSessionResponse], error) {
	return c.openSession.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) GetState(ctx context.Context, req *connect.Request[playerv1.GetStateRequest]) (*connect.Response[playerv1.StateResponse], error) {
	return c.getState.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) Play(ctx context.Context, req *connect.Request[playerv1.PlayRequest]) (*connect.Response[playerv1.StateResponse], error) {
	return c.play.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) PlayList(ctx context.Context, req *connect.Request[playerv1.PlayListRequest]) (*connect.Response[playerv1.StateResponse], error) {
	return c.playList.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) SetPlaying(ctx context.Context, req *connect.Request[playerv1.SetPlayingRequest]) (*connect.Response[playerv1.StateResponse], error) {
	return c.setPlaying.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) TogglePlay(ctx context.Context, req *connect.Request[playerv1.ControlRequest]) (*connect.Response[playerv1.StateResponse], error) {
	return c.togglePlay.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) ToggleLoop(ctx context.Context, req *connect.Request[playerv1.ControlRequest]) (*connect.Response[playerv1.StateResponse], error) {
	return c.toggleLoop.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) ToggleShuffle(ctx context.Context, req *connect.Request[playerv1.ControlRequest]) (*connect.Response[playerv1.StateResponse], error) {
	return c.toggleShuffle.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) PlayNext(ctx context.Context, req *connect.Request[playerv1.ControlRequest]) (*connect.Response[playerv1.StateResponse], error) {
	return c.playNext.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) PlayPrevious(ctx context.Context, req *connect.Request[playerv1.ControlRequest]) (*connect.Response[playerv1.StateResponse], error) {
	return c.playPrevious.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) ClearPlayerState(ctx context.Context, req *connect.Request[playerv1.ControlRequest]) (*connect.Response[playerv1.StateResponse], error) {
	return c.clearPlayerState.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) Seek(ctx context.Context, req *connect.Request[playerv1.SeekRequest]) (*connect.Response[playerv1.StateResponse], error) {
	return c.seek.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) ReportMediaEvent(ctx context.Context, req *connect.Request[playerv1.ReportMediaEventRequest]) (*connect.Response[playerv1.ReportMediaEventResponse], error) {
	return c.reportMediaEvent.CallUnary(ctx, req)
}
