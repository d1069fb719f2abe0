// Package main provides the admin CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/podcastr/internal/api/connect"
	playerv1 "github.com/osa030/podcastr/internal/api/playerv1"
	"github.com/osa030/podcastr/internal/api/playerv1/playerv1connect"
)

var (
	app    = kingpin.New("podcastr-admincli", "Podcastr admin client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "Admin token (or set ADMIN_TOKEN env)").Envar("ADMIN_TOKEN").String()

	// list-sessions command
	listCmd = app.Command("list-sessions", "List live player sessions").Alias("list")

	// close command
	closeCmd     = app.Command("close", "Close a player session")
	closeSession = closeCmd.Arg("session-id", "Session ID (UUID)").Required().String()

	// refresh command
	refreshCmd  = app.Command("refresh", "Drop the cached episode listing")
	refreshWarm = refreshCmd.Flag("warm", "Refetch the listing right away").Bool()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if *token == "" {
		fmt.Println("Error: admin token is required (use --token or ADMIN_TOKEN env)")
		os.Exit(1)
	}

	client := playerv1connect.NewAdminServiceClient(
		http.DefaultClient,
		*server,
	)

	ctx := context.Background()

	switch command {
	case listCmd.FullCommand():
		listSessions(ctx, client, *token)
	case closeCmd.FullCommand():
		closeOne(ctx, client, *token, *closeSession)
	case refreshCmd.FullCommand():
		refresh(ctx, client, *token, *refreshWarm)
	}
}

func listSessions(ctx context.Context, client *playerv1connect.AdminServiceClient, token string) {
	req := connect.NewRequest(&playerv1.ListSessionsRequest{})
	req.Header().Set(apiconnect.AdminTokenHeader, token)
	resp, err := client.ListSessions(ctx, req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sessions (%d):\n", len(resp.Msg.Sessions))
	for _, s := range resp.Msg.Sessions {
		fmt.Printf("  %s: created %s, last seen %s, streams %d\n", s.Id, s.CreatedAt, s.LastSeenAt, s.Streams)
		if s.State == nil || s.State.Episode == nil {
			fmt.Println("    (idle)")
			continue
		}
		fmt.Printf("    %s %s [%d/%d] %s / %s\n",
			formatStatus(s.State.Status), s.State.Episode.Title,
			s.State.CurrentIndex+1, s.State.QueueLength,
			s.State.ProgressLabel, s.State.DurationLabel)
	}
}

func closeOne(ctx context.Context, client *playerv1connect.AdminServiceClient, token, sessionID string) {
	req := connect.NewRequest(&playerv1.CloseSessionRequest{SessionId: sessionID})
	req.Header().Set(apiconnect.AdminTokenHeader, token)
	if _, err := client.CloseSession(ctx, req); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Session closed")
}

func refresh(ctx context.Context, client *playerv1connect.AdminServiceClient, token string, warm bool) {
	req := connect.NewRequest(&playerv1.RefreshCatalogRequest{Warm: warm})
	req.Header().Set(apiconnect.AdminTokenHeader, token)
	resp, err := client.RefreshCatalog(ctx, req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Cache invalidated (%d entries)\n", resp.Msg.Invalidated)
	if warm {
		fmt.Printf("Listing refetched (%d episodes)\n", resp.Msg.Episodes)
	}
}

func formatStatus(status string) string {
	switch status {
	case "playing":
		return "▶️  Playing"
	case "paused":
		return "⏸  Paused"
	case "idle":
		return "⏹  Idle"
	default:
		return "❓ Unknown"
	}
}
