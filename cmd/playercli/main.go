// Package main provides the player CLI entry point for testing.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/podcastr/internal/api/connect"
	playerv1 "github.com/osa030/podcastr/internal/api/playerv1"
	"github.com/osa030/podcastr/internal/api/playerv1/playerv1connect"
)

var (
	app       = kingpin.New("podcastr-playercli", "Podcastr player client for testing")
	server    = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	sessionID = app.Flag("session", "Session ID (or set PODCASTR_SESSION env)").Envar("PODCASTR_SESSION").String()

	// open command
	openCmd = app.Command("open", "Open a player session")

	// state command
	stateCmd = app.Command("state", "Show the player state")

	// play command
	playCmd     = app.Command("play", "Play a single episode")
	playEpisode = playCmd.Arg("episode-id", "Episode ID").Required().String()

	// play-list command
	playListCmd      = app.Command("play-list", "Queue episodes and play one of them")
	playListIndex    = playListCmd.Arg("index", "Index of the first episode to play").Required().Int32()
	playListEpisodes = playListCmd.Arg("episode-ids", "Episode IDs").Required().Strings()

	// control commands
	toggleCmd  = app.Command("toggle", "Toggle play, loop or shuffle")
	toggleWhat = toggleCmd.Arg("what", "play, loop or shuffle").Required().Enum("play", "loop", "shuffle")
	nextCmd    = app.Command("next", "Play the next episode")
	prevCmd    = app.Command("previous", "Play the previous episode").Alias("prev")
	clearCmd   = app.Command("clear", "Clear the queue")
	seekCmd    = app.Command("seek", "Seek within the current episode")
	seekPos    = seekCmd.Arg("position", "Position in seconds").Required().Int32()

	// watch command
	watchCmd = app.Command("watch", "Print the player stream")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	client := playerv1connect.NewPlayerServiceClient(
		http.DefaultClient,
		*server,
	)

	ctx := context.Background()

	if command == openCmd.FullCommand() {
		open(ctx, client)
		return
	}
	if *sessionID == "" {
		fmt.Println("Error: session is required (use --session or PODCASTR_SESSION env)")
		os.Exit(1)
	}

	switch command {
	case stateCmd.FullCommand():
		printState(call(client.GetState(ctx, withSession(&playerv1.GetStateRequest{}))))
	case playCmd.FullCommand():
		printState(call(client.Play(ctx, withSession(&playerv1.PlayRequest{EpisodeId: *playEpisode}))))
	case playListCmd.FullCommand():
		printState(call(client.PlayList(ctx, withSession(&playerv1.PlayListRequest{
			EpisodeIds: *playListEpisodes,
			Index:      *playListIndex,
		}))))
	case toggleCmd.FullCommand():
		req := withSession(&playerv1.ControlRequest{})
		switch *toggleWhat {
		case "play":
			printState(call(client.TogglePlay(ctx, req)))
		case "loop":
			printState(call(client.ToggleLoop(ctx, req)))
		case "shuffle":
			printState(call(client.ToggleShuffle(ctx, req)))
		}
	case nextCmd.FullCommand():
		printState(call(client.PlayNext(ctx, withSession(&playerv1.ControlRequest{}))))
	case prevCmd.FullCommand():
		printState(call(client.PlayPrevious(ctx, withSession(&playerv1.ControlRequest{}))))
	case clearCmd.FullCommand():
		printState(call(client.ClearPlayerState(ctx, withSession(&playerv1.ControlRequest{}))))
	case seekCmd.FullCommand():
		printState(call(client.Seek(ctx, withSession(&playerv1.SeekRequest{Position: *seekPos}))))
	case watchCmd.FullCommand():
		watch(ctx)
	}
}

func withSession[T any](msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(apiconnect.SessionHeader, *sessionID)
	return req
}

func call(resp *connect.Response[playerv1.StateResponse], err error) *playerv1.StateResponse {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return resp.Msg
}

func open(ctx context.Context, client *playerv1connect.PlayerServiceClient) {
	req := connect.NewRequest(&playerv1.OpenSessionRequest{})
	if *sessionID != "" {
		req.Header().Set(apiconnect.SessionHeader, *sessionID)
	}
	resp, err := client.OpenSession(ctx, req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if resp.Msg.Created {
		fmt.Printf("Session opened! Your session ID: %s\n", resp.Msg.SessionId)
	} else {
		fmt.Printf("Session resumed: %s\n", resp.Msg.SessionId)
	}
	printState(&playerv1.StateResponse{State: resp.Msg.State})
}

func printState(resp *playerv1.StateResponse) {
	s := resp.State
	if s == nil {
		return
	}
	fmt.Printf("\nStatus: %s", s.Status)
	if resp.Moved {
		fmt.Print(" (moved)")
	}
	fmt.Println()

	if s.Episode == nil {
		fmt.Println("No episode loaded")
		fmt.Println()
		return
	}
	fmt.Printf("  Episode: %s (%s)\n", s.Episode.Title, s.Episode.Id)
	fmt.Printf("  Members: %s\n", s.Episode.Members)
	fmt.Printf("  URL: %s\n", s.Episode.Url)
	fmt.Printf("  Position: %s / %s\n", s.ProgressLabel, s.DurationLabel)
	fmt.Printf("  Queue: %d/%d\n", s.CurrentIndex+1, s.QueueLength)
	fmt.Printf("  Looping: %v  Shuffled: %v\n", s.IsLooping, s.IsShuffled)
	fmt.Printf("  Has next: %v  Has previous: %v\n", s.HasNext, s.HasPrevious)
	fmt.Println()
}

// watch prints the frames of the session's player stream.
func watch(ctx context.Context) {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(*server, "/")+"/player/stream", nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set(apiconnect.SessionHeader, *sessionID)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Error: %s\n", resp.Status)
		os.Exit(1)
	}

	fmt.Println("Watching player stream. Press Ctrl+C to exit.")

	var event, id string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "id: "):
			id = strings.TrimPrefix(line, "id: ")
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			printFrame(id, event, strings.TrimPrefix(line, "data: "))
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		fmt.Printf("Stream error: %v\n", err)
	}
}

func printFrame(id, event, data string) {
	fmt.Printf("\n[Sequence: %s] ", id)
	switch event {
	case "initial_state":
		fmt.Println("=== INITIAL STATE ===")
	case "state":
		fmt.Println("=== STATE CHANGED ===")
	case "command":
		fmt.Println("=== MEDIA COMMAND ===")
	default:
		fmt.Printf("=== UNKNOWN EVENT (%s) ===\n", event)
	}

	var pretty map[string]any
	if err := json.Unmarshal([]byte(data), &pretty); err != nil {
		fmt.Println(data)
		return
	}
	out, _ := json.MarshalIndent(pretty, "  ", "  ")
	fmt.Printf("  %s\n", out)
}
