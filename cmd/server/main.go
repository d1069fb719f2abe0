// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/osa030/podcastr/internal/api/connect"
	"github.com/osa030/podcastr/internal/api/playerv1/playerv1connect"
	"github.com/osa030/podcastr/internal/api/web"
	"github.com/osa030/podcastr/internal/app/catalog"
	"github.com/osa030/podcastr/internal/app/filter"
	"github.com/osa030/podcastr/internal/app/session"
	"github.com/osa030/podcastr/internal/buildinfo"
	"github.com/osa030/podcastr/internal/infra/config"
	"github.com/osa030/podcastr/internal/infra/locale"
	"github.com/osa030/podcastr/internal/infra/logger"
	"github.com/osa030/podcastr/internal/infra/spotify"
)

var (
	app        = kingpin.New("podcastr-server", "Podcastr podcast player server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
	skipCheck  = app.Flag("skip-source-check", "Do not validate episode sources at startup").Bool()

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available filters and exit")
)

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the server (default)").Default()
	app.Version(buildinfo.Current().String())
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = "file"
		loggerConfig.File = *logfile
	}
	logCloser, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logCloser.Close()

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	filters, err := filter.NewChainFromConfig(cfg.Filters)
	if err != nil {
		return fmt.Errorf("invalid filter config: %w", err)
	}

	var spotifyClient catalog.SpotifyClient
	if cfg.HasSource(config.SourceTypeSpotify) {
		client, err := spotify.New(ctx, spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			Market:       cfg.Spotify.Market,
		})
		if err != nil {
			return fmt.Errorf("failed to create Spotify client: %w", err)
		}
		spotifyClient = client
	}

	sources, err := catalog.NewSourceChainFromConfig(cfg, spotifyClient)
	if err != nil {
		return fmt.Errorf("failed to create episode sources: %w", err)
	}
	if !*skipCheck {
		if err := catalog.ValidateSources(ctx, sources.Sources(), catalog.DefaultValidateOptions); err != nil {
			return fmt.Errorf("source validation failed: %w", err)
		}
	}

	catalogService := catalog.NewService(sources, catalog.Options{
		PageSize:     cfg.Catalog.PageSize,
		LatestCount:  cfg.Catalog.LatestCount,
		Revalidate:   cfg.Catalog.Revalidate,
		FetchTimeout: cfg.Catalog.FetchTimeout,
		Filters:      filters,
	})

	formatter, err := locale.New(cfg.Site.Locale, cfg.Location())
	if err != nil {
		return fmt.Errorf("failed to create locale formatter: %w", err)
	}

	sessionMgr := session.NewManager(
		session.WithIdleTimeout(cfg.Session.IdleTimeout),
		session.WithSweepInterval(cfg.Session.SweepInterval),
		session.WithSendTimeout(cfg.Session.SendTimeout),
	)
	go sessionMgr.Run(ctx)

	// RPC services
	playerService := apiconnect.NewPlayerService(sessionMgr, catalogService,
		apiconnect.WithCookie(cfg.Session.CookieName, cfg.Session.IdleTimeout, false),
	)
	adminService := apiconnect.NewAdminService(sessionMgr, catalogService)

	playerPath, playerHandler := playerv1connect.NewPlayerServiceHandler(
		playerService,
		connect.WithInterceptors(apiconnect.NewSessionInterceptor(sessionMgr, cfg.Session.CookieName)),
	)
	adminPath, adminHandler := playerv1connect.NewAdminServiceHandler(
		adminService,
		connect.WithInterceptors(apiconnect.NewAdminAuthInterceptor(cfg.Admin.Token)),
	)

	webServer, err := web.NewServer(web.Options{
		Logger:     zlog.Logger,
		Site:       cfg.Site,
		Catalog:    catalogService,
		Sessions:   sessionMgr,
		Locale:     formatter,
		CookieName: cfg.Session.CookieName,
		Cookie:     playerService.Cookie,
		RPC: []web.Mount{
			{Path: playerPath, Handler: playerHandler},
			{Path: adminPath, Handler: adminHandler},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	serverAddr := cfg.Server.Addr
	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           h2c.NewHandler(webServer.Router(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	serverStartedCh := make(chan struct{})

	go func() {
		zlog.Info().Msgf("Starting server: addr=%s version=%s", serverAddr, buildinfo.Version)
		close(serverStartedCh)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	<-serverStartedCh
	// Give the server a moment to fully initialize
	time.Sleep(100 * time.Millisecond)

	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Close sessions first so open player streams end at their next heartbeat.
	cancel()
	sessionMgr.Shutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")

	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return nil
}

// printFilters prints available filters.
func printFilters() {
	fmt.Println("Available Filters:")
	registry := filter.GetRegistered()
	for _, name := range filter.Names() {
		f := registry[name]()
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", f.Name(), f.Description(), codes)
	}
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
