package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedmill/feedmill/app/api"
	"github.com/feedmill/feedmill/app/cache"
	"github.com/feedmill/feedmill/app/cfg"
	"github.com/feedmill/feedmill/app/database"
	"github.com/feedmill/feedmill/app/feed"
	"github.com/feedmill/feedmill/app/loader"
	"github.com/feedmill/feedmill/app/sources"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Feedmill", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	srcs, err := sources.Load(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load sources", "file", appCfg.SourcesFile, "error", err)
		os.Exit(1)
	}
	// Positional arguments are ad-hoc sources alongside the YAML list.
	for _, arg := range appCfg.Args {
		srcs = append(srcs, sources.Source{Name: arg, URL: arg})
	}
	slog.Info("Loaded sources", "count", len(srcs))

	opts := feed.DefaultOptions()
	opts.CacheEnabled = appCfg.CacheEnabled
	opts.CacheDir = appCfg.CacheDir
	opts.CacheTTLMinutes = appCfg.CacheTTLMinutes
	opts.SummaryMaxLength = appCfg.SummaryMaxLength
	opts.ImageSource = appCfg.ImageSource
	opts.DateFormat = appCfg.DateFormat
	opts.ExtractContent = appCfg.ExtractContent

	docLoader := loader.New(appCfg.UserAgent, 30*time.Second)
	session := feed.NewSession(opts, docLoader, cache.New(opts))
	session.SetExtractor(feed.NewContentExtractor(appCfg.UserAgent))

	feedRepo := database.NewFeedRepository(db)
	itemRepo := database.NewItemRepository(db)

	// One serial pass over all sources at startup; failures are recorded
	// and skipped.
	runSession(session, feedRepo, itemRepo, srcs)

	handler := api.NewHandler(session, feedRepo, itemRepo, srcs, appCfg.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}

func runSession(session *feed.Session, feedRepo *database.FeedRepository,
	itemRepo *database.ItemRepository, srcs []sources.Source) {
	ctx := context.Background()

	for _, src := range srcs {
		if err := feedRepo.UpsertFeed(src.Name, src.URL); err != nil {
			slog.Warn("Failed to register feed", "feed", src.Name, "error", err)
			continue
		}

		batch := session.Run(ctx, src.URL)
		if len(batch) == 0 {
			slog.Warn("Source produced no result", "feed", src.Name, "error", session.LastError())
			continue
		}

		if err := itemRepo.ReplaceItems(src.Name, batch[0]); err != nil {
			slog.Warn("Failed to archive items", "feed", src.Name, "error", err)
			continue
		}
		if err := feedRepo.TouchFetched(src.Name, time.Now()); err != nil {
			slog.Warn("Failed to update fetch time", "feed", src.Name, "error", err)
		}
	}

	slog.Info("Initial parse pass complete",
		"sources", len(srcs),
		"items", session.Count(),
		"errors", session.Errors().Len())
}
