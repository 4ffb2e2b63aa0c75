package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/channel-comb/app/api"
	"github.com/lysyi3m/channel-comb/app/cfg"
	"github.com/lysyi3m/channel-comb/app/database"
	"github.com/lysyi3m/channel-comb/app/feed"
	"github.com/lysyi3m/channel-comb/app/orchestrator"
	"github.com/lysyi3m/channel-comb/app/registry"
	"github.com/lysyi3m/channel-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting Channel Comb server", "version", appCfg.Version, "port", appCfg.Port)

	options := []orchestrator.Option{orchestrator.WithPageSize(appCfg.PageSize)}
	if appCfg.DiscardStale {
		options = append(options, orchestrator.WithStaleDiscard())
	}

	if appCfg.StoreEnabled() {
		db, err := openStore(appCfg.StoreDSN)
		if err != nil {
			slog.Error("Store unavailable, continuing with live fetches only", "error", err)
		} else {
			defer db.Close()
			options = append(options, orchestrator.WithStore(database.NewStore(db)))
		}
	} else {
		slog.Info("No store configured, using live fetches only")
	}

	fetcher := feed.NewFetcher(&http.Client{Timeout: appCfg.FetchTimeout}, appCfg.FeedURLTemplate, appCfg.UserAgent)
	orch := orchestrator.New(fetcher, feed.NewParser(), options...)

	prefs := registry.NewFilePreferences(appCfg.StateFile)
	channels := registry.New(prefs)
	session := orchestrator.NewSession()
	for _, channelID := range channels.IDs() {
		session.Ensure(channelID)
	}
	slog.Info("Tracked channels restored", "count", len(channels.IDs()), "active", channels.Active(), "state_file", prefs.Path())

	scheduler := tasks.NewScheduler(channels, orch, session, tasks.Config{
		WorkerCount:     appCfg.WorkerCount,
		RefreshInterval: appCfg.RefreshInterval,
	})
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(fetcher, orch, channels, session, feed.NewFilterer(), appCfg.Version)
	server := api.NewServer(handler, appCfg.StaticDir)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: appCfg.FetchTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr, "feed_proxy", "/api/feed?channelId=UC...")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}

func openStore(dsn string) (*database.DB, error) {
	db, err := database.NewConnection(dsn)
	if err != nil {
		return nil, err
	}

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("Store ready", "dsn", dsn, "migration_version", version, "dirty", dirty)
	return db, nil
}
