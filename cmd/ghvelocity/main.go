package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/ghvelocity/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/ghvelocity/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/ghvelocity/internal/adapter/driving/http"
	"github.com/ericfisherdev/ghvelocity/internal/application"
	"github.com/ericfisherdev/ghvelocity/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"poll_interval", cfg.PollInterval,
		"rollup_min_interval", cfg.RollupMinInterval,
		"repo", cfg.GitHubOwner+"/"+cfg.GitHubRepo,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	store := sqliteadapter.NewSampleRepo(db)

	velocitySvc := application.NewVelocityService(store, cfg.RollupMinInterval)
	go velocitySvc.Start(ctx, cfg.PollInterval)

	if cfg.HasTracker() {
		tracker := githubadapter.NewClient(cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubRepo)
		ingestSvc := application.NewIngestService(tracker, store, cfg.PollInterval)
		go ingestSvc.Start(ctx)
		slog.Info("ingestion started", "repo", cfg.GitHubOwner+"/"+cfg.GitHubRepo)
	} else {
		slog.Info("no repository configured, ingestion disabled")
	}

	apiHandler := httphandler.NewHandler(store, velocitySvc, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("ghvelocity started",
		"listen_addr", cfg.ListenAddr,
		"poll_interval", cfg.PollInterval,
	)

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
