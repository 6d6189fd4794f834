package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/wikiguess/internal/api"
	"github.com/dgallion1/wikiguess/internal/config"
	"github.com/dgallion1/wikiguess/internal/game"
	"github.com/dgallion1/wikiguess/internal/pipeline"
	"github.com/dgallion1/wikiguess/internal/wikipedia"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.APIKey == "" {
		log.Warn("WIKIGUESS_API_KEY not set, API is unauthenticated")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	wiki := wikipedia.NewClient(wikipedia.Options{
		APIURL:        cfg.WikipediaAPIURL,
		RandomURL:     cfg.RandomArticleURL,
		ArticlePrefix: cfg.ArticleURLPrefix,
		UserAgent:     cfg.UserAgent,
		Timeout:       cfg.FetchTimeout,
	})

	// Initialize pipeline.
	games := game.NewStore(cfg.GameTTL)
	orch := pipeline.NewOrchestrator(cfg, wiki, games, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, games, wiki.Stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		wiki.Close()
	}()

	log.Info("starting wikiguess", "port", cfg.Port, "workers", cfg.WorkerCount, "default_lang", cfg.DefaultLanguage)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
