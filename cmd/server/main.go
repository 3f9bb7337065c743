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

	"github.com/dgallion1/pagewright/internal/api"
	"github.com/dgallion1/pagewright/internal/config"
	"github.com/dgallion1/pagewright/internal/docstore"
	"github.com/dgallion1/pagewright/internal/pathstore"
	"github.com/dgallion1/pagewright/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("load configuration", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	docs, err := openStore(cfg, log)
	if err != nil {
		log.Error("open document store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	sessions := session.NewManager(docs, cfg.SessionTTL, session.Defaults{
		WordsPerPage: cfg.Editor.WordsPerPage,
		Settings: session.Settings{
			Header:           cfg.Editor.Header,
			Footer:           cfg.Editor.Footer,
			ShowHeaderFooter: cfg.Editor.ShowHeaderFooter,
			FontSize:         cfg.Editor.FontSize,
			FontFamily:       cfg.Editor.FontFamily,
		},
	}, log)
	sessions.Start(ctx)

	srv := api.NewServer(sessions, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		sessions.Stop()
		if err := docs.Close(); err != nil {
			log.Warn("close document store", "error", err)
		}
	}()

	log.Info("starting pagewright", "port", cfg.Port, "store", cfg.StoreDriver)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
}

func openStore(cfg config.Config, log *slog.Logger) (docstore.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return docstore.NewMemoryStore(), nil
	case config.StoreSQLite:
		return docstore.NewSQLiteStore(cfg.SQLitePath)
	case config.StorePathstore:
		return docstore.NewPathstoreStore(pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey), log), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
