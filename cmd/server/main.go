package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"markethub/internal/app"
	"markethub/internal/config"
	"markethub/internal/logger"
	"markethub/internal/refresh"
	"markethub/internal/storage"
	"markethub/internal/store"
)

func main() {
	cfg, err := config.Load(os.Getenv("MARKETHUB_CONFIG_DIR"))
	if err != nil {
		zap.NewExample().Fatal("config", zap.Error(err))
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		zap.NewExample().Fatal("logger", zap.Error(err))
	}
	defer log.Sync()

	if cfg.Providers.Finnhub.APIKey == "" {
		log.Warn("no finnhub api key configured; stocks and etfs will be simulated")
	}
	if cfg.Providers.Metals.APIKey == "" {
		log.Info("no metals api key configured; metals will be simulated")
	}

	// Preferences survive restarts on a best-effort basis only: a store that
	// fails to open degrades to in-memory defaults.
	prefs, err := storage.Open(cfg.Storage.Path, log)
	if err != nil {
		log.Warn("preference storage unavailable, preferences will not persist", zap.Error(err))
		prefs = nil
	}
	defer prefs.Close()

	st := store.New(prefs, cfg.Refresh.IntervalSec, log)
	sources, fx := app.BuildSources(cfg, log)
	orch := refresh.New(st, fx, sources,
		cfg.Refresh.IntervalSec,
		time.Duration(cfg.Refresh.CycleTimeoutSec)*time.Second,
		log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go orch.Run(ctx)

	hub := newHub(st, log)
	defer hub.close()

	api := &api{store: st, orch: orch, hub: hub, log: log}
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           withJSONHeaders(recoverPanic(limitBody(api.routes()))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// withJSONHeaders sets response headers and permissive CORS for browser
// dashboards.
func withJSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitBody caps request body size to avoid memory abuse.
func limitBody(next http.Handler) http.Handler {
	const maxBody = 1 << 20 // 1MB
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		}
		next.ServeHTTP(w, r)
	})
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
