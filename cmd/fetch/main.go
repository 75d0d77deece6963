// Command fetch runs a single refresh cycle and prints the resulting
// snapshot as JSON. Useful for checking provider connectivity and fallback
// behavior without starting the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"markethub/internal/app"
	"markethub/internal/config"
	"markethub/internal/logger"
	"markethub/internal/refresh"
	"markethub/internal/store"
)

func main() {
	configDir := flag.String("config", "", "directory containing config.yaml")
	currency := flag.String("currency", "", "display currency override (USD or EUR)")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		zap.NewExample().Fatal("config", zap.Error(err))
	}
	cfg.Log.Format = "console"
	log, err := logger.New(cfg.Log)
	if err != nil {
		zap.NewExample().Fatal("logger", zap.Error(err))
	}
	defer log.Sync()

	// No preference persistence for a one-shot run.
	st := store.New(nil, cfg.Refresh.IntervalSec, log)
	if *currency != "" {
		st.Update(func(s *store.State) { s.Currency = *currency })
	}

	sources, fx := app.BuildSources(cfg, log)
	orch := refresh.New(st, fx, sources,
		cfg.Refresh.IntervalSec,
		time.Duration(cfg.Refresh.CycleTimeoutSec)*time.Second,
		log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	orch.RunCycle(ctx)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st.State().Snapshot); err != nil {
		log.Fatal("encode snapshot", zap.Error(err))
	}
}
