// Command mindsim runs the Wildmind creature cognition simulation: a
// noise-generated resource field populated by creatures that remember,
// plan and argue with themselves about what to do next.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/wildmind/internal/api"
	"github.com/talgya/wildmind/internal/config"
	"github.com/talgya/wildmind/internal/engine"
	"github.com/talgya/wildmind/internal/knowledge"
	"github.com/talgya/wildmind/internal/persistence"
	"github.com/talgya/wildmind/internal/world"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Wildmind — creature cognition simulation")

	cfgPath := envOrDefault("MINDSIM_CONFIG", "config.yaml")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "path", cfgPath, "error", err)
		os.Exit(1)
	}

	// Environment overrides for the common knobs.
	cfg.Sim.Creatures = envIntOrDefault("MINDSIM_CREATURES", cfg.Sim.Creatures)
	cfg.Sim.APIPort = envIntOrDefault("MINDSIM_PORT", cfg.Sim.APIPort)
	if seed := envIntOrDefault("MINDSIM_SEED", int(cfg.World.Seed)); seed != 0 {
		cfg.World.Seed = int64(seed)
	}

	// ── Journal ───────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.Sim.DBPath), 0755)
	journal, err := persistence.Open(cfg.Sim.DBPath)
	if err != nil {
		slog.Error("failed to open journal", "error", err)
		os.Exit(1)
	}
	defer journal.Close()
	slog.Info("journal opened", "path", cfg.Sim.DBPath, "run", journal.RunID())

	// ── World ─────────────────────────────────────────────────────────
	w := world.Generate(cfg.World, logger)
	creatureIDs := w.Spawn(cfg.Sim.Creatures)

	// ── Minds ─────────────────────────────────────────────────────────
	ontology := knowledge.DefaultOntology()
	mindCfg := engine.MindConfig{
		Decay:               cfg.Decay,
		Consolidation:       cfg.Consolidation,
		Planner:             cfg.Planner,
		HysteresisBonus:     cfg.Sim.HysteresisBonus,
		DecayInterval:       cfg.Sim.DecayInterval,
		ConsolidateInterval: cfg.Sim.ConsolidateInterval,
	}

	runner := engine.NewRunner(w, journal, cfg.Sim.SecondsPerTick, logger)
	for _, id := range creatureIDs {
		runner.Add(engine.NewMind(id, ontology, mindCfg, logger))
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Runner:  runner,
		World:   w,
		Journal: journal,
		Port:    cfg.Sim.APIPort,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	fmt.Printf("\nWildmind is alive: %d creatures foraging %s resources.\n",
		len(creatureIDs), humanize.Comma(int64(len(w.Resources()))))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Sim.APIPort)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	runner.Run(ctx, time.Duration(cfg.Sim.TickMillis)*time.Millisecond)

	fmt.Println("Simulation stopped.")
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
