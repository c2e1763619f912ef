// Package main runs seeded headless encounters and reports how they went.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/emberfall/internal/config"
	"github.com/cory-johannsen/emberfall/internal/content"
	"github.com/cory-johannsen/emberfall/internal/game/ai"
	"github.com/cory-johannsen/emberfall/internal/game/dice"
	"github.com/cory-johannsen/emberfall/internal/observability"
	"github.com/cory-johannsen/emberfall/internal/scripting"
	"github.com/cory-johannsen/emberfall/internal/simulate"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	class := flag.String("class", "warrior", "player class ID")
	level := flag.Int("level", 1, "player and enemy level")
	enemies := flag.String("enemies", "slime", "comma-separated bestiary template IDs")
	runs := flag.Int("runs", 100, "number of fights")
	seed := flag.Uint64("seed", 0, "base seed; 0 picks one at random")
	strategy := flag.String("strategy", string(simulate.StrategyAttack), "player strategy: attack or ability")
	maxTurns := flag.Int("max-turns", simulate.DefaultMaxTurns, "turn limit per fight")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	bundle, err := content.LoadBundle(cfg.Content.Dir)
	if err != nil {
		logger.Fatal("loading content", zap.String("dir", cfg.Content.Dir), zap.Error(err))
	}
	rules, err := cfg.Combat.Rules()
	if err != nil {
		logger.Fatal("building combat rules", zap.Error(err))
	}

	if *seed == 0 {
		*seed = dice.NewSeed()
	}

	opts := simulate.Options{LowHealth: cfg.Combat.LowHealth}
	if bundle.ScriptDir != "" {
		mgr := scripting.NewManager(dice.NewSeededSource(*seed), logger)
		defer mgr.Close()
		if err := mgr.LoadNamespace(ai.ScriptNamespace, bundle.ScriptDir, cfg.Content.ScriptInstructionLimit); err != nil {
			logger.Fatal("loading ai scripts", zap.String("dir", bundle.ScriptDir), zap.Error(err))
		}
		opts.Scripts = mgr
	}

	p := simulate.Params{
		Class:    *class,
		Level:    *level,
		Enemies:  strings.Split(*enemies, ","),
		Runs:     *runs,
		Seed:     *seed,
		Strategy: simulate.Strategy(*strategy),
		MaxTurns: *maxTurns,
	}
	start := time.Now()
	res, err := simulate.New(bundle, rules, opts, logger).Run(context.Background(), p)
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
	logger.Info("simulation complete",
		zap.Uint64("seed", *seed),
		zap.Float64("win_rate", res.WinRate()),
		zap.Float64("avg_turns", res.AverageTurns()),
		zap.Duration("elapsed", time.Since(start)),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		logger.Fatal("writing result", zap.Error(err))
	}
}
