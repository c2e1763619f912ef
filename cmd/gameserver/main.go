// Package main provides the game server binary that serves adventures over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/emberfall/internal/config"
	"github.com/cory-johannsen/emberfall/internal/content"
	"github.com/cory-johannsen/emberfall/internal/game/adventure"
	"github.com/cory-johannsen/emberfall/internal/game/ai"
	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/dice"
	"github.com/cory-johannsen/emberfall/internal/game/encounter"
	"github.com/cory-johannsen/emberfall/internal/game/snapshot"
	"github.com/cory-johannsen/emberfall/internal/httpapi"
	"github.com/cory-johannsen/emberfall/internal/observability"
	"github.com/cory-johannsen/emberfall/internal/scripting"
	"github.com/cory-johannsen/emberfall/internal/server"
	"github.com/cory-johannsen/emberfall/internal/storage/postgres"
	"github.com/cory-johannsen/emberfall/internal/storage/sqlite"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting game server",
		zap.String("http_addr", cfg.HTTP.Addr()),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("content_provider", cfg.Content.Provider),
	)

	base := dice.NewCryptoSource()
	if cfg.Game.Seed != 0 {
		base = dice.NewSeededSource(cfg.Game.Seed)
		logger.Info("using seeded dice", zap.Uint64("seed", cfg.Game.Seed))
	}
	src := dice.NewLoggedRoller(base, logger.Named("dice"))

	contentStart := time.Now()
	bundle, err := content.LoadBundle(cfg.Content.Dir)
	if err != nil {
		logger.Fatal("loading content", zap.String("dir", cfg.Content.Dir), zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("classes", len(bundle.Catalog.Classes())),
		zap.Int("abilities", len(bundle.Catalog.Abilities.All())),
		zap.Int("bestiary", len(bundle.Bestiary)),
		zap.Int("personalities", len(bundle.Personalities.All())),
		zap.Int("socials", len(bundle.Socials)),
		zap.Int("locations", len(bundle.World.Locations)),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	policyOpts := []ai.Option{ai.WithLowHealth(cfg.Combat.LowHealth), ai.WithLogger(logger)}
	var scriptMgr *scripting.Manager
	if bundle.ScriptDir != "" {
		scriptMgr = scripting.NewManager(src, logger)
		if err := scriptMgr.LoadNamespace(ai.ScriptNamespace, bundle.ScriptDir, cfg.Content.ScriptInstructionLimit); err != nil {
			logger.Fatal("loading ai scripts", zap.String("dir", bundle.ScriptDir), zap.Error(err))
		}
		policyOpts = append(policyOpts, ai.WithScripts(scriptMgr))
		logger.Info("ai scripts loaded", zap.String("dir", bundle.ScriptDir))
	}

	rules, err := cfg.Combat.Rules()
	if err != nil {
		logger.Fatal("building combat rules", zap.Error(err))
	}
	resolver := combat.NewResolver(rules, bundle.Effects, src)
	policy := ai.NewPolicy(bundle.Personalities, src, policyOpts...)
	pacer := encounter.Pacer{Step: cfg.Pacing.Step, SubHit: cfg.Pacing.SubHit}
	controller := encounter.NewController(resolver, policy, bundle.Catalog, pacer, logger)
	encounters := encounter.NewManager(controller)

	var provider content.Provider
	switch cfg.Content.Provider {
	case "anthropic":
		p, err := content.NewAnthropic(content.AnthropicConfig{
			APIKey:    cfg.Content.APIKey,
			Model:     cfg.Content.Model,
			BaseURL:   cfg.Content.BaseURL,
			MaxTokens: cfg.Content.MaxTokens,
			Timeout:   cfg.Content.Timeout,
		}, src, logger)
		if err != nil {
			logger.Fatal("creating anthropic provider", zap.Error(err))
		}
		provider = p
	default:
		provider = content.NewLocal(bundle.Bestiary, bundle.Socials, src, logger)
	}
	provider = content.NewGuarded(provider, logger)

	var (
		store   snapshot.Store
		health  httpapi.HealthFunc
		closers []func()
	)
	dbStart := time.Now()
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		version, err := pool.Migrate()
		if err != nil {
			logger.Fatal("migrating database", zap.Error(err))
		}
		store = pool.Saves()
		health = func(ctx context.Context) error { return pool.Health(ctx, 2*time.Second) }
		closers = append(closers, pool.Close)
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Uint("schema_version", version),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
	default:
		s, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			logger.Fatal("opening save database", zap.String("path", cfg.Storage.SQLitePath), zap.Error(err))
		}
		store = s
		health = s.Ping
		closers = append(closers, func() {
			if err := s.Close(); err != nil {
				logger.Warn("closing save database", zap.Error(err))
			}
		})
		logger.Info("save database opened",
			zap.String("path", cfg.Storage.SQLitePath),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
	}

	games := adventure.NewService(adventure.Deps{
		Catalog:    bundle.Catalog,
		World:      bundle.World,
		Provider:   provider,
		Encounters: encounters,
		Store:      store,
		Source:     src,
	}, adventure.Options{
		TravelEncounterChance: cfg.Game.TravelEncounterChance,
		BackgroundEnemyTurns:  true,
	}, logger)

	router := httpapi.NewRouter(httpapi.NewHandler(games, bundle.Catalog, health, logger))
	httpSvc := server.NewHTTPService(cfg.HTTP.Addr(), router, cfg.HTTP.ShutdownTimeout)

	// Services stop in reverse order: HTTP first, then games, then storage.
	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("storage", server.NewCloser(func() {
		for _, c := range closers {
			c()
		}
		if scriptMgr != nil {
			scriptMgr.Close()
		}
	}))
	lifecycle.Add("games", server.NewCloser(games.Close))
	lifecycle.Add("http", httpSvc)

	logger.Info("game server ready", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
