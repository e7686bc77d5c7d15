// Package app wires the pipeline components from configuration. All
// entrypoints (CLI, server) build the same graph through it.
package app

import (
	"fmt"

	"tendertrail/database"
	"tendertrail/extractors"
	"tendertrail/internal/config"
	"tendertrail/normalization"
	"tendertrail/pipeline"
	"tendertrail/schema"
	"tendertrail/translation"
)

// App holds the wired pipeline components.
type App struct {
	Config     *config.Config
	DB         *database.DB
	Registry   *schema.Registry
	Normalizer *normalization.Normalizer
	Runner     *pipeline.Runner
}

// Build opens the database, loads configuration and schemas, and wires the
// normalizer, loader, tracker and runner.
func Build(dbPath string) (*App, error) {
	db, err := database.NewDB(dbPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	cfg.DatabasePath = dbPath

	registry, err := schema.LoadRegistry(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	policy := extractors.DefaultPolicy()
	if cfg.PolicyPath != "" {
		policy, err = extractors.LoadPolicy(cfg.PolicyPath)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to load extraction policy: %w", err)
		}
	}

	var provider translation.Provider
	if cfg.Translation.APIKey != "" {
		provider = translation.NewChatProvider(translation.ChatProviderConfig{
			BaseURL:           cfg.Translation.BaseURL,
			APIKey:            cfg.Translation.APIKey,
			Model:             cfg.Translation.Model,
			RequestsPerSecond: cfg.Translation.RequestsPerSecond,
		})
	}

	cacheConfig := translation.DefaultCacheConfig()
	cacheConfig.TTL = cfg.Translation.CacheTTL
	translator := translation.NewTranslator(provider,
		translation.WithCache(translation.NewCache(cacheConfig)),
		translation.WithMinConfidence(cfg.Translation.MinConfidence))

	normalizer := normalization.NewNormalizer(registry.TargetSchema(), extractors.NewEngine(policy), translator)
	loader := database.NewBatchLoader(db, cfg.BatchSize)
	tracker := database.NewTracker(db)
	runner := pipeline.NewRunner(registry, normalizer, loader, tracker, db, cfg.Workers)

	return &App{
		Config:     cfg,
		DB:         db,
		Registry:   registry,
		Normalizer: normalizer,
		Runner:     runner,
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() error {
	return a.DB.Close()
}
