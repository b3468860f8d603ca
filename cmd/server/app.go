package main

import (
	"context"
	"fmt"

	"interior-design-backend/internal/ai"
	"interior-design-backend/internal/artifacts"
	"interior-design-backend/internal/authz"
	"interior-design-backend/internal/config"
	"interior-design-backend/internal/database"
	"interior-design-backend/internal/gcs"
	"interior-design-backend/internal/generation"
	"interior-design-backend/internal/logger"
	"interior-design-backend/internal/models"
	"interior-design-backend/internal/openai"
	"interior-design-backend/internal/redisstore"
	"interior-design-backend/internal/replicate"
	"interior-design-backend/internal/supabase"
)

// app holds the long-lived dependencies shared by the serve and sweep commands.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *database.DatabaseClient
	gate      *authz.Gate
	store     artifacts.Store
	providers *ai.Registry
	redis     *redisstore.Store
	closers   []func() error
}

func openDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger, migrate bool) (*database.DatabaseClient, error) {
	// Open connection pool
	sqlDB, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	// Run migrations
	if migrate {
		if err := database.NewMigrator(sqlDB, log).Run(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	db, err := database.NewPostgresClient(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger, migrate bool) (*app, error) {
	// Connect to database
	db, err := openDatabase(ctx, cfg, log, migrate)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, db: db, gate: authz.NewGate(db)}
	a.closers = append(a.closers, db.Close)

	// Artifact storage and AI providers
	if a.store, err = newArtifactStore(ctx, cfg, log, a); err != nil {
		a.Close()
		return nil, err
	}
	a.providers = newProviderRegistry(cfg, a.store)

	if cfg.RedisAddr != "" {
		rs, err := redisstore.New(ctx, log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// Rate limiting and the sweep lock are optional.
			log.Warn("redis unavailable, rate limiting disabled", "error", err)
		} else {
			a.redis = rs
			a.closers = append(a.closers, rs.Close)
		}
	}
	return a, nil
}

func newArtifactStore(ctx context.Context, cfg *config.Config, log *logger.Logger, a *app) (artifacts.Store, error) {
	switch cfg.ArtifactStore {
	case "gcs":
		bucket, err := gcs.NewBucketStore(ctx, log, cfg.GCSBucket, cfg.GCSPublicBaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, bucket.Close)
		return bucket, nil
	case "memory":
		log.Warn("using in-memory artifact store, uploads will not survive a restart")
		return artifacts.NewMemoryStore(cfg.BaseURL + "/artifacts"), nil
	default:
		client, err := supabase.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return supabase.NewStorageClient(client), nil
	}
}

func newProviderRegistry(cfg *config.Config, sink artifacts.Store) *ai.Registry {
	registry := ai.NewRegistry()
	if cfg.OpenAIAPIKey != "" {
		registry.Register(models.ProviderOpenAI, ai.Static(
			openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIImageModel, cfg.OpenAIImageSize,
				openai.WithSink(sink), openai.WithMaxSourceBytes(cfg.MaxUploadBytes)),
		))
	}
	if cfg.ReplicateAPIToken != "" && cfg.ReplicateModelVersion != "" {
		registry.Register(models.ProviderReplicate, ai.Static(
			replicate.NewClient(cfg.ReplicateBaseURL, cfg.ReplicateAPIToken, cfg.ReplicateModelVersion, cfg.ReplicatePollInterval),
		))
	}
	return registry
}

func (a *app) newJob() *generation.Job {
	return generation.NewJob(a.db, a.db, a.gate, a.providers, a.log, generation.Config{
		DefaultProvider: a.cfg.DefaultAIProvider,
		Timeout:         a.cfg.GenerationTimeout,
	})
}

func (a *app) newSweeper() *generation.Sweeper {
	var locker generation.Locker
	if a.redis != nil {
		locker = a.redis
	}
	return generation.NewSweeper(a.db, locker, a.log, a.cfg.StaleDesignAfter)
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", "error", fmt.Errorf("closer %d: %w", i, err))
		}
	}
}
