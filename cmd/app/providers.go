package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-intents/internal/bootstrap"
	"github.com/yanqian/faq-intents/internal/domain/intent"
	"github.com/yanqian/faq-intents/internal/domain/lexicon"
	"github.com/yanqian/faq-intents/internal/infra/artifact"
	"github.com/yanqian/faq-intents/internal/infra/config"
	"github.com/yanqian/faq-intents/internal/infra/corpusrepo"
	"github.com/yanqian/faq-intents/internal/infra/rasa"
	"github.com/yanqian/faq-intents/internal/infra/runstore"
)

func provideIntentConfig(cfg *config.Config) (intent.Config, error) {
	return bootstrap.IntentConfig(cfg)
}

func provideLexicon(cfg *config.Config) (*lexicon.Lexicon, error) {
	return bootstrap.Lexicon(cfg)
}

func provideRasaExporter(cfg *config.Config) *rasa.Exporter {
	return bootstrap.RasaExporter(cfg)
}

func provideRepository(cfg *config.Config, logger *slog.Logger) (intent.Repository, func(), error) {
	fallback := corpusrepo.NewMemoryRepository()
	noop := func() {}
	dsn := strings.TrimSpace(cfg.Storage.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repository")
		return fallback, noop, nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback, noop, nil
	}
	if cfg.Storage.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Storage.Postgres.MaxConns
	}
	if cfg.Storage.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Storage.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback, noop, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback, noop, nil
	}
	repo := corpusrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("postgres intent repository enabled")
	return repo, pool.Close, nil
}

func provideStore(cfg *config.Config, logger *slog.Logger) (intent.Store, func()) {
	noop := func() {}
	if !cfg.Storage.Valkey.Enabled {
		return runstore.NewMemoryStore(), noop
	}
	opt, err := buildValkeyOptions(cfg.Storage.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return runstore.NewMemoryStore(), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return runstore.NewMemoryStore(), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return runstore.NewMemoryStore(), noop
	}
	logger.Info("valkey run store enabled", "addr", cfg.Storage.Valkey.Addr)
	return runstore.NewValkeyStore(client, cfg.Storage.Valkey.Prefix), client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideArtifactStorage(cfg *config.Config, logger *slog.Logger) (intent.ArtifactStorage, error) {
	artifacts := cfg.Storage.Artifacts
	switch artifacts.Backend {
	case "filesystem":
		logger.Info("filesystem artifact storage enabled", "dir", artifacts.Directory)
		return artifact.NewFileStorage(artifacts.Directory)
	case "r2":
		logger.Info("r2 artifact storage enabled", "bucket", artifacts.R2.Bucket)
		return artifact.NewR2Storage(artifact.R2Config{
			Endpoint:  artifacts.R2.Endpoint,
			AccessKey: artifacts.R2.AccessKey,
			SecretKey: artifacts.R2.SecretKey,
			Bucket:    artifacts.R2.Bucket,
			Region:    artifacts.R2.Region,
		}, logger)
	default:
		return artifact.NewMemoryStorage(), nil
	}
}
