package app

import (
	"context"
	"log"
	"time"

	"skillpath/internal/config"
	"skillpath/internal/database"
	"skillpath/internal/database/migration"
	dbpostgres "skillpath/internal/database/postgres"
	"skillpath/internal/infrastructure/cache"
	"skillpath/internal/llm"
	"skillpath/migrations"
)

type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	LLM    *llm.GeminiClient
	Logger *log.Logger
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.Default()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := (migration.Runner{FS: migrations.FS}).Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	llmClient, err := llm.NewGeminiClient(ctx, cfg.LLM)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Container{
		Config: cfg,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, logger),
		LLM:    llmClient,
		Logger: logger,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
