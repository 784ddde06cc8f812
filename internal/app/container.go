package app

import (
	"context"
	"log"
	"time"

	"skill-gap/internal/config"
	"skill-gap/internal/database"
	dbpostgres "skill-gap/internal/database/postgres"
	"skill-gap/internal/database/schema"
	"skill-gap/internal/infrastructure/cache"
)

type Container struct {
	Config  config.Config
	DB      database.DB
	Results *cache.Redis
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := schema.Bootstrap(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Container{
		Config:  cfg,
		DB:      db,
		Results: cache.NewRedis(logger),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Results != nil {
		_ = c.Results.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
