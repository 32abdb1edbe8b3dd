package main

import (
	"context"
	"fmt"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/config"
	"github.com/mmuslimabdulj/shop-chat-relay/internal/db"
	"github.com/mmuslimabdulj/shop-chat-relay/internal/repository"
)

// openStore builds the message repository for the configured driver.
// The returned func releases whatever the store holds open.
func openStore(ctx context.Context, cfg *config.Config) (repository.MessageRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		repo := repository.NewPgMessageRepository(pool)
		if cfg.AutoMigrate {
			if err := repo.EnsureSchema(ctx); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("ensure schema: %w", err)
			}
		}
		return repo, pool.Close, nil

	case config.DriverBadger:
		bdb, err := repository.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewBadgerMessageRepository(bdb)
		return repo, func() { _ = repo.Close() }, nil

	case config.DriverMemory:
		return repository.NewMemoryMessageRepository(0), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
