package main

import (
	"log/slog"

	"github.com/avolkov/doorkeeper/internal/domain/registry"
	"github.com/avolkov/doorkeeper/internal/infra/config"
	"github.com/avolkov/doorkeeper/internal/infra/regstore"
)

func provideRegistryConfig(cfg *config.Config) registry.Config {
	return registry.Config{
		AllowedEmails: cfg.Registry.AllowedEmails,
		BcryptCost:    cfg.Registry.BcryptCost,
	}
}

func provideStore(cfg *config.Config, logger *slog.Logger) registry.Store {
	return regstore.New(cfg, logger)
}
