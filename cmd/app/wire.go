//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/avolkov/doorkeeper/internal/bootstrap"
	"github.com/avolkov/doorkeeper/internal/domain/registry"
	"github.com/avolkov/doorkeeper/internal/infra/config"
	httpiface "github.com/avolkov/doorkeeper/internal/interface/http"
	"github.com/avolkov/doorkeeper/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideRegistryConfig,
		provideStore,
		registry.NewService,
		httpiface.NewRegistrationHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
