//go:build wireinject
// +build wireinject

package main

import (
	"costlens/config"
	"costlens/internal/command"
	"costlens/internal/cron"
	"costlens/internal/database"
	fluentdRepo "costlens/internal/database/fluentd/repository"
	mongoRepo "costlens/internal/database/mongodb/repository"
	"costlens/internal/handler"
	"costlens/internal/middleware"
	"costlens/internal/router"
	"costlens/internal/service"
	"costlens/internal/telemetry"
	"costlens/utils/clock"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// 儲存層介面綁定到 MongoDB / Fluentd 實作
var storeSet = wire.NewSet(
	clock.NewReal,
	wire.Bind(new(service.EventStore), new(*mongoRepo.EventRepository)),
	wire.Bind(new(service.PricingCatalog), new(*mongoRepo.PricingRuleRepository)),
	wire.Bind(new(service.BudgetStore), new(*mongoRepo.BudgetRepository)),
	wire.Bind(new(service.AlertStore), new(*mongoRepo.AlertRepository)),
	wire.Bind(new(service.AuditLogger), new(*fluentdRepo.LogRepository)),
)

// wireApp init application.
func wireApp(*config.Configuration, *zap.Logger) (*App, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			storeSet,
			service.ProviderSet,
			handler.ProviderSet,
			middleware.ProviderSet,
			router.ProviderSet,
			cron.ProviderSet,
			newHttpServer,
			telemetry.ProviderSet,
			newApp,
		),
	)
}

// wireCommand init command dependencies.
func wireCommand(*config.Configuration, *zap.Logger) (*command.Command, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			storeSet,
			service.ProviderSet,
			telemetry.ProviderSet,
			command.ProviderSet,
		),
	)
}
