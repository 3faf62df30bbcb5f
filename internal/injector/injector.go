//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zeusync/behavior/internal/core/observability/log"
	"github.com/zeusync/behavior/internal/core/runner"
)

func ProvideLogger() *log.Logger {
	wire.Build(log.Provide)
	return nil
}

func InitializeDoor(config runner.Config, logger *log.Logger, registerer prometheus.Registerer) *Door {
	wire.Build(DoorSet)
	return nil
}
