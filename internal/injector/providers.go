// Package injector assembles the door runtime. Providers live here; the
// injectors are generated by wire into wire_gen.go.
package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/behavior/internal/core/behavior"
	"github.com/zeusync/behavior/internal/core/observability/log"
	"github.com/zeusync/behavior/internal/core/runner"
	"github.com/zeusync/behavior/internal/demo/door"
)

// Door is everything a command needs to load and drive door trees.
type Door struct {
	Logger   log.Log
	Registry *behavior.Registry[door.Environment]
	Metrics  *runner.Metrics
	Runner   *runner.Runner[door.Environment]
}

var DoorSet = wire.NewSet(
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideRegistry,
	runner.NewMetrics,
	ProvideRunner,
	wire.Struct(new(Door), "*"),
)

func ProvideRegistry() *behavior.Registry[door.Environment] {
	return door.NewRegistry()
}

func ProvideRunner(config runner.Config, logger log.Log, metrics *runner.Metrics) *runner.Runner[door.Environment] {
	return runner.New[door.Environment](config, logger, metrics)
}

// Trees built for the door runtime share its registry and logger.
func (d *Door) TreeOptions() []behavior.Option[door.Environment] {
	return []behavior.Option[door.Environment]{
		behavior.WithRegistry(d.Registry),
		behavior.WithLogger[door.Environment](d.Logger),
	}
}
