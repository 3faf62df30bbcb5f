// Package runner drives a behavior tree: one tick per step until the caller's
// stop condition holds.
package runner

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/zeusync/behavior/internal/core/behavior"
	"github.com/zeusync/behavior/internal/core/observability/log"
)

var ErrTickLimit = errors.New("tick limit reached before the run finished")

const DefaultMaxTicks = 10_000

type Config struct {
	// MaxTicks bounds a run; zero means DefaultMaxTicks.
	MaxTicks int `yaml:"max_ticks"`
	// Interval is the pause between ticks; zero ticks back to back.
	Interval time.Duration `yaml:"interval"`
}

// Result summarizes one run.
type Result struct {
	RunID  string
	Ticks  int
	Status behavior.Status
}

type Runner[C any] struct {
	config  Config
	logger  log.Log
	metrics *Metrics
}

func New[C any](config Config, logger log.Log, metrics *Metrics) *Runner[C] {
	if config.MaxTicks <= 0 {
		config.MaxTicks = DefaultMaxTicks
	}
	if logger == nil {
		logger = log.Nop()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Runner[C]{config: config, logger: logger, metrics: metrics}
}

// Run ticks tree against env until done(env) holds after a tick. It stops
// early with ErrTickLimit or the context's error; the returned Result
// describes the ticks performed either way, and every run is recorded in
// the run length histogram.
func (r *Runner[C]) Run(ctx context.Context, tree *behavior.Tree[C], env *C, done func(*C) bool) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	logger := r.logger.With(log.String("run_id", res.RunID))
	logger.Info("run started", log.Int("max_ticks", r.config.MaxTicks))
	defer func() { r.metrics.observeRun(res.Ticks) }()

	var ticker *time.Ticker
	if r.config.Interval > 0 {
		ticker = time.NewTicker(r.config.Interval)
		defer ticker.Stop()
	}

	for !done(env) {
		if res.Ticks >= r.config.MaxTicks {
			logger.Warn("run aborted", log.Int("ticks", res.Ticks), log.Stringer("status", res.Status))
			return res, errors.Wrapf(ErrTickLimit, "after %d ticks", res.Ticks)
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if ticker != nil && res.Ticks > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-ticker.C:
			}
		}

		res.Status = tree.Tick(env)
		res.Ticks++
		r.metrics.observeTick(res.Status)
		logger.Debug("tick", log.Int("tick", res.Ticks), log.Stringer("status", res.Status))
	}

	logger.Info("run finished", log.Int("ticks", res.Ticks), log.Stringer("status", res.Status))
	return res, nil
}
