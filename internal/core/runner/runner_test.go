package runner

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/behavior/internal/core/behavior"
	"github.com/zeusync/behavior/internal/core/observability/log"
	"github.com/zeusync/behavior/internal/demo/door"
)

func forever(t *testing.T, fn func(*int)) *behavior.Tree[int] {
	t.Helper()
	tree := behavior.New[int]()
	leaf := behavior.NewLeaf[int](behavior.NewFunc("forever", func(n *int) behavior.Status {
		*n++
		if fn != nil {
			fn(n)
		}
		return behavior.StatusRunning
	})).Add(tree)
	tree.SetEntryNode(leaf)
	return tree
}

func never(*int) bool { return false }

func TestRunDoorScenario(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	r := New[door.Environment](Config{}, nil, metrics)

	env := &door.Environment{DistanceToDoor: 3.0}
	res, err := r.Run(context.Background(), door.NewTree(), env, door.Done)
	require.NoError(t, err)

	assert.Equal(t, behavior.StatusSuccess, res.Status)
	assert.True(t, env.Done)
	assert.False(t, env.DoorOpened)
	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)

	running := testutil.ToFloat64(metrics.Ticks.WithLabelValues(behavior.StatusRunning.String()))
	success := testutil.ToFloat64(metrics.Ticks.WithLabelValues(behavior.StatusSuccess.String()))
	assert.Equal(t, 1.0, success)
	assert.Equal(t, float64(res.Ticks), running+success)
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.RunTicks))
}

func TestRunStopsAtTickLimit(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	r := New[int](Config{MaxTicks: 5}, nil, metrics)

	var n int
	res, err := r.Run(context.Background(), forever(t, nil), &n, never)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTickLimit))
	assert.Equal(t, 5, res.Ticks)
	assert.Equal(t, 5, n)
	assert.Equal(t, behavior.StatusRunning, res.Status)
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.RunTicks), "aborted runs are still observed")
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := forever(t, func(n *int) {
		if *n == 3 {
			cancel()
		}
	})

	metrics := NewMetrics(nil)
	var n int
	res, err := New[int](Config{}, nil, metrics).Run(ctx, tree, &n, never)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, res.Ticks)
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.RunTicks))
}

func TestRunAlreadyDone(t *testing.T) {
	var n int
	res, err := New[int](Config{}, nil, nil).Run(context.Background(), forever(t, nil), &n, func(*int) bool { return true })
	require.NoError(t, err)
	assert.Zero(t, res.Ticks)
	assert.Zero(t, n)
}

func TestRunLogsRunID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := log.NewFromZap(zap.New(core), log.LevelDebug)

	var n int
	done := func(n *int) bool { return *n >= 2 }
	res, err := New[int](Config{}, logger, nil).Run(context.Background(), forever(t, nil), &n, done)
	require.NoError(t, err)

	entries := logs.FilterField(zap.String("run_id", res.RunID)).All()
	require.Len(t, entries, 4)
	assert.Equal(t, "run started", entries[0].Message)
	assert.Equal(t, "tick", entries[1].Message)
	assert.Equal(t, "run finished", entries[3].Message)
}
