package door

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/behavior/internal/core/behavior"
)

func TestSnapshotFiles(t *testing.T) {
	for _, name := range []string{"run.bin", "run.yaml"} {
		t.Run(name, func(t *testing.T) {
			s := &Snapshot{Tree: NewTree(), Env: Environment{DistanceToDoor: 1.0}}
			for i := 0; i < 4; i++ {
				require.Equal(t, behavior.StatusRunning, s.Tree.Tick(&s.Env))
			}

			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveSnapshot(path, s))

			loaded, err := LoadSnapshot(path)
			require.NoError(t, err)
			assert.True(t, s.Tree.Equal(loaded.Tree))
			assert.Equal(t, s.Env, loaded.Env)
		})
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.bin"))
	assert.Error(t, err)
}

func TestIsText(t *testing.T) {
	assert.True(t, IsText("a.yaml"))
	assert.True(t, IsText("a.YML"))
	assert.False(t, IsText("a.bin"))
	assert.False(t, IsText("a"))
}
