package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestSaveAndInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	out := execute(t, "save", path, "testdata/door.yaml", "--ticks", "3")
	assert.Contains(t, out, "saved 6 nodes")

	out = execute(t, "inspect", path)
	assert.Contains(t, out, "distance=1.50")
	assert.Contains(t, out, "Sequence")
	assert.Contains(t, out, "Leaf walk")
	assert.Contains(t, out, "Leaf close_door")
}

func TestRunTreeFile(t *testing.T) {
	out := execute(t, "run", "testdata/door.yaml")
	assert.Contains(t, out, "last status Success")
	assert.Contains(t, out, `behavior_ticks_total{status="Success"} 1`)
	assert.Contains(t, out, "behavior_run_ticks_count 1")
}

func TestRunResumesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.bin")
	execute(t, "save", path, "--ticks", "10")

	out := execute(t, "run", "--resume", path)
	assert.Contains(t, out, "last status Success")
}
