package config

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watcherConfig = `
version: "1"
artifact:
  name: qandaModel
`

func TestWatcher_Snapshot(t *testing.T) {
	path := writeConfig(t, watcherConfig)

	w, err := NewWatcher(path, schemaPath, func(*Config, error) {})
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, "qandaModel", w.Snapshot().Artifact.Name)
	assert.Zero(t, w.ReloadCount())
}

func TestWatcher_InvalidInitialConfig(t *testing.T) {
	path := writeConfig(t, "version: [unclosed")

	_, err := NewWatcher(path, schemaPath, func(*Config, error) {})
	assert.ErrorContains(t, err, "failed to load initial config")
}

func TestWatcher_CloseDropsPendingReload(t *testing.T) {
	path := writeConfig(t, watcherConfig)

	var calls atomic.Int32
	w, err := NewWatcher(path, schemaPath, func(*Config, error) {
		calls.Add(1)
	})
	require.NoError(t, err)

	w.Close()

	// A debounce timer armed before Close may still fire afterwards;
	// the reload must be dropped without touching the callback.
	w.reload()

	assert.Zero(t, w.ReloadCount())
	assert.Zero(t, calls.Load())
}
