package hub

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModule(t *testing.T) *Module {
	t.Helper()

	m, err := NewModule(3, map[string][]float32{
		"paris":   {1, 0, 0},
		"france":  {0.9, 0.1, 0},
		"capital": {0, 1, 0},
		"the":     {0, 0, 1},
	})
	require.NoError(t, err)

	return m
}

func TestNewModule_DimensionMismatch(t *testing.T) {
	_, err := NewModule(3, map[string][]float32{
		"paris": {1, 0},
	})
	assert.ErrorContains(t, err, "dimension")

	_, err = NewModule(0, nil)
	assert.ErrorContains(t, err, "invalid dimension")
}

func TestModule_Embed(t *testing.T) {
	m := testModule(t)

	// Mean of "paris" and "capital"; punctuation and unknown tokens are ignored.
	got := m.Embed("Capital? Paris, obviously.")
	assert.InDelta(t, 0.5, got[0], 1e-6)
	assert.InDelta(t, 0.5, got[1], 1e-6)
	assert.InDelta(t, 0.0, got[2], 1e-6)

	// No known tokens embeds to the zero vector.
	assert.Equal(t, []float32{0, 0, 0}, m.Embed("berlin germany"))
}

func TestModule_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := testModule(t)

	require.NoError(t, Save(m, dir))

	loaded, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, m.Dimension(), loaded.Dimension())
	assert.Equal(t, m.Embed("capital of france"), loaded.Embed("capital of france"))
}

func TestSave_RejectsForeignObject(t *testing.T) {
	err := Save("not a module", t.TempDir())
	assert.ErrorContains(t, err, "cannot export string")
}

func TestLoad_DigestMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(testModule(t), dir))

	// Tamper with the weights after export.
	weightsPath := filepath.Join(dir, weightsFilename)
	weights, err := os.ReadFile(weightsPath)
	require.NoError(t, err)
	weights[0] ^= 0xff
	require.NoError(t, os.WriteFile(weightsPath, weights, 0o644))

	_, err = Load(dir)
	assert.ErrorContains(t, err, "digest mismatch")
}

func TestLoad_MissingManifest(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "read manifest")
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, Cosine([]float32{1}, []float32{1, 2}))
}
