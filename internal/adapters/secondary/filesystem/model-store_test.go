package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wine-quality-service/internal/ml"
)

func TestModelStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model_trainer", "model.json")
	model := ml.NewElasticNet(0.2, 0.1)
	model.Coef = []float64{0.5, -1.25}
	model.Intercept = 3
	model.FeatureNames = []string{"alcohol", "pH"}

	store := NewModelStore()
	require.NoError(t, store.Save(path, model))

	loaded, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.Coef, loaded.Coef)
	assert.Equal(t, model.Intercept, loaded.Intercept)
	assert.Equal(t, model.FeatureNames, loaded.FeatureNames)
	assert.Equal(t, 0.2, loaded.Alpha)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestModelStore_LoadMissing(t *testing.T) {
	_, err := NewModelStore().Load(filepath.Join(t.TempDir(), "model.json"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestModelStore_LoadUnfitted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"alpha":0.2}`), 0o644))

	_, err := NewModelStore().Load(path)
	assert.ErrorIs(t, err, ml.ErrNotFitted)
}
