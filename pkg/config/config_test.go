package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("dataset:\n  root: /data\n"))
	require.NoError(t, err)

	assert.Equal(t, "/data", cfg.Dataset.Root)
	assert.Equal(t, 0.7, cfg.Split.TrainFraction)
	assert.Equal(t, "split", cfg.Split.Output)
	assert.Equal(t, "copy", cfg.Processing.Transform)
	assert.Equal(t, 224, cfg.ImageProcessing.Width)
	assert.Equal(t, 224, cfg.ImageProcessing.Height)
	assert.Equal(t, 90, cfg.ImageProcessing.Quality)
	assert.Equal(t, 1, cfg.Workers())
	assert.Equal(t, int64(871), cfg.Seed())
	assert.True(t, cfg.EmptyDir())
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("PONCHO_TEST_SECRET", "s3cr3t")

	cfg, err := Parse([]byte(`
s3:
  endpoint: localhost:9000
  bucket: datasets
  secret_key: ${PONCHO_TEST_SECRET}
`))
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", cfg.S3.SecretKey)
	assert.True(t, cfg.S3.Enabled())
}

func TestParse_ExplicitSeedZero(t *testing.T) {
	cfg, err := Parse([]byte("dataset:\n  seed: 0\n  allowed_cpus: 4\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.Seed())
	assert.Equal(t, 4, cfg.Workers())
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"fraction above one", "split:\n  train_fraction: 1.5\n"},
		{"negative cpus", "dataset:\n  allowed_cpus: -1\n"},
		{"unknown transform", "processing:\n  transform: rotate\n"},
		{"upload without s3", "processing:\n  transform: s3-upload\n"},
		{"labels without columns", "tables:\n  labels:\n    path: labels.csv\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_RelativeRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataset:\n  root: images\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "images"), cfg.Dataset.Root)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("split:\n  train_fraction: 0.8\n"), 0o644))

	cfg, found, err := LoadOrDefault(&StandalonePathFinder{ConfigFlag: path})
	require.NoError(t, err)
	assert.Equal(t, path, found)
	assert.Equal(t, 0.8, cfg.Split.TrainFraction)

	_, _, err = LoadOrDefault(&StandalonePathFinder{ConfigFlag: filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}
