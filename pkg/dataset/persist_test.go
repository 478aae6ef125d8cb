package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadSplit_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.json")
	s := Split{
		"cat/a.png":        "cat",
		"dog/b.png":        "dog",
		"кошка/снимок.png": "кошка",
		`quote"d.png`:      "odd",
	}

	require.NoError(t, SaveSplit(path, s))
	got, err := LoadSplit(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestSaveSplit_FlatObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "val.json")
	require.NoError(t, SaveSplit(path, Split{"a.png": "cat"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a.png": "cat"}`, string(data))

	require.NoError(t, SaveSplit(path, nil))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestLoadSplit_RejectsNonStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a.png": 3}`), 0o644))

	_, err := LoadSplit(path)
	assert.Error(t, err)

	_, err = LoadSplit(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestPartition_RoundTrip(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "split")
	p := &Partition{
		Train:      Split{"a": "cat", "b": "dog"},
		Validation: Split{"c": "cat"},
	}

	require.NoError(t, SavePartition(prefix, p))
	trainPath, valPath := PartitionPaths(prefix)
	assert.FileExists(t, trainPath)
	assert.FileExists(t, valPath)

	got, err := LoadPartition(prefix)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
