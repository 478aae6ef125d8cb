package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/poncho-dataset/pkg/config"
	"github.com/ilkoid/poncho-dataset/pkg/events"
)

func TestFlags_OverrideOnlyWhatIsSet(t *testing.T) {
	var f cliFlags
	fs := newFlagSet("split", &f)
	require.NoError(t, fs.Parse([]string{"-root", "/data", "-ext", ".png, .jpg,", "-seed", "0", "-id-col", "file"}))

	cfg := config.Default()
	cfg.Split.TrainFraction = 0.8
	f.apply(fs, cfg)

	assert.Equal(t, "/data", cfg.Dataset.Root)
	assert.Equal(t, []string{".png", ".jpg"}, cfg.Dataset.Extensions)
	assert.Equal(t, int64(0), cfg.Seed())
	assert.Equal(t, "file", cfg.Tables.Labels.IDColumn)
	assert.Equal(t, "file", cfg.Tables.Groups.IDColumn)
	assert.Equal(t, 0.8, cfg.Split.TrainFraction, "unset flag keeps config value")
	assert.Equal(t, "copy", cfg.Processing.Transform)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList("a,,b "))
}

func TestEmitters(t *testing.T) {
	assert.Nil(t, emitters(nil))
	assert.Nil(t, emitters(nil, nil))

	ch := events.NewChanEmitter(1)
	m, ok := emitters(nil, ch).(events.Multi)
	require.True(t, ok)
	assert.Len(t, m, 1)
}
