package debug

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/poncho-dataset/pkg/events"
)

func emitRun(r *Recorder) {
	ctx := context.Background()
	t0 := time.Now()
	emit := func(typ events.EventType, data events.EventData, at time.Time) {
		ev := events.New(typ, data)
		ev.Timestamp = at
		r.Emit(ctx, ev)
	}

	emit(events.EventRunStarted, events.RunData{Shards: 2, Files: 3}, t0)
	emit(events.EventShardStarted, events.ShardData{Shard: 1, Size: 1}, t0)
	emit(events.EventShardStarted, events.ShardData{Shard: 0, Size: 2}, t0)
	emit(events.EventFileDone, events.FileData{Shard: 0, Source: "a.png", Duration: 5 * time.Millisecond}, t0)
	emit(events.EventFileDone, events.FileData{Shard: 0, Source: "b.png", Duration: 40 * time.Millisecond}, t0)
	emit(events.EventFileFailed, events.FileData{Shard: 1, Source: "c.png", Err: errors.New("broken")}, t0)
	emit(events.EventShardFinished, events.ShardData{Shard: 0, Size: 2}, t0.Add(50*time.Millisecond))
	emit(events.EventShardFinished, events.ShardData{Shard: 1, Size: 1}, t0.Add(10*time.Millisecond))
	emit(events.EventDone, events.DoneData{Processed: 2, Failed: 1, Duration: 60 * time.Millisecond}, t0)
}

func readLog(t *testing.T, path string) RunLog {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var log RunLog
	require.NoError(t, json.Unmarshal(data, &log))
	return log
}

func TestRecorder_WritesTrace(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "traces")
	r, err := NewRecorder(RecorderConfig{LogsDir: dir})
	require.NoError(t, err)
	r.Start("make")

	emitRun(r)
	path, err := r.Finalize(nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, r.GetRunID()+".json"), path)

	log := readLog(t, path)
	assert.Equal(t, "make", log.Command)
	assert.Equal(t, int64(60), log.Duration)
	assert.Empty(t, log.Error)

	assert.Equal(t, 3, log.Summary.TotalFiles)
	assert.Equal(t, 2, log.Summary.Processed)
	assert.Equal(t, 1, log.Summary.Failed)
	assert.Equal(t, "b.png", log.Summary.SlowestFile)
	assert.Equal(t, []string{"c.png: broken"}, log.Summary.Errors)

	require.Len(t, log.Shards, 2)
	assert.Equal(t, 0, log.Shards[0].Shard)
	assert.Equal(t, int64(50), log.Shards[0].Duration)
	assert.Empty(t, log.Shards[0].Files, "successful files are skipped without IncludeFiles")
	require.Len(t, log.Shards[1].Files, 1)
	assert.False(t, log.Shards[1].Files[0].Success)
}

func TestRecorder_IncludeFilesAndError(t *testing.T) {
	r, err := NewRecorder(RecorderConfig{LogsDir: t.TempDir(), IncludeFiles: true, MaxErrors: 1})
	require.NoError(t, err)

	emitRun(r)
	path, err := r.Finalize(context.Canceled)
	require.NoError(t, err)

	log := readLog(t, path)
	assert.Equal(t, context.Canceled.Error(), log.Error)
	assert.Len(t, log.Shards[0].Files, 2)
	assert.Len(t, log.Summary.Errors, 1)
}

func TestMultiEmitter(t *testing.T) {
	r, err := NewRecorder(RecorderConfig{LogsDir: t.TempDir()})
	require.NoError(t, err)
	ch := events.NewChanEmitter(1)

	m := events.Multi{nil, r, ch}
	m.Emit(context.Background(), events.New(events.EventRunStarted, events.RunData{Files: 7}))
	ch.Close()

	ev := <-ch.Subscribe().Events()
	assert.Equal(t, events.EventRunStarted, ev.Type)
	assert.Equal(t, 7, r.log.Summary.TotalFiles)
}
