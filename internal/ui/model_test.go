package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/poncho-dataset/pkg/events"
)

func send(m *Model, ev events.Event) tea.Cmd {
	_, cmd := m.Update(EventMsg(ev))
	return cmd
}

func TestModel_CountsEvents(t *testing.T) {
	m := NewModel("processing", events.NewChanEmitter(1).Subscribe(), nil)

	send(m, events.New(events.EventRunStarted, events.RunData{Shards: 2, Files: 4}))
	send(m, events.New(events.EventShardStarted, events.ShardData{Shard: 0, Size: 2}))
	send(m, events.New(events.EventFileDone, events.FileData{Source: "a.png"}))
	send(m, events.New(events.EventFileFailed, events.FileData{Source: "b.png", Err: errors.New("broken header")}))
	send(m, events.New(events.EventShardFinished, events.ShardData{Shard: 0, Size: 2}))

	assert.InDelta(t, 0.5, m.Percent(), 1e-9)

	view := m.View()
	assert.Contains(t, view, "processing")
	assert.Contains(t, view, "2/4 files")
	assert.Contains(t, view, "1 failed")
	assert.Contains(t, view, "shards 1/2")
	assert.Contains(t, view, "b.png: broken header")
}

func TestModel_QuitsOnDone(t *testing.T) {
	m := NewModel("x", events.NewChanEmitter(1).Subscribe(), nil)

	send(m, events.New(events.EventRunStarted, events.RunData{Shards: 1, Files: 1}))
	cmd := send(m, events.New(events.EventDone, events.DoneData{Processed: 1}))
	require.NotNil(t, cmd)

	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
	assert.Equal(t, 1.0, m.Percent())
	assert.NotContains(t, m.View(), "q: stop")
}

func TestModel_KeepsLastFailures(t *testing.T) {
	m := NewModel("x", events.NewChanEmitter(1).Subscribe(), nil)

	for i := 0; i < maxFailures+3; i++ {
		send(m, events.New(events.EventFileFailed, events.FileData{Source: strings.Repeat("f", i+1), Err: errors.New("e")}))
	}
	assert.Len(t, m.failures, maxFailures)
	assert.Equal(t, maxFailures+3, m.failed)
}

func TestModel_KeyCancels(t *testing.T) {
	cancelled := false
	m := NewModel("x", events.NewChanEmitter(1).Subscribe(), func() { cancelled = true })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, cancelled)
	assert.True(t, m.Aborted())
}

func TestModel_ReadsClosedChannel(t *testing.T) {
	emitter := events.NewChanEmitter(1)
	m := NewModel("x", emitter.Subscribe(), nil)
	emitter.Close()

	msg := waitForEvent(m.sub)()
	_, isClosed := msg.(closedMsg)
	assert.True(t, isClosed)

	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.True(t, m.finished)
}
