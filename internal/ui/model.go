// Package ui — TUI прогресса материализации датасета.
//
// Модель читает events.Subscriber пула воркеров и рисует прогресс-бар,
// счётчики шардов и список ошибок.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/poncho-dataset/pkg/events"
)

// maxFailures — сколько последних ошибок показывать.
const maxFailures = 8

// EventMsg — событие пула как сообщение Bubble Tea.
type EventMsg events.Event

// closedMsg приходит, когда канал событий закрыт.
type closedMsg struct{}

// waitForEvent возвращает Cmd, читающий следующее событие.
func waitForEvent(sub events.Subscriber) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub.Events()
		if !ok {
			return closedMsg{}
		}
		return EventMsg(event)
	}
}

// Model — модель прогресса.
type Model struct {
	title  string
	sub    events.Subscriber
	cancel context.CancelFunc

	spinner  spinner.Model
	progress progress.Model
	width    int

	total      int
	processed  int
	failed     int
	shards     int
	shardsDone int
	failures   []string

	started  time.Time
	elapsed  time.Duration
	finished bool
	aborted  bool
}

// NewModel создаёт модель. cancel вызывается по q/ctrl+c, может быть nil.
func NewModel(title string, sub events.Subscriber, cancel context.CancelFunc) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return &Model{
		title:    title,
		sub:      sub,
		cancel:   cancel,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient()),
		width:    80,
		started:  time.Now(),
	}
}

// Init реализует tea.Model интерфейс.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.sub))
}

// Update реализует tea.Model интерфейс.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		m.apply(events.Event(msg))
		if m.finished {
			return m, tea.Quit
		}
		return m, waitForEvent(m.sub)

	case closedMsg:
		m.finished = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.aborted = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(10, msg.Width-4)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// apply обновляет счётчики по событию.
func (m *Model) apply(ev events.Event) {
	switch data := ev.Data.(type) {
	case events.RunData:
		m.total = data.Files
		m.shards = data.Shards
	case events.ShardData:
		if ev.Type == events.EventShardFinished {
			m.shardsDone++
		}
	case events.FileData:
		if ev.Type == events.EventFileFailed {
			m.failed++
			m.failures = append(m.failures, fmt.Sprintf("%s: %v", data.Source, data.Err))
			if len(m.failures) > maxFailures {
				m.failures = m.failures[len(m.failures)-maxFailures:]
			}
			return
		}
		m.processed++
	case events.DoneData:
		m.processed = data.Processed
		m.failed = data.Failed
		m.elapsed = data.Duration
		m.finished = true
	}
}

// Percent возвращает долю обработанных файлов (успешно или с ошибкой).
func (m *Model) Percent() float64 {
	if m.total == 0 {
		if m.finished {
			return 1
		}
		return 0
	}
	return float64(m.processed+m.failed) / float64(m.total)
}

// Aborted сообщает, что пользователь прервал выполнение.
func (m *Model) Aborted() bool {
	return m.aborted
}

// Run запускает TUI и блокируется до завершения прогона или выхода.
func Run(ctx context.Context, title string, sub events.Subscriber, cancel context.CancelFunc) error {
	p := tea.NewProgram(NewModel(title, sub, cancel), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
