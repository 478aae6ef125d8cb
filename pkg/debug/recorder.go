package debug

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ilkoid/poncho-dataset/pkg/events"
)

// Recorder записывает трейс прогона и сохраняет в JSON файл.
//
// Потокобезопасен — Emit вызывается из горутин шардов.
type Recorder struct {
	mu sync.Mutex

	config RecorderConfig
	log    RunLog
	shards map[int]*ShardTrace
	errors []string
}

// RecorderConfig конфигурация для создания Recorder.
type RecorderConfig struct {
	// LogsDir — директория для сохранения трейсов
	LogsDir string

	// IncludeFiles — записывать трейс каждого файла, а не только шардов
	IncludeFiles bool

	// MaxErrors — сколько ошибок сохранять в summary, 0 — все
	MaxErrors int
}

// NewRecorder создает новый Recorder с заданной конфигурацией.
//
// Если LogsDir не существует, пытается создать её.
func NewRecorder(cfg RecorderConfig) (*Recorder, error) {
	if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
	}

	now := time.Now()
	return &Recorder{
		config: cfg,
		log: RunLog{
			RunID:     fmt.Sprintf("run_%s", now.Format("20060102_150405")),
			Timestamp: now,
		},
		shards: make(map[int]*ShardTrace),
	}, nil
}

// Start задаёт имя прогона.
func (r *Recorder) Start(command string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Command = command
	r.log.Timestamp = time.Now()
}

// Emit реализует events.Emitter.
func (r *Recorder) Emit(_ context.Context, ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch d := ev.Data.(type) {
	case events.RunData:
		r.log.Summary.TotalFiles = d.Files
	case events.ShardData:
		s := r.shard(d.Shard)
		s.Size = d.Size
		switch ev.Type {
		case events.EventShardStarted:
			s.started = ev.Timestamp
		case events.EventShardFinished:
			if !s.started.IsZero() {
				s.Duration = ev.Timestamp.Sub(s.started).Milliseconds()
			}
		}
	case events.FileData:
		r.recordFile(d)
	case events.DoneData:
		r.log.Summary.Processed = d.Processed
		r.log.Summary.Failed = d.Failed
		r.log.Duration = d.Duration.Milliseconds()
	}
}

func (r *Recorder) recordFile(d events.FileData) {
	ms := d.Duration.Milliseconds()
	if ms > r.log.Summary.SlowestMillis || r.log.Summary.SlowestFile == "" {
		r.log.Summary.SlowestFile = d.Source
		r.log.Summary.SlowestMillis = ms
	}

	trace := FileTrace{
		Source:   d.Source,
		DestDir:  d.DestDir,
		Duration: ms,
		Success:  d.Err == nil,
	}
	if d.Err != nil {
		trace.Error = d.Err.Error()
		if r.config.MaxErrors == 0 || len(r.errors) < r.config.MaxErrors {
			r.errors = append(r.errors, fmt.Sprintf("%s: %s", d.Source, trace.Error))
		}
	}

	if r.config.IncludeFiles || d.Err != nil {
		s := r.shard(d.Shard)
		s.Files = append(s.Files, trace)
	}
}

func (r *Recorder) shard(n int) *ShardTrace {
	s, ok := r.shards[n]
	if !ok {
		s = &ShardTrace{Shard: n}
		r.shards[n] = s
	}
	return s
}

// Finalize завершает запись и сохраняет трейс в файл.
//
// runErr — ошибка прогона, nil при успехе. Возвращает путь к файлу.
func (r *Recorder) Finalize(runErr error) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if runErr != nil {
		r.log.Error = runErr.Error()
	}
	r.log.Summary.Errors = r.errors
	ids := make([]int, 0, len(r.shards))
	for id := range r.shards {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	r.log.Shards = make([]ShardTrace, 0, len(ids))
	for _, id := range ids {
		r.log.Shards = append(r.log.Shards, *r.shards[id])
	}

	data, err := json.MarshalIndent(r.log, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run log: %w", err)
	}

	filePath := r.getFilePath()
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run log: %w", err)
	}
	return filePath, nil
}

// getFilePath возвращает путь к файлу для сохранения.
func (r *Recorder) getFilePath() string {
	if r.config.LogsDir != "" {
		return filepath.Join(r.config.LogsDir, r.log.RunID+".json")
	}
	return r.log.RunID + ".json"
}

// GetRunID возвращает идентификатор прогона.
func (r *Recorder) GetRunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.RunID
}
