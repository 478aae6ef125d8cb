// Package debug записывает трейс прогона материализации в JSON файл.
//
// Recorder подключается к workers.Runner как events.Emitter и собирает
// длительности шардов и файлов, ошибки и итоговую статистику. Трейс
// сохраняется для последующего анализа медленных или упавших файлов.
package debug

import "time"

// RunLog представляет полный трейс одного прогона.
type RunLog struct {
	// RunID — уникальный идентификатор запуска (используется в имени файла)
	RunID string `json:"run_id"`

	// Timestamp — время начала прогона
	Timestamp time.Time `json:"timestamp"`

	// Command — подкоманда CLI или другое имя прогона
	Command string `json:"command"`

	// Duration — общая длительность в миллисекундах
	Duration int64 `json:"duration_ms"`

	// Shards — трейсы шардов по номеру
	Shards []ShardTrace `json:"shards"`

	Summary Summary `json:"summary"`

	// Error — ошибка если прогон завершился неудачно
	Error string `json:"error,omitempty"`
}

// ShardTrace — трейс одного шарда.
type ShardTrace struct {
	Shard    int         `json:"shard"`
	Size     int         `json:"size"`
	Duration int64       `json:"duration_ms"`
	Files    []FileTrace `json:"files,omitempty"`

	started time.Time
}

// FileTrace — результат преобразования одного файла.
type FileTrace struct {
	Source   string `json:"source"`
	DestDir  string `json:"dest_dir"`
	Duration int64  `json:"duration_ms"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// Summary — агрегированная статистика прогона.
type Summary struct {
	TotalFiles    int      `json:"total_files"`
	Processed     int      `json:"processed"`
	Failed        int      `json:"failed"`
	SlowestFile   string   `json:"slowest_file,omitempty"`
	SlowestMillis int64    `json:"slowest_ms,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}
