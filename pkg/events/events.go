// Package events предоставляет порт для событий прогресса обработки файлов.
//
// Пул воркеров (pkg/workers) зависит только от интерфейса Emitter,
// а UI (TUI прогресс-бар, логгер, тесты) подписывается через Subscriber.
//
// # Basic Usage
//
//	emitter := events.NewChanEmitter(64)
//	runner := workers.New(workers.Config{Workers: 4, Emitter: emitter})
//
//	go func() {
//	    for ev := range emitter.Subscribe().Events() {
//	        switch ev.Type {
//	        case events.EventFileDone:
//	            bar.Incr()
//	        case events.EventFileFailed:
//	            ui.showFailure(ev.Data)
//	        }
//	    }
//	}()
//
// # Thread Safety
//
// Все реализации интерфейсов должны быть thread-safe: события приходят
// из нескольких горутин-шардов одновременно.
package events

import (
	"context"
	"time"
)

// EventType представляет тип события прогресса.
type EventType string

const (
	// EventRunStarted отправляется перед запуском шардов.
	EventRunStarted EventType = "run_started"

	// EventShardStarted отправляется когда шард начинает обработку.
	EventShardStarted EventType = "shard_started"

	// EventFileDone отправляется после успешной обработки файла.
	EventFileDone EventType = "file_done"

	// EventFileFailed отправляется когда преобразование файла вернуло ошибку.
	EventFileFailed EventType = "file_failed"

	// EventShardFinished отправляется когда шард обработал все свои файлы.
	EventShardFinished EventType = "shard_finished"

	// EventDone отправляется когда все шарды завершены.
	EventDone EventType = "done"
)

// EventData — sealed interface для данных события.
//
// Только типы из пакета events могут реализовать этот интерфейс.
type EventData interface {
	eventData()
}

// RunData содержит данные для EventRunStarted.
type RunData struct {
	Shards int
	Files  int
}

func (RunData) eventData() {}

// ShardData содержит данные для EventShardStarted и EventShardFinished.
type ShardData struct {
	Shard int
	Size  int
}

func (ShardData) eventData() {}

// FileData содержит данные для EventFileDone и EventFileFailed.
type FileData struct {
	Shard    int
	Source   string
	DestDir  string
	Duration time.Duration
	Err      error // nil для EventFileDone
}

func (FileData) eventData() {}

// DoneData содержит итог для EventDone.
type DoneData struct {
	Processed int
	Failed    int
	Duration  time.Duration
}

func (DoneData) eventData() {}

// Event представляет событие прогресса.
//
// Соответствие EventType → Data:
//   - EventRunStarted: RunData
//   - EventShardStarted, EventShardFinished: ShardData
//   - EventFileDone, EventFileFailed: FileData
//   - EventDone: DoneData
type Event struct {
	Type      EventType
	Data      EventData
	Timestamp time.Time
}

// New создаёт событие с текущим временем.
func New(t EventType, data EventData) Event {
	return Event{Type: t, Data: data, Timestamp: time.Now()}
}

// Emitter — порт для отправки событий.
type Emitter interface {
	// Emit отправляет событие.
	//
	// Если context отменён, операция должна прерваться.
	Emit(ctx context.Context, event Event)
}

// Subscriber позволяет читать события из канала.
type Subscriber interface {
	// Events возвращает read-only канал событий.
	//
	// Канал закрывается при закрытии эмиттера.
	Events() <-chan Event

	// Close освобождает ресурсы подписчика.
	Close()
}

// Nop — эмиттер, который ничего не делает.
type Nop struct{}

// Emit ничего не делает.
func (Nop) Emit(context.Context, Event) {}

var _ Emitter = Nop{}

// Multi рассылает каждое событие всем эмиттерам по порядку. nil пропускаются.
type Multi []Emitter

// Emit отправляет событие каждому эмиттеру.
func (m Multi) Emit(ctx context.Context, event Event) {
	for _, e := range m {
		if e != nil {
			e.Emit(ctx, event)
		}
	}
}
