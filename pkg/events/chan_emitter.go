package events

import (
	"context"
	"sync"
	"sync/atomic"
)

// ChanEmitter — реализация Emitter через буферизованный канал.
//
// Thread-safe. В режиме Lossy события, не поместившиеся в буфер,
// отбрасываются вместо блокировки воркера.
type ChanEmitter struct {
	mu      sync.RWMutex
	ch      chan Event
	closed  bool
	lossy   bool
	dropped atomic.Int64
}

// NewChanEmitter создаёт блокирующий ChanEmitter с буфером buffer.
func NewChanEmitter(buffer int) *ChanEmitter {
	return &ChanEmitter{
		ch: make(chan Event, buffer),
	}
}

// NewLossyChanEmitter создаёт ChanEmitter, который отбрасывает события
// при заполненном буфере.
func NewLossyChanEmitter(buffer int) *ChanEmitter {
	e := NewChanEmitter(buffer)
	e.lossy = true
	return e
}

// Emit отправляет событие в канал.
//
// После Close ничего не отправляет. Уважает отмену context.
func (e *ChanEmitter) Emit(ctx context.Context, event Event) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return
	}

	if e.lossy {
		select {
		case e.ch <- event:
		default:
			e.dropped.Add(1)
		}
		return
	}

	select {
	case e.ch <- event:
	case <-ctx.Done():
	}
}

// Dropped возвращает количество отброшенных событий (только Lossy).
func (e *ChanEmitter) Dropped() int {
	return int(e.dropped.Load())
}

// Subscribe возвращает Subscriber для чтения событий.
//
// Все подписчики читают из одного канала.
func (e *ChanEmitter) Subscribe() Subscriber {
	return &chanSubscriber{ch: e.ch}
}

// Close закрывает канал. Повторный вызов безопасен.
func (e *ChanEmitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	close(e.ch)
}

type chanSubscriber struct {
	ch <-chan Event
}

func (s *chanSubscriber) Events() <-chan Event {
	return s.ch
}

// Close — no-op: канал общий и закрывается через ChanEmitter.Close().
func (s *chanSubscriber) Close() {}

var _ Emitter = (*ChanEmitter)(nil)
var _ Subscriber = (*chanSubscriber)(nil)
