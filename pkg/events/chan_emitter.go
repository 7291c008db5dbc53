package events

import (
	"context"
	"sync"
	"sync/atomic"
)

// ChanEmitter - Emitter поверх одного канала. Им пользуется TUI.
type ChanEmitter struct {
	mu     sync.RWMutex
	ch     chan Event
	closed bool

	dropWhenFull bool
	dropped      atomic.Int64
}

// ChanOption настраивает ChanEmitter.
type ChanOption func(*ChanEmitter)

// DropWhenFull - при полном буфере событие отбрасывается, а не ждёт читателя.
// Цикл не блокируется медленным UI; потери видны через Dropped.
func DropWhenFull() ChanOption {
	return func(e *ChanEmitter) { e.dropWhenFull = true }
}

// NewChanEmitter создаёт ChanEmitter с буфером на buffer событий.
// buffer = 0 - небуферизованный канал.
func NewChanEmitter(buffer int, opts ...ChanOption) *ChanEmitter {
	e := &ChanEmitter{ch: make(chan Event, buffer)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit кладёт событие в канал.
//
// Без DropWhenFull ждёт места в буфере или отмены ctx.
// После Close события молча отбрасываются.
func (e *ChanEmitter) Emit(ctx context.Context, event Event) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return
	}

	if e.dropWhenFull {
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
		e.dropped.Add(1)
	}
}

// Dropped - сколько событий не дошло до канала.
func (e *ChanEmitter) Dropped() int64 {
	return e.dropped.Load()
}

// Subscribe возвращает Subscriber на общий канал.
// Подписчики конкурируют за события, а не получают копии.
func (e *ChanEmitter) Subscribe() Subscriber {
	return chanSubscriber{ch: e.ch}
}

// Close закрывает канал; повторный вызов безопасен.
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

func (s chanSubscriber) Events() <-chan Event { return s.ch }

// Close - no-op: канал принадлежит ChanEmitter.
func (s chanSubscriber) Close() {}

var (
	_ Emitter    = (*ChanEmitter)(nil)
	_ Subscriber = chanSubscriber{}
)
