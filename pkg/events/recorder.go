package events

import (
	"context"
	"sync"
)

// Recorder - Emitter, который накапливает события в памяти.
//
// Используется HTTP сервером для трассировки запроса и в тестах.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit реализует Emitter.
func (r *Recorder) Emit(ctx context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events возвращает копию накопленных событий.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types возвращает последовательность типов событий.
func (r *Recorder) Types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// Multi рассылает событие нескольким эмиттерам; nil элементы пропускаются.
type Multi []Emitter

// Emit реализует Emitter.
func (m Multi) Emit(ctx context.Context, event Event) {
	for _, e := range m {
		if e != nil {
			e.Emit(ctx, event)
		}
	}
}

var (
	_ Emitter = (*Recorder)(nil)
	_ Emitter = Multi(nil)
)
