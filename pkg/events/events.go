// Package events - порт для подписки на события цикла рассуждений.
//
// Цикл (pkg/chain) зависит только от интерфейса Emitter, а TUI, HTTP сервер
// или логирование подключаются адаптерами:
//
//	emitter := events.NewChanEmitter(64)
//	tool, _ := agent.New(ctx, cfg, agent.WithEmitter(emitter))
//
//	go func() {
//	    for ev := range emitter.Subscribe().Events() {
//	        switch ev.Type {
//	        case events.EventToolCall:
//	            ui.showToolCall(ev.Data.(events.ToolCallData))
//	        case events.EventDone:
//	            ui.showAnswer(ev.Data.(events.MessageData).Content)
//	        }
//	    }
//	}()
//
// Все реализации Emitter должны быть thread-safe.
package events

import (
	"context"
	"time"
)

// EventType представляет тип события цикла.
type EventType string

const (
	// EventThinking - модель начала шаг рассуждения.
	EventThinking EventType = "thinking"

	// EventToolCall - модель запросила вызов инструмента.
	EventToolCall EventType = "tool_call"

	// EventToolResult - инструмент вернул результат или ошибку.
	EventToolResult EventType = "tool_result"

	// EventMessage - модель выдала промежуточный текст.
	EventMessage EventType = "message"

	// EventError - цикл завершился ошибкой.
	EventError EventType = "error"

	// EventDone - цикл завершился финальным ответом.
	EventDone EventType = "done"
)

// EventData - sealed interface для данных события.
//
// Только типы из пакета events могут реализовать этот интерфейс.
type EventData interface {
	eventData()
}

// ThinkingData содержит данные для EventThinking.
type ThinkingData struct {
	Iteration int
	Query     string
}

func (ThinkingData) eventData() {}

// ToolCallData содержит данные о вызове инструмента.
type ToolCallData struct {
	CallID   string
	ToolName string
	Args     map[string]any
}

func (ToolCallData) eventData() {}

// ToolResultData содержит результат выполнения инструмента.
type ToolResultData struct {
	CallID   string
	ToolName string
	Result   string
	Err      error
	Duration time.Duration
}

func (ToolResultData) eventData() {}

// MessageData содержит данные для EventMessage и EventDone.
type MessageData struct {
	Content    string
	Iterations int
}

func (MessageData) eventData() {}

// ErrorData содержит данные для EventError.
type ErrorData struct {
	Err error
}

func (ErrorData) eventData() {}

// Event представляет событие цикла.
//
// Соответствие типов и данных:
//   - EventThinking: ThinkingData
//   - EventToolCall: ToolCallData
//   - EventToolResult: ToolResultData
//   - EventMessage, EventDone: MessageData
//   - EventError: ErrorData
type Event struct {
	Type      EventType
	Data      EventData
	Timestamp time.Time
}

// Emitter - порт для отправки событий.
type Emitter interface {
	// Emit отправляет событие. Если context отменён, событие теряется.
	Emit(ctx context.Context, event Event)
}

// Subscriber позволяет читать события из канала.
type Subscriber interface {
	// Events возвращает read-only канал событий.
	Events() <-chan Event

	// Close освобождает подписчика.
	Close()
}

// Send ставит время и отправляет событие. nil emitter допустим.
func Send(ctx context.Context, e Emitter, typ EventType, data EventData) {
	if e == nil {
		return
	}
	e.Emit(ctx, Event{Type: typ, Data: data, Timestamp: time.Now()})
}
