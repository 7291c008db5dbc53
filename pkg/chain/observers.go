package chain

import (
	"context"
	"time"

	"github.com/MehdiZare/langchain-fmp-data/pkg/events"
	"github.com/MehdiZare/langchain-fmp-data/pkg/llm"
)

// emitterObserver переводит шаги цикла в события events.Emitter.
//
// nil emitter допустим: все методы становятся no-op.
type emitterObserver struct {
	emitter events.Emitter
}

func newEmitterObserver(emitter events.Emitter) emitterObserver {
	return emitterObserver{emitter: emitter}
}

// thinking - модель начинает очередной шаг.
func (o emitterObserver) thinking(ctx context.Context, iteration int, query string) {
	events.Send(ctx, o.emitter, events.EventThinking, events.ThinkingData{
		Iteration: iteration,
		Query:     query,
	})
}

// toolCall - модель запросила инструмент.
func (o emitterObserver) toolCall(ctx context.Context, tc llm.ToolCall) {
	events.Send(ctx, o.emitter, events.EventToolCall, events.ToolCallData{
		CallID:   tc.ID,
		ToolName: tc.Name,
		Args:     tc.Args,
	})
}

// toolResult - инструмент завершился.
func (o emitterObserver) toolResult(ctx context.Context, tc llm.ToolCall, result string, err error, d time.Duration) {
	events.Send(ctx, o.emitter, events.EventToolResult, events.ToolResultData{
		CallID:   tc.ID,
		ToolName: tc.Name,
		Result:   result,
		Err:      err,
		Duration: d,
	})
}

// message - промежуточный текст модели рядом с вызовами инструментов.
func (o emitterObserver) message(ctx context.Context, content string) {
	if content == "" {
		return
	}
	events.Send(ctx, o.emitter, events.EventMessage, events.MessageData{Content: content})
}

// finish отправляет EventDone или EventError.
//
// Использует context.Background(): финальное событие должно дойти
// даже если запрос уже отменён.
func (o emitterObserver) finish(answer string, iterations int, err error) {
	ctx := context.Background()
	if err != nil {
		events.Send(ctx, o.emitter, events.EventError, events.ErrorData{Err: err})
		return
	}
	events.Send(ctx, o.emitter, events.EventDone, events.MessageData{
		Content:    answer,
		Iterations: iterations,
	})
}
