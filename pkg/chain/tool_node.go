package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/MehdiZare/langchain-fmp-data/pkg/events"
	"github.com/MehdiZare/langchain-fmp-data/pkg/llm"
	"github.com/MehdiZare/langchain-fmp-data/pkg/tools"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

// DefaultToolTimeout - защитный timeout одного вызова инструмента.
const DefaultToolTimeout = 60 * time.Second

// ToolNode выполняет вызовы инструментов из последнего ответа ассистента.
//
// Вызовы выполняются строго по порядку. Первая же ошибка прерывает батч:
// последующие вызовы не запускаются, частичное состояние не возвращается.
type ToolNode struct {
	registry *tools.Registry
	observer emitterObserver
	timeout  time.Duration
}

// ToolNodeOption настраивает ToolNode.
type ToolNodeOption func(*ToolNode)

// WithToolEmitter подключает эмиттер событий tool_call / tool_result.
func WithToolEmitter(e events.Emitter) ToolNodeOption {
	return func(n *ToolNode) {
		n.observer = newEmitterObserver(e)
	}
}

// WithToolTimeout переопределяет timeout одного вызова. 0 отключает его.
func WithToolTimeout(d time.Duration) ToolNodeOption {
	return func(n *ToolNode) {
		n.timeout = d
	}
}

// NewToolNode создает узел выполнения над реестром.
func NewToolNode(registry *tools.Registry, opts ...ToolNodeOption) *ToolNode {
	n := &ToolNode{
		registry: registry,
		timeout:  DefaultToolTimeout,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Invoke выполняет все вызовы последнего сообщения и возвращает новое
// состояние с одним tool-сообщением на каждый вызов, в порядке запросов.
//
// Ошибки:
//   - пустое состояние: *NoMessagesError
//   - последнее сообщение не от ассистента или без вызовов: *NoToolCallsError
//   - неизвестный инструмент: *tools.UnknownToolError
//   - ошибка инструмента: *ToolExecutionError
func (n *ToolNode) Invoke(ctx context.Context, s State) (State, error) {
	last, ok := s.Last()
	if !ok {
		return State{}, &NoMessagesError{}
	}
	if last.Role != llm.RoleAssistant || len(last.ToolCalls) == 0 {
		return State{}, &NoToolCallsError{Role: string(last.Role)}
	}

	results := make([]llm.Message, 0, len(last.ToolCalls))
	for _, tc := range last.ToolCalls {
		tool, err := n.registry.Get(tc.Name)
		if err != nil {
			utils.Warn("Unknown tool requested", "tool", tc.Name, "call_id", tc.ID)
			return State{}, err
		}

		n.observer.toolCall(ctx, tc)
		start := time.Now()
		out, err := n.execute(ctx, tool, tc)
		elapsed := time.Since(start)
		n.observer.toolResult(ctx, tc, out, err, elapsed)

		if err != nil {
			utils.Error("Tool execution failed",
				"tool", tc.Name,
				"call_id", tc.ID,
				"duration_ms", elapsed.Milliseconds(),
				"error", err.Error())
			return State{}, &ToolExecutionError{Tool: tc.Name, CallID: tc.ID, Err: err}
		}

		utils.Debug("Tool executed",
			"tool", tc.Name,
			"call_id", tc.ID,
			"duration_ms", elapsed.Milliseconds(),
			"result", utils.Truncate(out, 200))
		results = append(results, llm.ToolMessage(tc.ID, tc.Name, out))
	}

	return s.Append(results...), nil
}

// execute запускает инструмент в отдельной goroutine, чтобы зависший
// инструмент не блокировал цикл дольше timeout.
func (n *ToolNode) execute(ctx context.Context, tool tools.Tool, tc llm.ToolCall) (string, error) {
	args := tc.Args
	if args == nil {
		args = map[string]any{}
	}
	if n.timeout <= 0 {
		return tool.Execute(ctx, args)
	}

	toolCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	type execResult struct {
		output string
		err    error
	}
	resultChan := make(chan execResult, 1)

	go func() {
		out, err := tool.Execute(toolCtx, args)
		resultChan <- execResult{out, err}
	}()

	select {
	case <-toolCtx.Done():
		if toolCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("tool execution timeout after %v", n.timeout)
		}
		return "", fmt.Errorf("tool execution cancelled: %w", toolCtx.Err())
	case res := <-resultChan:
		return res.output, res.err
	}
}
