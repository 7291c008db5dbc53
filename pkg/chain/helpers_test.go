package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MehdiZare/langchain-fmp-data/pkg/llm"
	"github.com/MehdiZare/langchain-fmp-data/pkg/tools"
)

// scriptedModel возвращает заранее заданные ответы по очереди и
// запоминает, что ему передали.
type scriptedModel struct {
	mu        sync.Mutex
	responses []llm.Message
	err       error
	calls     int
	seen      [][]llm.Message
	opts      []llm.GenerateOptions
}

func (m *scriptedModel) Generate(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (llm.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seen = append(m.seen, append([]llm.Message(nil), messages...))
	m.opts = append(m.opts, llm.ApplyOptions(opts...))
	if m.err != nil {
		return llm.Message{}, m.err
	}
	if m.calls >= len(m.responses) {
		return llm.Message{}, errors.New("script exhausted")
	}
	resp := m.responses[m.calls]
	m.calls++
	return resp, nil
}

// loopingModel всегда просит один и тот же инструмент.
type loopingModel struct {
	tool  string
	calls int
}

func (m *loopingModel) Generate(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (llm.Message, error) {
	m.calls++
	return llm.AIMessage("", llm.ToolCall{
		ID:   fmt.Sprintf("call_%d", m.calls),
		Name: m.tool,
		Args: map[string]any{},
	}), nil
}

// recordingTool - инструмент, который возвращает фиксированный текст
// и считает вызовы.
type recordingTool struct {
	name   string
	output string
	err    error
	delay  time.Duration

	mu   sync.Mutex
	args []map[string]any
}

func newTool(name, output string) *recordingTool {
	return &recordingTool{name: name, output: output}
}

func (t *recordingTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        t.name,
		Description: "test tool " + t.name,
		Parameters: tools.JSONSchema{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

func (t *recordingTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	t.mu.Lock()
	t.args = append(t.args, args)
	t.mu.Unlock()

	if t.delay > 0 {
		select {
		case <-time.After(t.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if t.err != nil {
		return "", t.err
	}
	return t.output, nil
}

func (t *recordingTool) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.args)
}

func call(id, name string, args map[string]any) llm.ToolCall {
	return llm.ToolCall{ID: id, Name: name, Args: args}
}
