package chain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MehdiZare/langchain-fmp-data/pkg/events"
	"github.com/MehdiZare/langchain-fmp-data/pkg/llm"
	"github.com/MehdiZare/langchain-fmp-data/pkg/tools"
)

func newNode(t *testing.T, opts []ToolNodeOption, ts ...tools.Tool) *ToolNode {
	t.Helper()
	reg, err := tools.NewRegistry(ts...)
	require.NoError(t, err)
	return NewToolNode(reg, opts...)
}

func TestToolNode_ExecutesInOrder(t *testing.T) {
	quote := newTool("get_stock_quote", `{"price":190}`)
	profile := newTool("get_company_profile", `{"name":"Apple"}`)
	node := newNode(t, nil, quote, profile)

	in := NewState(
		llm.HumanMessage("AAPL?"),
		llm.AIMessage("",
			call("c1", "get_company_profile", map[string]any{"symbol": "AAPL"}),
			call("c2", "get_stock_quote", map[string]any{"symbol": "AAPL"}),
		),
	)

	out, err := node.Invoke(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out.Messages, 4)

	first, second := out.Messages[2], out.Messages[3]
	assert.Equal(t, llm.RoleTool, first.Role)
	assert.Equal(t, "c1", first.ToolCallID)
	assert.Equal(t, "get_company_profile", first.Name)
	assert.Equal(t, `{"name":"Apple"}`, first.Content)
	assert.Equal(t, "c2", second.ToolCallID)
	assert.Equal(t, `{"price":190}`, second.Content)

	assert.Equal(t, "AAPL", quote.args[0]["symbol"])
	assert.Len(t, in.Messages, 2, "input state must stay untouched")
}

func TestToolNode_EmptyState(t *testing.T) {
	node := newNode(t, nil, newTool("x", "ok"))

	_, err := node.Invoke(context.Background(), NewState())

	var target *NoMessagesError
	assert.ErrorAs(t, err, &target)
	assert.ErrorIs(t, err, ErrNoMessages)
}

func TestToolNode_NoToolCalls(t *testing.T) {
	node := newNode(t, nil, newTool("x", "ok"))

	cases := map[string]State{
		"human last":         NewState(llm.HumanMessage("hi")),
		"assistant no calls": NewState(llm.AIMessage("done")),
		"tool message last":  NewState(llm.ToolMessage("1", "x", "out")),
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := node.Invoke(context.Background(), s)
			var target *NoToolCallsError
			assert.ErrorAs(t, err, &target)
		})
	}
}

func TestToolNode_UnknownTool(t *testing.T) {
	node := newNode(t, nil, newTool("get_stock_quote", "ok"))

	_, err := node.Invoke(context.Background(), NewState(
		llm.AIMessage("", call("c1", "get_stock_qoute", nil)),
	))

	var target *tools.UnknownToolError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "get_stock_qoute", target.Name)
}

func TestToolNode_FailureAbortsBatch(t *testing.T) {
	failing := newTool("broken", "")
	failing.err = errors.New("upstream down")
	after := newTool("after", "never")
	node := newNode(t, nil, failing, after)

	out, err := node.Invoke(context.Background(), NewState(
		llm.AIMessage("", call("c1", "broken", nil), call("c2", "after", nil)),
	))

	var target *ToolExecutionError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "broken", target.Tool)
	assert.Equal(t, "c1", target.CallID)
	assert.Contains(t, err.Error(), "failed to execute broken")
	assert.Contains(t, err.Error(), "upstream down")
	assert.Equal(t, 0, after.callCount())
	assert.Empty(t, out.Messages)
}

func TestToolNode_Timeout(t *testing.T) {
	slow := newTool("slow_tool", "late")
	slow.delay = 5 * time.Second
	node := newNode(t, []ToolNodeOption{WithToolTimeout(50 * time.Millisecond)}, slow)

	start := time.Now()
	_, err := node.Invoke(context.Background(), NewState(
		llm.AIMessage("", call("c1", "slow_tool", nil)),
	))

	var target *ToolExecutionError
	require.ErrorAs(t, err, &target)
	assert.Contains(t, err.Error(), "timeout")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestToolNode_NilArgs(t *testing.T) {
	tool := newTool("x", "ok")
	node := newNode(t, nil, tool)

	_, err := node.Invoke(context.Background(), NewState(llm.AIMessage("", call("c1", "x", nil))))
	require.NoError(t, err)
	assert.NotNil(t, tool.args[0])
}

func TestToolNode_Events(t *testing.T) {
	rec := &events.Recorder{}
	node := newNode(t, []ToolNodeOption{WithToolEmitter(rec)}, newTool("x", "ok"))

	_, err := node.Invoke(context.Background(), NewState(
		llm.AIMessage("", call("c1", "x", map[string]any{"a": "b"})),
	))
	require.NoError(t, err)

	got := rec.Events()
	require.Len(t, got, 2)
	assert.Equal(t, events.EventToolCall, got[0].Type)
	assert.Equal(t, "c1", got[0].Data.(events.ToolCallData).CallID)
	assert.Equal(t, events.EventToolResult, got[1].Type)
	assert.Equal(t, "ok", got[1].Data.(events.ToolResultData).Result)
}
