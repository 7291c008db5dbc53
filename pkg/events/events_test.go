package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_NilEmitter(t *testing.T) {
	assert.NotPanics(t, func() {
		Send(context.Background(), nil, EventDone, MessageData{Content: "ok"})
	})
}

func TestSend_StampsTimestamp(t *testing.T) {
	rec := &Recorder{}
	before := time.Now()

	Send(context.Background(), rec, EventToolCall, ToolCallData{
		CallID:   "call_1",
		ToolName: "get_stock_quote",
		Args:     map[string]any{"symbol": "AAPL"},
	})

	got := rec.Events()
	require.Len(t, got, 1)
	assert.Equal(t, EventToolCall, got[0].Type)
	assert.False(t, got[0].Timestamp.Before(before))

	data, ok := got[0].Data.(ToolCallData)
	require.True(t, ok)
	assert.Equal(t, "call_1", data.CallID)
	assert.Equal(t, "AAPL", data.Args["symbol"])
}

func TestRecorder_Types(t *testing.T) {
	rec := &Recorder{}
	ctx := context.Background()

	Send(ctx, rec, EventThinking, ThinkingData{Iteration: 1})
	Send(ctx, rec, EventToolResult, ToolResultData{ToolName: "x", Err: errors.New("boom")})
	Send(ctx, rec, EventError, ErrorData{Err: errors.New("boom")})

	assert.Equal(t, []EventType{EventThinking, EventToolResult, EventError}, rec.Types())
}

func TestMulti_FansOut(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	m := Multi{a, nil, b}

	Send(context.Background(), m, EventMessage, MessageData{Content: "hi"})

	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)
}

func TestChanEmitter_Deliver(t *testing.T) {
	e := NewChanEmitter(4)
	sub := e.Subscribe()
	defer sub.Close()

	Send(context.Background(), e, EventDone, MessageData{Content: "answer", Iterations: 2})

	select {
	case ev := <-sub.Events():
		assert.Equal(t, EventDone, ev.Type)
		assert.Equal(t, "answer", ev.Data.(MessageData).Content)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestChanEmitter_CancelledContext(t *testing.T) {
	e := NewChanEmitter(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		e.Emit(ctx, Event{Type: EventMessage})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on cancelled context")
	}
	assert.Equal(t, int64(1), e.Dropped())
}

func TestChanEmitter_DropWhenFull(t *testing.T) {
	e := NewChanEmitter(1, DropWhenFull())
	defer e.Close()

	e.Emit(context.Background(), Event{Type: EventThinking})
	e.Emit(context.Background(), Event{Type: EventToolCall})
	e.Emit(context.Background(), Event{Type: EventToolResult})

	assert.Equal(t, int64(2), e.Dropped())
	ev := <-e.Subscribe().Events()
	assert.Equal(t, EventThinking, ev.Type)
}

func TestChanEmitter_EmitAfterClose(t *testing.T) {
	e := NewChanEmitter(1)
	e.Close()

	assert.NotPanics(t, func() {
		e.Emit(context.Background(), Event{Type: EventMessage})
	})
}
