package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MehdiZare/langchain-fmp-data/pkg/events"
)

func newTestChat(handler Handler, sub events.Subscriber) *Chat {
	c := NewChat(context.Background(), handler, sub, Config{ModelName: "gpt-4o"})
	c.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return c
}

func TestFormatEvent(t *testing.T) {
	st := newStyles(GetColorScheme("default"))

	line, ok := formatEvent(events.Event{
		Type: events.EventToolCall,
		Data: events.ToolCallData{ToolName: "get_stock_quote", Args: map[string]any{"symbol": "AAPL"}},
	}, st)
	require.True(t, ok)
	assert.Contains(t, line, "get_stock_quote")
	assert.Contains(t, line, "AAPL")

	line, ok = formatEvent(events.Event{
		Type: events.EventToolResult,
		Data: events.ToolResultData{ToolName: "get_stock_quote", Duration: 312 * time.Millisecond},
	}, st)
	require.True(t, ok)
	assert.Contains(t, line, "312ms")

	line, ok = formatEvent(events.Event{
		Type: events.EventToolResult,
		Data: events.ToolResultData{ToolName: "get_stock_quote", Err: errors.New("timeout")},
	}, st)
	require.True(t, ok)
	assert.Contains(t, line, "failed: timeout")

	_, ok = formatEvent(events.Event{Type: events.EventDone, Data: events.MessageData{Content: "answer"}}, st)
	assert.False(t, ok)
}

func TestWrapLines(t *testing.T) {
	out := wrapLines([]string{"the quick brown fox jumps over the lazy dog"}, 10)
	for _, l := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(l), 10)
	}

	assert.Equal(t, "a\nb", wrapLines([]string{"a", "b"}, 0))
}

func TestChat_SubmitRunsHandler(t *testing.T) {
	var got string
	c := newTestChat(func(ctx context.Context, q string) string {
		got = q
		return "Apple trades at $190"
	}, nil)

	c.textarea.SetValue("AAPL price?")
	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, c.busy)
	assert.Empty(t, c.textarea.Value())

	answer := findAnswer(t, cmd)
	c.Update(answer)
	assert.Equal(t, "AAPL price?", got)
	assert.False(t, c.busy)
	assert.Contains(t, strings.Join(c.lines, "\n"), "Apple trades at $190")
}

func TestChat_IgnoresEmptyAndBusySubmit(t *testing.T) {
	calls := 0
	c := newTestChat(func(context.Context, string) string { calls++; return "" }, nil)

	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	c.busy = true
	c.textarea.SetValue("second")
	_, cmd = c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, calls)
}

func TestChat_EventsAppendLines(t *testing.T) {
	emitter := events.NewChanEmitter(1)
	c := newTestChat(nil, emitter.Subscribe())
	before := len(c.lines)

	_, cmd := c.Update(EventMsg(events.Event{
		Type: events.EventToolCall,
		Data: events.ToolCallData{ToolName: "get_company_profile"},
	}))

	assert.NotNil(t, cmd)
	assert.Len(t, c.lines, before+1)
}

func TestChat_NewThread(t *testing.T) {
	c := NewChat(context.Background(), nil, nil, Config{
		ThreadID:  "11111111-aaaa",
		NewThread: func() string { return "22222222-bbbb" },
	})
	c.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	c.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, "22222222-bbbb", c.threadID)
	assert.Contains(t, c.View(), "thread 22222222")
}

func TestChat_MaxMessages(t *testing.T) {
	c := NewChat(context.Background(), nil, nil, Config{MaxMessages: 2})
	c.appendLine("one", false)
	c.appendLine("two", false)
	c.appendLine("three", false)
	assert.Equal(t, []string{"two", "three"}, c.lines)
}

func TestGetColorScheme(t *testing.T) {
	assert.Equal(t, ColorSchemes["light"], GetColorScheme("light"))
	assert.Equal(t, ColorSchemes["default"], GetColorScheme("neon"))
}

// findAnswer выполняет Cmd (или пачку Cmd) и возвращает answerMsg.
func findAnswer(t *testing.T, cmd tea.Cmd) answerMsg {
	t.Helper()
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if answer, ok := c().(answerMsg); ok {
				return answer
			}
		}
	}
	answer, ok := msg.(answerMsg)
	require.True(t, ok, "no answer in command output")
	return answer
}
