// Package tui - интерактивный чат с инструментом "FMP Data" на Bubble Tea.
//
//	┌──────────────────────────────────────────────┐
//	│ FMP Data | gpt-4o | thread 3f2a9c1e  ⣾       │ ← статус
//	├──────────────────────────────────────────────┤
//	│ [14:32:15] You: Apple P/E?                   │
//	│ → get_key_metrics {"symbol":"AAPL"}          │
//	│ ← get_key_metrics (312ms)                    │
//	│ [14:32:18] FMP: Apple's P/E is 29.1          │
//	├──────────────────────────────────────────────┤
//	│ > ввод                                       │
//	└──────────────────────────────────────────────┘
//
// Чат не знает про агента: запрос уходит в Handler, ход рассуждения
// приходит через events.Subscriber.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/MehdiZare/langchain-fmp-data/pkg/events"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

// Handler выполняет запрос и возвращает текст ответа.
type Handler func(ctx context.Context, query string) string

// Config настраивает Chat. Пустые поля получают дефолты.
type Config struct {
	Title         string
	ModelName     string
	InputPrompt   string
	Colors        ColorScheme
	Keys          KeyMap
	ShowTimestamp bool
	MaxMessages   int // 0 = без ограничения

	// NewThread вызывается по Ctrl+N и возвращает новый идентификатор разговора.
	NewThread func() string
	// ThreadID - идентификатор разговора на старте.
	ThreadID string
}

// Chat - модель Bubble Tea.
type Chat struct {
	ctx     context.Context
	cfg     Config
	st      styles
	sub     events.Subscriber
	handler Handler

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	help     help.Model

	// lines хранятся без переноса, перенос делается под текущую ширину.
	lines    []string
	ready    bool
	busy     bool
	threadID string
}

// NewChat создает чат. sub может быть nil - тогда ход рассуждения не показывается.
func NewChat(ctx context.Context, handler Handler, sub events.Subscriber, cfg Config) *Chat {
	if cfg.Title == "" {
		cfg.Title = "FMP Data"
	}
	if cfg.InputPrompt == "" {
		cfg.InputPrompt = "> "
	}
	if cfg.Colors.StatusForeground == "" {
		cfg.Colors = GetColorScheme("default")
	}
	if len(cfg.Keys.Send.Keys()) == 0 {
		cfg.Keys = DefaultKeyMap()
	}

	ta := textarea.New()
	ta.Placeholder = "Ask about a company, a ticker or the market..."
	ta.Prompt = cfg.InputPrompt
	ta.CharLimit = 1000
	ta.SetHeight(2)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	c := &Chat{
		ctx:      ctx,
		cfg:      cfg,
		st:       newStyles(cfg.Colors),
		sub:      sub,
		handler:  handler,
		viewport: viewport.New(0, 0),
		textarea: ta,
		spinner:  sp,
		help:     help.New(),
		threadID: cfg.ThreadID,
	}
	c.spinner.Style = c.st.spinner
	c.appendLine(c.st.system.Render("Ready. Ask a financial question."), false)
	return c
}

// Run запускает программу (блокирующий вызов).
func (c *Chat) Run() error {
	p := tea.NewProgram(c, tea.WithAltScreen(), tea.WithContext(c.ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// Init реализует tea.Model.
func (c *Chat) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if c.sub != nil {
		cmds = append(cmds, WaitForEvent(c.sub))
	}
	return tea.Batch(cmds...)
}

// Update реализует tea.Model.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.resize(msg.Width, msg.Height)
		return c, nil

	case tea.KeyMsg:
		return c.handleKey(msg)

	case EventMsg:
		if line, ok := formatEvent(events.Event(msg), c.st); ok {
			c.appendLine(line, false)
		}
		return c, WaitForEvent(c.sub)

	case answerMsg:
		c.busy = false
		c.appendLine(c.st.answer.Render("FMP: ")+string(msg), true)
		c.textarea.Focus()
		return c, nil

	case spinner.TickMsg:
		if !c.busy {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	}

	var taCmd, vpCmd tea.Cmd
	c.textarea, taCmd = c.textarea.Update(msg)
	c.viewport, vpCmd = c.viewport.Update(msg)
	return c, tea.Batch(taCmd, vpCmd)
}

func (c *Chat) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := c.cfg.Keys
	switch {
	case key.Matches(msg, keys.Quit):
		return c, tea.Quit

	case key.Matches(msg, keys.ScrollUp):
		c.viewport.HalfViewUp()
		return c, nil

	case key.Matches(msg, keys.ScrollDown):
		c.viewport.HalfViewDown()
		return c, nil

	case key.Matches(msg, keys.NewThread):
		if c.cfg.NewThread != nil {
			c.threadID = c.cfg.NewThread()
			c.appendLine(c.st.system.Render("New thread "+shortID(c.threadID)), false)
		}
		return c, nil

	case key.Matches(msg, keys.Send):
		return c.submit()
	}

	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	return c, cmd
}

// submit отправляет ввод в Handler. Пока идёт запрос, новый не принимается.
func (c *Chat) submit() (tea.Model, tea.Cmd) {
	query := strings.TrimSpace(c.textarea.Value())
	if query == "" || c.busy || c.handler == nil {
		return c, nil
	}
	c.textarea.Reset()
	c.busy = true
	c.appendLine(c.st.user.Render("You: ")+query, true)
	utils.Info("TUI query", "query", utils.Truncate(query, 100))

	ctx, handler := c.ctx, c.handler
	ask := func() tea.Msg {
		return answerMsg(handler(ctx, query))
	}
	return c, tea.Batch(ask, c.spinner.Tick)
}

// View реализует tea.Model.
func (c *Chat) View() string {
	if !c.ready {
		return "Initializing..."
	}
	return strings.Join([]string{
		c.statusBar(),
		c.viewport.View(),
		c.textarea.View(),
		c.help.View(c.cfg.Keys),
	}, "\n")
}

func (c *Chat) statusBar() string {
	parts := []string{c.cfg.Title}
	if c.cfg.ModelName != "" {
		parts = append(parts, c.cfg.ModelName)
	}
	if c.threadID != "" {
		parts = append(parts, "thread "+shortID(c.threadID))
	}
	bar := c.st.status.Render(" " + strings.Join(parts, " | ") + " ")
	if c.busy {
		bar += " " + c.spinner.View()
	}
	return bar
}

func (c *Chat) resize(width, height int) {
	if width < 20 {
		width = 20
	}
	// статус + ввод + подсказка
	chrome := 1 + c.textarea.Height() + 1 + 3
	vpHeight := height - chrome
	if vpHeight < 1 {
		vpHeight = 1
	}
	c.viewport.Width = width
	c.viewport.Height = vpHeight
	c.textarea.SetWidth(width)
	c.help.Width = width
	c.ready = true
	c.render()
}

func (c *Chat) appendLine(line string, timestamp bool) {
	if timestamp && c.cfg.ShowTimestamp {
		line = fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), line)
	}
	c.lines = append(c.lines, line)
	if c.cfg.MaxMessages > 0 && len(c.lines) > c.cfg.MaxMessages {
		c.lines = c.lines[len(c.lines)-c.cfg.MaxMessages:]
	}
	c.render()
}

// render переносит строки под ширину viewport и сохраняет позицию
// прокрутки, если пользователь отмотал историю вверх.
func (c *Chat) render() {
	atBottom := c.viewport.AtBottom() || c.viewport.TotalLineCount() <= c.viewport.Height
	c.viewport.SetContent(wrapLines(c.lines, c.viewport.Width))
	if atBottom {
		c.viewport.GotoBottom()
	}
}

// wrapLines переносит по словам, а слишком длинные слова режет жёстко.
func wrapLines(lines []string, width int) string {
	if width <= 0 {
		return strings.Join(lines, "\n")
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = wrap.String(wordwrap.String(l, width), width)
	}
	return strings.Join(out, "\n")
}

// formatEvent превращает событие цикла в строку лога.
// EventDone и EventError не показываются: ответ приходит через Handler.
func formatEvent(ev events.Event, st styles) (string, bool) {
	switch data := ev.Data.(type) {
	case events.ThinkingData:
		if data.Iteration > 1 {
			return st.system.Render(fmt.Sprintf("Thinking (step %d)...", data.Iteration)), true
		}
		return st.system.Render("Thinking..."), true

	case events.ToolCallData:
		args, _ := json.Marshal(data.Args)
		return st.toolCall.Render(fmt.Sprintf("→ %s %s", data.ToolName, utils.Truncate(string(args), 120))), true

	case events.ToolResultData:
		if data.Err != nil {
			return st.err.Render(fmt.Sprintf("← %s failed: %v", data.ToolName, data.Err)), true
		}
		return st.toolResult.Render(fmt.Sprintf("← %s (%dms)", data.ToolName, data.Duration.Milliseconds())), true

	case events.MessageData:
		if ev.Type == events.EventMessage && data.Content != "" {
			return st.system.Render(data.Content), true
		}
	}
	return "", false
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var _ tea.Model = (*Chat)(nil)
