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

// Имена узлов графа.
const (
	nodeReasoning = "reasoning"
	nodeExecute   = "tools"
	nodeEnd       = "__end__"
)

// WorkflowConfig - параметры цикла.
type WorkflowConfig struct {
	// MaxToolsetSize - максимум инструментов, привязываемых к модели за запрос.
	MaxToolsetSize int

	// MaxIterations - максимум выполненных кругов reasoning -> execute.
	MaxIterations int

	// SystemPrompt добавляется первым сообщением, если в истории нет системного.
	SystemPrompt string

	// Temperature передаётся модели на каждом шаге.
	Temperature float64

	// ToolTimeout - timeout одного вызова инструмента (0 = DefaultToolTimeout).
	ToolTimeout time.Duration

	// Emitter получает события цикла. Может быть nil.
	Emitter events.Emitter
}

// Workflow - граф reasoning <-> execute с ограничением числа итераций.
//
// Workflow не хранит набор инструментов: он передаётся в каждый вызов
// Invoke, поэтому один Workflow можно использовать из нескольких goroutine.
type Workflow struct {
	model llm.Provider
	cfg   WorkflowConfig
}

// NewWorkflow проверяет конфигурацию и создает Workflow.
func NewWorkflow(model llm.Provider, cfg WorkflowConfig) (*Workflow, error) {
	if model == nil {
		return nil, &InvalidConfigurationError{Reason: "model is required"}
	}
	if cfg.MaxToolsetSize <= 0 {
		return nil, &InvalidConfigurationError{Reason: "max_toolset_size must be greater than 0"}
	}
	if cfg.MaxIterations <= 0 {
		return nil, &InvalidConfigurationError{Reason: "max_iterations must be greater than 0"}
	}
	if cfg.ToolTimeout == 0 {
		cfg.ToolTimeout = DefaultToolTimeout
	}
	return &Workflow{model: model, cfg: cfg}, nil
}

// Config возвращает конфигурацию цикла.
func (w *Workflow) Config() WorkflowConfig {
	return w.cfg
}

// Run запускает цикл для одного вопроса пользователя.
func (w *Workflow) Run(ctx context.Context, toolset []tools.Tool, query string) (State, error) {
	return w.Invoke(ctx, toolset, NewState(llm.HumanMessage(query)))
}

// Invoke прогоняет граф от узла reasoning до END.
//
// toolset - инструменты, отобранные для этого запроса: не пустой,
// не больше MaxToolsetSize, без повторов имён.
//
// Если модель хочет начать круг MaxIterations+1, возвращается
// *IterationLimitExceededError. При любой ошибке возвращается состояние,
// накопленное до неё.
func (w *Workflow) Invoke(ctx context.Context, toolset []tools.Tool, s State) (State, error) {
	obs := newEmitterObserver(w.cfg.Emitter)

	state, rounds, err := w.loop(ctx, toolset, s, obs)
	if err != nil {
		utils.Error("Workflow failed", "rounds", rounds, "error", err.Error())
		obs.finish("", rounds, err)
		return state, err
	}

	answer, _ := state.LastAssistant()
	utils.Info("Workflow finished", "rounds", rounds, "messages", state.Len())
	obs.finish(answer.Content, rounds, nil)
	return state, nil
}

func (w *Workflow) loop(ctx context.Context, toolset []tools.Tool, s State, obs emitterObserver) (State, int, error) {
	if len(toolset) == 0 {
		return s, 0, &InvalidConfigurationError{Reason: "toolset must contain at least one tool"}
	}
	if len(toolset) > w.cfg.MaxToolsetSize {
		return s, 0, &InvalidConfigurationError{Reason: fmt.Sprintf(
			"toolset size %d exceeds max_toolset_size %d", len(toolset), w.cfg.MaxToolsetSize)}
	}
	if s.Len() == 0 {
		return s, 0, &NoMessagesError{}
	}

	registry, err := tools.NewRegistry(toolset...)
	if err != nil {
		return s, 0, err
	}

	bound := llm.BindTools(w.model, registry.Definitions(), llm.WithTemperature(w.cfg.Temperature))
	node := NewToolNode(registry,
		WithToolEmitter(w.cfg.Emitter),
		WithToolTimeout(w.cfg.ToolTimeout))

	state := s
	if w.cfg.SystemPrompt != "" && !state.hasSystem() {
		state = NewState(llm.SystemMessage(w.cfg.SystemPrompt)).Append(state.Messages...)
	}
	query := lastHumanContent(state)

	utils.Debug("Workflow started",
		"tools", registry.Names(),
		"max_iterations", w.cfg.MaxIterations)

	rounds := 0
	for {
		obs.thinking(ctx, rounds+1, query)

		state, err = w.reason(ctx, bound, state)
		if err != nil {
			return state, rounds, err
		}

		next := ShouldContinue(state)
		utils.Debug("Routing", "from", nodeReasoning, "to", next.String(), "round", rounds)
		if next == Terminate {
			return state, rounds, nil
		}
		if rounds >= w.cfg.MaxIterations {
			return state, rounds, &IterationLimitExceededError{Limit: w.cfg.MaxIterations}
		}

		last, _ := state.Last()
		obs.message(ctx, last.Content)

		executed, err := node.Invoke(ctx, state)
		if err != nil {
			return state, rounds, err
		}
		state = executed
		rounds++
	}
}

// reason - узел reasoning: один вызов модели с привязанными инструментами.
func (w *Workflow) reason(ctx context.Context, model llm.Provider, s State) (State, error) {
	msg, err := model.Generate(ctx, s.Messages)
	if err != nil {
		return s, fmt.Errorf("model call failed: %w", err)
	}
	msg.Role = llm.RoleAssistant
	if msg.ToolCalls == nil {
		msg.ToolCalls = []llm.ToolCall{}
	}
	return s.Append(msg), nil
}

func lastHumanContent(s State) string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == llm.RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}
