// Package agent - внешняя точка входа: инструмент "FMP Data".
//
// Tool проверяет ключи, строит семантический селектор над каталогом
// FMP инструментов и на каждый запрос запускает цикл pkg/chain
// с несколькими наиболее подходящими инструментами.
//
//	tool, err := agent.New(ctx, agent.Config{})
//	if err != nil {
//	    return err // ошибки конфигурации и ключей
//	}
//	answer := tool.Run(ctx, "What is Apple's current P/E ratio?")
//
// Ошибки во время запроса не возвращаются как error: они превращаются
// в строку-ответ, чтобы один неудачный запрос не ломал долгоживущий инструмент.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"
	lctools "github.com/tmc/langchaingo/tools"

	"github.com/MehdiZare/langchain-fmp-data/pkg/chain"
	"github.com/MehdiZare/langchain-fmp-data/pkg/config"
	"github.com/MehdiZare/langchain-fmp-data/pkg/events"
	"github.com/MehdiZare/langchain-fmp-data/pkg/llm"
	"github.com/MehdiZare/langchain-fmp-data/pkg/llm/openai"
	"github.com/MehdiZare/langchain-fmp-data/pkg/toolkit"
	"github.com/MehdiZare/langchain-fmp-data/pkg/tools"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
	"github.com/MehdiZare/langchain-fmp-data/pkg/vectorstore"
)

const (
	// ToolName - имя инструмента для внешних агентов.
	ToolName = "FMP Data"

	// ToolDescription - описание инструмента для внешних агентов.
	ToolDescription = "Use this tool for getting financial data with access to real-time market data " +
		"such as stock prices, stock indexes, and financial statements."
)

// DefaultSystemPrompt задаёт роль модели в цикле.
const DefaultSystemPrompt = `You are a financial data assistant with access to Financial Modeling Prep tools.
Use the tools to fetch the data needed to answer the question. Answer concisely and cite the numbers you used.
When the user asks for structured data, reply with a single JSON object and nothing else.`

// ToolSelector отбирает инструменты под запрос.
type ToolSelector = toolkit.Selector

// SelectorFactory строит ToolSelector из разрешённых ключей.
type SelectorFactory = toolkit.SelectorFactory

// Runner - запускаемый цикл. *chain.Workflow реализует его.
type Runner interface {
	Run(ctx context.Context, toolset []tools.Tool, query string) (chain.State, error)
}

// WorkflowFactory строит Runner на один запрос.
type WorkflowFactory func(model llm.Provider, cfg chain.WorkflowConfig) (Runner, error)

// ThreadID - идентификатор разговора в пределах экземпляра Tool.
type ThreadID string

// Config - параметры Tool. Нулевые значения заменяются дефолтами.
type Config struct {
	FMPAPIKey    string // пусто → FMP_API_KEY
	OpenAIAPIKey string // пусто → OPENAI_API_KEY

	MaxIterations  int // 0 → 30
	MaxToolsetSize int // 0 → 3
	Temperature    float64
	Model          string // пусто → gpt-4o
	SystemPrompt   string // пусто → DefaultSystemPrompt

	StoreName string // пусто → fmp_endpoints
	CacheDir  string

	FMP            config.FMPConfig
	VectorStore    config.VectorStoreConfig
	EmbeddingModel string
}

// ConfigFromApp собирает Config из файла конфигурации.
func ConfigFromApp(app *config.AppConfig) Config {
	agentCfg := app.Agent.GetDefaults()
	chat := app.GetChatModel(app.Models.DefaultChat)
	return Config{
		FMPAPIKey:      app.FMP.APIKey,
		OpenAIAPIKey:   chat.APIKey,
		MaxIterations:  agentCfg.MaxIterations,
		MaxToolsetSize: agentCfg.MaxToolsetSize,
		Temperature:    agentCfg.Temperature,
		Model:          chat.ModelName,
		SystemPrompt:   agentCfg.SystemPrompt,
		StoreName:      app.VectorStore.StoreName,
		CacheDir:       app.VectorStore.CacheDir,
		FMP:            app.FMP,
		VectorStore:    app.VectorStore,
		EmbeddingModel: app.Models.DefaultEmbedding,
	}
}

func (c Config) withDefaults() (Config, error) {
	if c.MaxIterations < 0 {
		return c, &chain.InvalidConfigurationError{Reason: "max_iterations must be greater than 0"}
	}
	if c.MaxToolsetSize < 0 {
		return c, &chain.InvalidConfigurationError{Reason: "max_toolset_size must be greater than 0"}
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = config.DefaultMaxIterations
	}
	if c.MaxToolsetSize == 0 {
		c.MaxToolsetSize = config.DefaultMaxToolsetSize
	}
	if c.Model == "" {
		c.Model = config.DefaultModel
	}
	if c.StoreName == "" {
		c.StoreName = config.DefaultStoreName
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	return c, nil
}

// Option настраивает Tool.
type Option func(*Tool)

// WithModel подменяет модель (по умолчанию go-openai клиент).
func WithModel(m llm.Provider) Option {
	return func(t *Tool) { t.model = m }
}

// WithSelector использует готовый селектор вместо векторного хранилища.
func WithSelector(s ToolSelector) Option {
	return func(t *Tool) {
		t.selectorFactory = func(context.Context, config.Credentials) (ToolSelector, error) {
			return s, nil
		}
	}
}

// WithSelectorFactory подменяет построение селектора.
func WithSelectorFactory(f SelectorFactory) Option {
	return func(t *Tool) { t.selectorFactory = f }
}

// WithWorkflowFactory подменяет построение цикла.
func WithWorkflowFactory(f WorkflowFactory) Option {
	return func(t *Tool) { t.workflowFactory = f }
}

// WithEmitter подключает события цикла.
func WithEmitter(e events.Emitter) Option {
	return func(t *Tool) { t.emitter = e }
}

// WithSystemPrompt переопределяет системный промпт.
func WithSystemPrompt(p string) Option {
	return func(t *Tool) { t.systemPrompt = p }
}

// Tool - фасад над селектором и циклом.
//
// Вызовы одного Tool из нескольких goroutine безопасны настолько,
// насколько безопасны модель и инструменты; ThreadID защищён мьютексом.
type Tool struct {
	cfg          Config
	creds        config.Credentials
	model        llm.Provider
	selector     ToolSelector
	emitter      events.Emitter
	systemPrompt string

	selectorFactory SelectorFactory
	workflowFactory WorkflowFactory

	threadMu sync.Mutex
	threadID ThreadID
}

// New проверяет ключи и конфигурацию и строит селектор инструментов.
//
// Ошибки:
//   - *config.MissingCredentialError - нет ключа FMP или OpenAI
//   - *chain.InvalidConfigurationError - отрицательные лимиты
//   - *StoreInitError - не удалось построить векторное хранилище
func New(ctx context.Context, cfg Config, opts ...Option) (*Tool, error) {
	creds, err := config.ResolveCredentials(cfg.FMPAPIKey, cfg.OpenAIAPIKey)
	if err != nil {
		return nil, err
	}

	cfg, err = cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	t := &Tool{
		cfg:          cfg,
		creds:        creds,
		systemPrompt: cfg.SystemPrompt,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.model == nil {
		t.model = openai.NewClient(config.ModelDef{
			Provider:    "openai",
			ModelName:   cfg.Model,
			APIKey:      creds.OpenAIAPIKey,
			Temperature: cfg.Temperature,
		})
	}
	if t.workflowFactory == nil {
		t.workflowFactory = func(model llm.Provider, wc chain.WorkflowConfig) (Runner, error) {
			return chain.NewWorkflow(model, wc)
		}
	}
	if t.selectorFactory == nil {
		t.selectorFactory = t.defaultSelectorFactory
	}

	selector, err := t.selectorFactory(ctx, creds)
	if err != nil {
		utils.Error("Vector store initialization failed", "error", err.Error())
		return nil, classifyStoreError(err)
	}
	if isNilSelector(selector) {
		return nil, &StoreInitError{Kind: StoreErrUnexpected, Err: errNilStore}
	}
	t.selector = selector

	utils.Info("FMP Data tool created",
		"model", cfg.Model,
		"max_iterations", cfg.MaxIterations,
		"max_toolset_size", cfg.MaxToolsetSize)
	return t, nil
}

func (t *Tool) defaultSelectorFactory(ctx context.Context, creds config.Credentials) (ToolSelector, error) {
	storeCfg := t.cfg.VectorStore
	storeCfg.StoreName = t.cfg.StoreName
	if t.cfg.CacheDir != "" {
		storeCfg.CacheDir = t.cfg.CacheDir
	}
	return vectorstore.Create(ctx, vectorstore.Options{
		FMPAPIKey:      creds.FMPAPIKey,
		OpenAIAPIKey:   creds.OpenAIAPIKey,
		FMP:            t.cfg.FMP,
		Store:          storeCfg,
		EmbeddingModel: t.cfg.EmbeddingModel,
	})
}

// isNilSelector ловит nil интерфейс и типизированный nil любой реализации.
func isNilSelector(s ToolSelector) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// Name реализует langchaingo tools.Tool.
func (t *Tool) Name() string {
	return ToolName
}

// Description реализует langchaingo tools.Tool.
func (t *Tool) Description() string {
	return ToolDescription
}

// Config возвращает итоговую конфигурацию с дефолтами.
func (t *Tool) Config() Config {
	return t.cfg
}

// Input - параметры одного запроса.
type Input struct {
	Query          string         `json:"query"`
	ResponseFormat ResponseFormat `json:"response_format,omitempty"`
}

// Invoke выполняет запрос и возвращает ответ в запрошенном формате:
// string, разобранный JSON или Response. Ошибки возвращаются строкой.
func (t *Tool) Invoke(ctx context.Context, in Input) any {
	format := in.ResponseFormat
	if format == "" {
		format = NaturalLanguage
	}

	content, err := t.process(ctx, in.Query)
	if err != nil {
		return t.failureMessage(err)
	}
	return FormatResponse(content, format)
}

// Run выполняет запрос и возвращает текст ответа.
func (t *Tool) Run(ctx context.Context, query string) string {
	out := t.Invoke(ctx, Input{Query: query, ResponseFormat: NaturalLanguage})
	s, _ := out.(string)
	return s
}

// Call реализует langchaingo tools.Tool.
//
// input - либо текст вопроса, либо JSON {"query": ..., "response_format": ...}.
// Ошибка всегда nil: сбои запроса возвращаются текстом.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	in := parseCallInput(input)
	if _, err := ParseResponseFormat(string(in.ResponseFormat)); err != nil {
		return "Error processing query: " + err.Error(), nil
	}

	out := t.Invoke(ctx, in)
	if s, ok := out.(string); ok {
		return s, nil
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf("Error processing query: %v", err), nil
	}
	return string(raw), nil
}

func parseCallInput(input string) Input {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "{") {
		var in Input
		if err := json.Unmarshal([]byte(trimmed), &in); err == nil && in.Query != "" {
			in.ResponseFormat = ResponseFormat(strings.ToLower(string(in.ResponseFormat)))
			return in
		}
	}
	return Input{Query: trimmed}
}

// process отбирает инструменты, запускает цикл и возвращает финальный текст.
func (t *Tool) process(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", errors.New("query is required")
	}

	toolset, err := t.selector.GetTools(ctx, query, t.cfg.MaxToolsetSize)
	if err != nil {
		return "", fmt.Errorf("failed to select tools: %w", err)
	}
	if len(toolset) == 0 {
		return "", errors.New("no relevant tools found for query")
	}
	if len(toolset) > t.cfg.MaxToolsetSize {
		// селектор вернул больше k: оставляем top-K
		utils.Warn("Selector returned too many tools", "got", len(toolset), "max", t.cfg.MaxToolsetSize)
		toolset = toolset[:t.cfg.MaxToolsetSize]
	}
	utils.Debug("Tools selected", "query", utils.Truncate(query, 100), "count", len(toolset))

	workflow, err := t.workflowFactory(t.model, chain.WorkflowConfig{
		MaxToolsetSize: t.cfg.MaxToolsetSize,
		MaxIterations:  t.cfg.MaxIterations,
		SystemPrompt:   t.systemPrompt,
		Temperature:    t.cfg.Temperature,
		Emitter:        t.emitter,
	})
	if err != nil {
		return "", err
	}

	state, err := workflow.Run(ctx, toolset, query)
	if err != nil {
		return "", err
	}

	answer, ok := state.LastAssistant()
	if !ok {
		return "", errors.New("workflow finished without an answer")
	}
	return answer.Content, nil
}

// failureMessage переводит ошибку запроса в текст ответа.
func (t *Tool) failureMessage(err error) string {
	var limitErr *chain.IterationLimitExceededError
	if errors.As(err, &limitErr) {
		utils.Warn("Iteration limit exceeded", "limit", t.cfg.MaxIterations)
		return fmt.Sprintf(
			"Query processing exceeded maximum of %d iterations. "+
				"Please try a more specific query or break it into smaller parts.",
			t.cfg.MaxIterations)
	}
	utils.Error("Query processing failed", "error", err.Error())
	return fmt.Sprintf("Error processing query: %v", err)
}

// GetThreadID возвращает идентификатор разговора, создавая его при первом
// вызове. refresh=true выдаёт новый идентификатор, отличный от прежнего.
func (t *Tool) GetThreadID(refresh bool) ThreadID {
	t.threadMu.Lock()
	defer t.threadMu.Unlock()

	if t.threadID != "" && !refresh {
		return t.threadID
	}
	prev := t.threadID
	next := ThreadID(uuid.NewString())
	for next == prev {
		next = ThreadID(uuid.NewString())
	}
	t.threadID = next
	return next
}

var _ lctools.Tool = (*Tool)(nil)
