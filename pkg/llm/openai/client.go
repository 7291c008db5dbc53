// Package openai реализует адаптер LLM провайдера для OpenAI-совместимых API.
//
// Поддерживает Function Calling (tools) для цикла рассуждений агента.
// Работает только через интерфейс llm.Provider.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MehdiZare/langchain-fmp-data/pkg/config"
	"github.com/MehdiZare/langchain-fmp-data/pkg/llm"
	"github.com/MehdiZare/langchain-fmp-data/pkg/tools"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
	openai "github.com/sashabaranov/go-openai"
)

// Client реализует интерфейс llm.Provider для OpenAI-совместимых API.
type Client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float64
}

// NewClient создает OpenAI клиент на основе конфигурации модели.
//
// Поддерживает custom BaseURL для OpenAI-совместимых провайдеров.
func NewClient(modelDef config.ModelDef) *Client {
	cfg := openai.DefaultConfig(modelDef.APIKey)
	if modelDef.BaseURL != "" {
		cfg.BaseURL = modelDef.BaseURL
	}

	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       modelDef.ModelName,
		maxTokens:   modelDef.MaxTokens,
		temperature: modelDef.Temperature,
	}
}

// Generate выполняет запрос к API и возвращает ответ модели.
//
// Алгоритм:
//  1. Конвертирует внутренние сообщения в формат OpenAI SDK
//  2. Если через llm.WithTools переданы инструменты - добавляет их в запрос
//  3. Вызывает API
//  4. Конвертирует ответ обратно, разбирая аргументы ToolCalls из JSON
func (c *Client) Generate(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (llm.Message, error) {
	startTime := time.Now()
	o := llm.ApplyOptions(opts...)

	model := c.model
	if o.Model != "" {
		model = o.Model
	}

	utils.Debug("LLM request started",
		"model", model,
		"messages_count", len(messages),
		"tools_count", len(o.Tools))

	openaiMsgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		msg, err := mapToOpenAI(m)
		if err != nil {
			return llm.Message{}, err
		}
		openaiMsgs[i] = msg
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    openaiMsgs,
		MaxTokens:   c.maxTokens,
		Temperature: float32(c.temperature),
	}
	if o.MaxTokens > 0 {
		req.MaxTokens = o.MaxTokens
	}
	if o.Temperature != nil {
		req.Temperature = float32(*o.Temperature)
	}

	if len(o.Tools) > 0 {
		req.Tools = convertToolsToOpenAI(o.Tools)
		// LLM сама решает когда вызывать tools
		req.ToolChoice = "auto"
		if o.ToolChoice != "" {
			req.ToolChoice = o.ToolChoice
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		utils.Error("LLM API request failed",
			"error", err,
			"model", model,
			"duration_ms", time.Since(startTime).Milliseconds())
		return llm.Message{}, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return llm.Message{}, fmt.Errorf("no choices in response")
	}

	result, err := mapFromOpenAI(resp.Choices[0].Message)
	if err != nil {
		return llm.Message{}, err
	}

	utils.Info("LLM response received",
		"model", model,
		"tool_calls_count", len(result.ToolCalls),
		"content_length", len(result.Content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return result, nil
}

// mapToOpenAI конвертирует наше внутреннее сообщение в формат SDK.
func mapToOpenAI(m llm.Message) (openai.ChatCompletionMessage, error) {
	msg := openai.ChatCompletionMessage{
		Role:    string(m.Role),
		Content: m.Content,
	}

	switch m.Role {
	case llm.RoleTool:
		msg.ToolCallID = m.ToolCallID
		msg.Name = m.Name
	case llm.RoleAssistant:
		for _, tc := range m.ToolCalls {
			args, err := json.Marshal(argsOrEmpty(tc.Args))
			if err != nil {
				return msg, fmt.Errorf("failed to encode arguments of %s: %w", tc.Name, err)
			}
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: string(args),
				},
			})
		}
	}

	return msg, nil
}

// mapFromOpenAI конвертирует ответ SDK в llm.Message.
// Сообщение ассистента всегда несёт непустой слайс ToolCalls (возможно нулевой длины).
func mapFromOpenAI(choice openai.ChatCompletionMessage) (llm.Message, error) {
	calls := make([]llm.ToolCall, 0, len(choice.ToolCalls))
	for _, tc := range choice.ToolCalls {
		args, err := parseArguments(tc.Function.Arguments)
		if err != nil {
			return llm.Message{}, fmt.Errorf("invalid arguments for tool call %s (%s): %w", tc.ID, tc.Function.Name, err)
		}
		calls = append(calls, llm.ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: args,
		})
	}
	return llm.AIMessage(choice.Content, calls...), nil
}

// parseArguments разбирает JSON аргументов; некоторые модели оборачивают его в markdown.
func parseArguments(raw string) (map[string]any, error) {
	cleaned := utils.CleanJsonBlock(raw)
	args := map[string]any{}
	if cleaned == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(cleaned), &args); err != nil {
		return nil, err
	}
	return args, nil
}

func argsOrEmpty(args map[string]any) map[string]any {
	if args == nil {
		return map[string]any{}
	}
	return args
}

// convertToolsToOpenAI конвертирует определения инструментов во внутреннем формате
// в формат OpenAI Function Calling.
//
// ToolDefinition.Parameters уже является JSON Schema объектом и
// напрямую передаётся в SDK.
func convertToolsToOpenAI(defs []tools.ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, len(defs))

	for i, def := range defs {
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		}
	}

	return result
}

var _ llm.Provider = (*Client)(nil)
