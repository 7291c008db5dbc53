// Package langchain адаптирует любую langchaingo llms.Model к llm.Provider.
//
// Позволяет подключить к циклу агента модели, доступные только через
// langchaingo (Anthropic, Ollama, Bedrock и т.д.).
package langchain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/MehdiZare/langchain-fmp-data/pkg/llm"
	"github.com/MehdiZare/langchain-fmp-data/pkg/tools"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

// Model - llm.Provider поверх llms.Model.
type Model struct {
	model llms.Model
	name  string
}

// New оборачивает langchaingo модель. name используется только в логах.
func New(model llms.Model, name string) (*Model, error) {
	if model == nil {
		return nil, fmt.Errorf("langchain model is nil")
	}
	return &Model{model: model, name: name}, nil
}

// Generate вызывает GenerateContent и конвертирует первый выбор в llm.Message.
func (m *Model) Generate(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (llm.Message, error) {
	startTime := time.Now()
	o := llm.ApplyOptions(opts...)

	content, err := toMessageContent(messages)
	if err != nil {
		return llm.Message{}, err
	}

	var callOpts []llms.CallOption
	if o.Model != "" {
		callOpts = append(callOpts, llms.WithModel(o.Model))
	}
	if o.Temperature != nil {
		callOpts = append(callOpts, llms.WithTemperature(*o.Temperature))
	}
	if o.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(o.MaxTokens))
	}
	if len(o.Tools) > 0 {
		callOpts = append(callOpts, llms.WithTools(convertTools(o.Tools)))
		choice := o.ToolChoice
		if choice == "" {
			choice = "auto"
		}
		callOpts = append(callOpts, llms.WithToolChoice(choice))
	}

	resp, err := m.model.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		utils.Error("langchain model request failed",
			"model", m.name,
			"error", err,
			"duration_ms", time.Since(startTime).Milliseconds())
		return llm.Message{}, fmt.Errorf("langchain model error: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return llm.Message{}, fmt.Errorf("no choices in response")
	}

	choice := resp.Choices[0]
	calls := make([]llm.ToolCall, 0, len(choice.ToolCalls))
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		args := map[string]any{}
		if raw := utils.CleanJsonBlock(tc.FunctionCall.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return llm.Message{}, fmt.Errorf("invalid arguments for tool call %s (%s): %w", tc.ID, tc.FunctionCall.Name, err)
			}
		}
		calls = append(calls, llm.ToolCall{ID: tc.ID, Name: tc.FunctionCall.Name, Args: args})
	}

	utils.Info("langchain model response received",
		"model", m.name,
		"tool_calls_count", len(calls),
		"duration_ms", time.Since(startTime).Milliseconds())

	return llm.AIMessage(choice.Content, calls...), nil
}

func toMessageContent(messages []llm.Message) ([]llms.MessageContent, error) {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, msg.Content))
		case llm.RoleUser:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		case llm.RoleAssistant:
			mc := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			if msg.Content != "" {
				mc.Parts = append(mc.Parts, llms.TextContent{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				args := tc.Args
				if args == nil {
					args = map[string]any{}
				}
				raw, err := json.Marshal(args)
				if err != nil {
					return nil, fmt.Errorf("failed to encode arguments of %s: %w", tc.Name, err)
				}
				mc.Parts = append(mc.Parts, llms.ToolCall{
					ID:   tc.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Name,
						Arguments: string(raw),
					},
				})
			}
			out = append(out, mc)
		case llm.RoleTool:
			out = append(out, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: msg.ToolCallID,
					Name:       msg.Name,
					Content:    msg.Content,
				}},
			})
		default:
			return nil, fmt.Errorf("unsupported message role: %s", msg.Role)
		}
	}
	return out, nil
}

func convertTools(defs []tools.ToolDefinition) []llms.Tool {
	result := make([]llms.Tool, len(defs))
	for i, def := range defs {
		result[i] = llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  map[string]any(def.Parameters),
			},
		}
	}
	return result
}

var _ llm.Provider = (*Model)(nil)
