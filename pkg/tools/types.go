// Интерфейс Tool и структуры определений.

package tools

import "context"

// JSONSchema представляет JSON Schema для параметров инструмента.
//
// Формат соответствует JSON Schema для Function Calling API.
type JSONSchema map[string]any

// ToolDefinition описывает инструмент для LLM (Function Calling API format).
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"` // JSON Schema объекта аргументов
}

// Tool - контракт, который должен реализовать любой инструмент.
type Tool interface {
	// Definition возвращает описание инструмента для LLM.
	Definition() ToolDefinition

	// Execute выполняет логику инструмента.
	// args - именованные аргументы, которые прислала LLM (позиционных нет).
	// Возвращает результат (обычно JSON) или ошибку.
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Func - адаптер, превращающий функцию в Tool.
//
// Удобен для тестов и для простых инструментов без собственного состояния.
type Func struct {
	Def ToolDefinition
	Fn  func(ctx context.Context, args map[string]any) (string, error)
}

// Definition реализует Tool.
func (f Func) Definition() ToolDefinition { return f.Def }

// Execute реализует Tool.
func (f Func) Execute(ctx context.Context, args map[string]any) (string, error) {
	return f.Fn(ctx, args)
}

// NewFunc создает Func с пустой схемой параметров.
func NewFunc(name, description string, fn func(ctx context.Context, args map[string]any) (string, error)) Func {
	return Func{
		Def: ToolDefinition{
			Name:        name,
			Description: description,
			Parameters: JSONSchema{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		Fn: fn,
	}
}
