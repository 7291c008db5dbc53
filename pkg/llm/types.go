// Базовые типы - универсальный язык общения с моделями.
package llm

// Role - роль автора сообщения.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall - запрос модели на вызов инструмента.
//
// ID уникален в пределах одного ответа модели и связывает вызов
// с сообщением-результатом (Message.ToolCallID).
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Message - одно сообщение в истории диалога.
//
// У сообщения ассистента ToolCalls всегда слайс (возможно пустой):
// "нет вызовов" и "пустой список вызовов" - одно и то же состояние.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // для RoleTool
	Name       string     `json:"name,omitempty"`         // имя инструмента для RoleTool
}

// HumanMessage создает сообщение пользователя.
func HumanMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// SystemMessage создает системное сообщение.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// AIMessage создает ответ ассистента с опциональными вызовами инструментов.
func AIMessage(content string, calls ...ToolCall) Message {
	if calls == nil {
		calls = []ToolCall{}
	}
	return Message{Role: RoleAssistant, Content: content, ToolCalls: calls}
}

// ToolMessage создает сообщение с результатом инструмента.
func ToolMessage(callID, toolName, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID, Name: toolName}
}

// HasToolCalls - true если это ответ ассистента хотя бы с одним вызовом.
func (m Message) HasToolCalls() bool {
	return m.Role == RoleAssistant && len(m.ToolCalls) > 0
}
