package chain

import "fmt"

// InvalidConfigurationError - некорректные параметры цикла или набора инструментов.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return e.Reason
}

// NoMessagesError - узел выполнения получил пустое состояние.
type NoMessagesError struct{}

// ErrNoMessages - экземпляр NoMessagesError для errors.Is.
var ErrNoMessages error = &NoMessagesError{}

func (e *NoMessagesError) Error() string {
	return "no messages in state"
}

func (e *NoMessagesError) Is(target error) bool {
	_, ok := target.(*NoMessagesError)
	return ok
}

// NoToolCallsError - последнее сообщение не содержит вызовов инструментов.
type NoToolCallsError struct {
	// Role последнего сообщения.
	Role string
}

func (e *NoToolCallsError) Error() string {
	if e.Role != "" && e.Role != "assistant" {
		return fmt.Sprintf("last message is not an assistant message (role: %s)", e.Role)
	}
	return "last message has no tool calls"
}

// ToolExecutionError - инструмент вернул ошибку. Батч прерывается.
type ToolExecutionError struct {
	Tool   string
	CallID string
	Err    error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("failed to execute %s: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// IterationLimitExceededError - модель продолжает запрашивать инструменты
// после Limit выполненных кругов.
type IterationLimitExceededError struct {
	Limit int
}

func (e *IterationLimitExceededError) Error() string {
	return fmt.Sprintf("maximum iterations (%d) exceeded", e.Limit)
}
