package chain

import "github.com/MehdiZare/langchain-fmp-data/pkg/llm"

// Decision - куда идёт цикл после узла reasoning.
type Decision int

const (
	// Terminate - финальный ответ, цикл завершается.
	Terminate Decision = iota
	// Continue - выполнить запрошенные инструменты.
	Continue
)

// String возвращает имя следующего узла графа.
func (d Decision) String() string {
	if d == Continue {
		return nodeExecute
	}
	return nodeEnd
}

// ShouldContinue решает, продолжать ли цикл. Чистая функция.
//
// Continue только когда последнее сообщение - ответ ассистента
// хотя бы с одним вызовом инструмента.
func ShouldContinue(s State) Decision {
	last, ok := s.Last()
	if !ok {
		return Terminate
	}
	if last.Role != llm.RoleAssistant || len(last.ToolCalls) == 0 {
		return Terminate
	}
	return Continue
}
