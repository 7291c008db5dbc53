package tools

import (
	"fmt"
	"strings"
)

// DuplicateToolError возвращается при попытке зарегистрировать второй
// инструмент с уже занятым именем. Реестр не перезаписывает инструменты.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Name)
}

// UnknownToolError возвращается когда инструмент с таким именем не зарегистрирован.
//
// Suggestions содержит похожие имена из реестра (может быть пустым).
type UnknownToolError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownToolError) Error() string {
	msg := fmt.Sprintf("Unknown tool: %s", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}
