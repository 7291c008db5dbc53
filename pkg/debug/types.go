// Package debug записывает трейс выполнения запроса в JSON файл.
//
// Recorder подключается к циклу как events.Emitter и собирает по событиям
// итерации, вызовы инструментов и итоговую статистику:
//
//	rec, _ := debug.NewRecorder(debug.RecorderConfig{LogsDir: "traces"})
//	tool, _ := agent.New(ctx, cfg, agent.WithEmitter(rec))
//	answer := tool.Run(ctx, query)
//	path, _ := rec.Finalize(time.Since(start))
package debug

import "time"

// DebugLog - полный трейс одного запроса.
type DebugLog struct {
	// RunID - идентификатор запуска, он же имя файла
	RunID string `json:"run_id"`

	// Timestamp - время начала выполнения
	Timestamp time.Time `json:"timestamp"`

	// UserQuery - исходный запрос пользователя
	UserQuery string `json:"user_query"`

	// Duration - общая длительность в миллисекундах
	Duration int64 `json:"duration_ms"`

	Iterations []Iteration `json:"iterations"`
	Summary    Summary     `json:"summary"`

	// FinalResult - финальный ответ модели
	FinalResult string `json:"final_result,omitempty"`

	// Error - ошибка, если цикл завершился неудачно
	Error string `json:"error,omitempty"`
}

// Iteration - один шаг рассуждения: ответ модели и вызванные инструменты.
type Iteration struct {
	// Number - номер шага (начиная с 1)
	Number int `json:"iteration"`

	// Duration - от начала шага до начала следующего, в миллисекундах
	Duration int64 `json:"duration_ms"`

	// Content - текст модели на этом шаге
	Content string `json:"content,omitempty"`

	ToolCalls     []ToolCallInfo  `json:"tool_calls,omitempty"`
	ToolsExecuted []ToolExecution `json:"tools_executed,omitempty"`

	// IsFinal - шаг без вызовов инструментов
	IsFinal bool `json:"is_final,omitempty"`
}

// ToolCallInfo описывает вызов инструмента, запрошенный моделью.
type ToolCallInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Args - аргументы в JSON формате
	Args string `json:"args,omitempty"`
}

// ToolExecution описывает выполнение одного инструмента.
type ToolExecution struct {
	Name   string `json:"name"`
	CallID string `json:"call_id,omitempty"`

	// Result - результат (может быть обрезан по MaxResultSize)
	Result string `json:"result,omitempty"`

	// ResultTruncated - true, если результат был обрезан
	ResultTruncated bool `json:"result_truncated,omitempty"`

	// Duration - длительность выполнения в миллисекундах
	Duration int64 `json:"duration_ms"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Summary - агрегированная статистика запуска.
type Summary struct {
	// TotalLLMCalls - количество шагов рассуждения
	TotalLLMCalls int `json:"total_llm_calls"`

	TotalToolsExecuted int `json:"total_tools_executed"`

	// TotalToolDuration - суммарное время инструментов в миллисекундах
	TotalToolDuration int64 `json:"total_tool_duration_ms"`

	Errors []string `json:"errors,omitempty"`

	// VisitedTools - уникальные имена вызванных инструментов, по алфавиту
	VisitedTools []string `json:"visited_tools,omitempty"`
}
