package debug

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/MehdiZare/langchain-fmp-data/pkg/events"
)

const truncatedSuffix = "... (truncated)"

// Recorder собирает трейс выполнения из событий цикла.
//
// Реализует events.Emitter и потокобезопасен.
type Recorder struct {
	mu sync.Mutex

	config RecorderConfig
	log    DebugLog

	// current - незавершённая итерация
	current   *Iteration
	iterStart time.Time

	visitedTools map[string]struct{}
	errors       []string
}

// RecorderConfig конфигурация для создания Recorder.
type RecorderConfig struct {
	// LogsDir - директория для сохранения трейсов
	LogsDir string

	// IncludeToolArgs - включать аргументы инструментов
	IncludeToolArgs bool

	// IncludeToolResults - включать результаты инструментов
	IncludeToolResults bool

	// MaxResultSize - максимальный размер результата, 0 - без ограничений
	MaxResultSize int
}

var _ events.Emitter = (*Recorder)(nil)

// NewRecorder создаёт Recorder. Если LogsDir не существует, создаёт её.
func NewRecorder(cfg RecorderConfig) (*Recorder, error) {
	if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
	}

	now := time.Now()
	runID := fmt.Sprintf("trace_%s_%s", now.Format("20060102_150405"), uuid.NewString()[:8])

	return &Recorder{
		config: cfg,
		log: DebugLog{
			RunID:     runID,
			Timestamp: now,
		},
		visitedTools: make(map[string]struct{}),
	}, nil
}

// Emit реализует events.Emitter.
func (r *Recorder) Emit(_ context.Context, ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch d := ev.Data.(type) {
	case events.ThinkingData:
		r.endIterationLocked(ev.Timestamp)
		if r.log.UserQuery == "" {
			r.log.UserQuery = d.Query
		}
		r.current = &Iteration{Number: d.Iteration}
		r.iterStart = ev.Timestamp

	case events.ToolCallData:
		if r.current == nil {
			return
		}
		info := ToolCallInfo{ID: d.CallID, Name: d.ToolName}
		if r.config.IncludeToolArgs {
			info.Args = encodeArgs(d.Args)
		}
		r.current.ToolCalls = append(r.current.ToolCalls, info)

	case events.ToolResultData:
		r.recordToolLocked(d)

	case events.MessageData:
		if ev.Type == events.EventDone {
			r.log.FinalResult = d.Content
			if r.current != nil {
				r.current.Content = d.Content
				r.current.IsFinal = true
			}
			r.endIterationLocked(ev.Timestamp)
			return
		}
		if r.current != nil {
			r.current.Content = d.Content
		}

	case events.ErrorData:
		if d.Err != nil {
			r.log.Error = d.Err.Error()
			r.errors = append(r.errors, d.Err.Error())
		}
		r.endIterationLocked(ev.Timestamp)
	}
}

func (r *Recorder) recordToolLocked(d events.ToolResultData) {
	if r.current == nil {
		return
	}

	exec := ToolExecution{
		Name:     d.ToolName,
		CallID:   d.CallID,
		Duration: d.Duration.Milliseconds(),
		Success:  d.Err == nil,
	}
	if d.Err != nil {
		exec.Error = d.Err.Error()
		r.errors = append(r.errors, fmt.Sprintf("Tool %s: %s", d.ToolName, exec.Error))
	}
	if r.config.IncludeToolResults {
		exec.Result, exec.ResultTruncated = truncate(d.Result, r.config.MaxResultSize)
	}

	r.current.ToolsExecuted = append(r.current.ToolsExecuted, exec)
	r.visitedTools[d.ToolName] = struct{}{}
}

func (r *Recorder) endIterationLocked(at time.Time) {
	if r.current == nil {
		return
	}
	if !r.iterStart.IsZero() && at.After(r.iterStart) {
		r.current.Duration = at.Sub(r.iterStart).Milliseconds()
	}
	r.log.Iterations = append(r.log.Iterations, *r.current)
	r.current = nil
}

// Log возвращает снимок трейса с пересчитанной статистикой.
func (r *Recorder) Log() DebugLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Recorder) snapshotLocked() DebugLog {
	out := r.log
	out.Iterations = append([]Iteration(nil), r.log.Iterations...)
	if r.current != nil {
		out.Iterations = append(out.Iterations, *r.current)
	}
	out.Summary = r.buildSummary(out.Iterations)
	return out
}

func (r *Recorder) buildSummary(iterations []Iteration) Summary {
	summary := Summary{
		TotalLLMCalls: len(iterations),
		Errors:        append([]string(nil), r.errors...),
		VisitedTools:  lo.Keys(r.visitedTools),
	}
	sort.Strings(summary.VisitedTools)

	for _, iter := range iterations {
		for _, tool := range iter.ToolsExecuted {
			summary.TotalToolsExecuted++
			summary.TotalToolDuration += tool.Duration
		}
	}
	return summary
}

// Finalize сохраняет трейс в файл и возвращает путь к нему.
func (r *Recorder) Finalize(duration time.Duration) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.endIterationLocked(time.Now())
	r.log.Duration = duration.Milliseconds()
	out := r.snapshotLocked()

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal debug log: %w", err)
	}

	path := r.filePath()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write debug log: %w", err)
	}
	return path, nil
}

// RunID возвращает идентификатор запуска.
func (r *Recorder) RunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.RunID
}

func (r *Recorder) filePath() string {
	if r.config.LogsDir != "" {
		return filepath.Join(r.config.LogsDir, r.log.RunID+".json")
	}
	return r.log.RunID + ".json"
}

func encodeArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(raw)
}

func truncate(s string, maxSize int) (string, bool) {
	if maxSize <= 0 || len(s) <= maxSize {
		return s, false
	}
	return s[:maxSize] + truncatedSuffix, true
}
