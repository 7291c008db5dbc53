// Package prompt загружает промпты из YAML файлов и рендерит их через text/template.
//
// Формат файла:
//
//	config:
//	  temperature: 0.1
//	messages:
//	  - role: system
//	    content: |
//	      You are a financial analyst. Today is {{.Date}}.
package prompt

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

// Load загружает и парсит YAML файл промпта.
func Load(path string) (*PromptFile, error) {
	// 1. Проверяем наличие
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("prompt file not found: %s", path)
	}

	// 2. Читаем байты
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	return Parse(data)
}

// Parse разбирает YAML промпта из памяти.
func Parse(data []byte) (*PromptFile, error) {
	var pf PromptFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}
	return &pf, nil
}

// RenderMessages подставляет data во все {{.Field}} сообщений.
func (pf *PromptFile) RenderMessages(data any) ([]Message, error) {
	rendered := make([]Message, len(pf.Messages))

	for i, msg := range pf.Messages {
		tmpl, err := template.New("msg").Option("missingkey=error").Parse(msg.Content)
		if err != nil {
			return nil, fmt.Errorf("template parse error in message #%d (%s): %w", i, msg.Role, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("template execute error in message #%d: %w", i, err)
		}

		rendered[i] = Message{Role: msg.Role, Content: buf.String()}
	}

	return rendered, nil
}

// SystemPrompt возвращает отрендеренный текст первого system сообщения.
func (pf *PromptFile) SystemPrompt(data any) (string, error) {
	msgs, err := pf.RenderMessages(data)
	if err != nil {
		return "", err
	}
	for _, m := range msgs {
		if m.Role == "system" && strings.TrimSpace(m.Content) != "" {
			return strings.TrimSpace(m.Content), nil
		}
	}
	return "", fmt.Errorf("prompt has no system message")
}

// SystemData - переменные, доступные в системном промпте.
type SystemData struct {
	Date          string // YYYY-MM-DD
	MaxIterations int
	MaxToolset    int
}

// NewSystemData заполняет SystemData на текущую дату.
func NewSystemData(maxIterations, maxToolset int) SystemData {
	return SystemData{
		Date:          time.Now().Format("2006-01-02"),
		MaxIterations: maxIterations,
		MaxToolset:    maxToolset,
	}
}
