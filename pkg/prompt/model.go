// Структуры данных - формат YAML файла промпта.
package prompt

// PromptFile описывает YAML файл с промптом.
type PromptFile struct {
	Config   PromptConfig `yaml:"config"`
	Messages []Message    `yaml:"messages"`
}

// PromptConfig - переопределения параметров агента для промпта.
type PromptConfig struct {
	Temperature *float64 `yaml:"temperature"` // nil - не задано
}

// Message - одно сообщение промпта.
type Message struct {
	Role    string `yaml:"role"`    // system, user, assistant
	Content string `yaml:"content"` // Шаблон с {{.Variables}}
}
