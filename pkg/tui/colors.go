package tui

import "github.com/charmbracelet/lipgloss"

// ColorScheme - цвета элементов чата.
type ColorScheme struct {
	StatusBackground lipgloss.Color
	StatusForeground lipgloss.Color
	Spinner          lipgloss.Color

	System     lipgloss.Color
	User       lipgloss.Color
	Answer     lipgloss.Color
	ToolCall   lipgloss.Color
	ToolResult lipgloss.Color
	Error      lipgloss.Color
}

// ColorSchemes - предустановленные схемы.
var ColorSchemes = map[string]ColorScheme{
	"default": {
		StatusBackground: lipgloss.Color("235"),
		StatusForeground: lipgloss.Color("252"),
		Spinner:          lipgloss.Color("86"),
		System:           lipgloss.Color("242"),
		User:             lipgloss.Color("226"),
		Answer:           lipgloss.Color("86"),
		ToolCall:         lipgloss.Color("228"),
		ToolResult:       lipgloss.Color("154"),
		Error:            lipgloss.Color("196"),
	},
	"light": {
		StatusBackground: lipgloss.Color("255"),
		StatusForeground: lipgloss.Color("0"),
		Spinner:          lipgloss.Color("31"),
		System:           lipgloss.Color("8"),
		User:             lipgloss.Color("130"),
		Answer:           lipgloss.Color("31"),
		ToolCall:         lipgloss.Color("94"),
		ToolResult:       lipgloss.Color("28"),
		Error:            lipgloss.Color("1"),
	},
	"dracula": {
		StatusBackground: lipgloss.Color("#282a36"),
		StatusForeground: lipgloss.Color("#f8f8f2"),
		Spinner:          lipgloss.Color("#bd93f9"),
		System:           lipgloss.Color("#6272a4"),
		User:             lipgloss.Color("#f1fa8c"),
		Answer:           lipgloss.Color("#8be9fd"),
		ToolCall:         lipgloss.Color("#ffb86c"),
		ToolResult:       lipgloss.Color("#50fa7b"),
		Error:            lipgloss.Color("#ff5555"),
	},
}

// GetColorScheme возвращает схему по имени, неизвестное имя - "default".
func GetColorScheme(name string) ColorScheme {
	if scheme, ok := ColorSchemes[name]; ok {
		return scheme
	}
	return ColorSchemes["default"]
}

// styles - готовые lipgloss стили для схемы.
type styles struct {
	status     lipgloss.Style
	spinner    lipgloss.Style
	system     lipgloss.Style
	user       lipgloss.Style
	answer     lipgloss.Style
	toolCall   lipgloss.Style
	toolResult lipgloss.Style
	err        lipgloss.Style
}

func newStyles(c ColorScheme) styles {
	return styles{
		status: lipgloss.NewStyle().
			Foreground(c.StatusForeground).
			Background(c.StatusBackground).
			Bold(true),
		spinner:    lipgloss.NewStyle().Foreground(c.Spinner),
		system:     lipgloss.NewStyle().Foreground(c.System),
		user:       lipgloss.NewStyle().Foreground(c.User).Bold(true),
		answer:     lipgloss.NewStyle().Foreground(c.Answer).Bold(true),
		toolCall:   lipgloss.NewStyle().Foreground(c.ToolCall),
		toolResult: lipgloss.NewStyle().Foreground(c.ToolResult),
		err:        lipgloss.NewStyle().Foreground(c.Error).Bold(true),
	}
}
