package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MehdiZare/langchain-fmp-data/pkg/events"
)

// EventMsg - событие цикла в виде сообщения Bubble Tea.
type EventMsg events.Event

// answerMsg - финальный ответ инструмента (строка, включая текст ошибки).
type answerMsg string

// WaitForEvent возвращает Cmd, который ждёт следующее событие подписчика.
// Закрытый канал завершает программу.
func WaitForEvent(sub events.Subscriber) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub.Events()
		if !ok {
			return tea.QuitMsg{}
		}
		return EventMsg(event)
	}
}
