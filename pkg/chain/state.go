// Package chain реализует цикл вызова инструментов: модель рассуждает,
// запрашивает инструменты, получает результаты и снова рассуждает,
// пока не даст финальный ответ или не упрётся в лимит итераций.
//
// Граф из двух узлов:
//
//	reasoning --ShouldContinue--> execute --> reasoning
//	          \--> END
package chain

import "github.com/MehdiZare/langchain-fmp-data/pkg/llm"

// State - история диалога одного запуска цикла.
//
// State неизменяем: Append возвращает новое состояние и не трогает
// слайс исходного.
type State struct {
	Messages []llm.Message
}

// NewState создает состояние из начальных сообщений.
func NewState(msgs ...llm.Message) State {
	return State{Messages: append([]llm.Message(nil), msgs...)}
}

// Append возвращает новое состояние с добавленными сообщениями.
func (s State) Append(msgs ...llm.Message) State {
	out := make([]llm.Message, 0, len(s.Messages)+len(msgs))
	out = append(out, s.Messages...)
	out = append(out, msgs...)
	return State{Messages: out}
}

// Len возвращает количество сообщений.
func (s State) Len() int {
	return len(s.Messages)
}

// Last возвращает последнее сообщение.
func (s State) Last() (llm.Message, bool) {
	if len(s.Messages) == 0 {
		return llm.Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// LastAssistant возвращает последнее сообщение ассистента.
func (s State) LastAssistant() (llm.Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == llm.RoleAssistant {
			return s.Messages[i], true
		}
	}
	return llm.Message{}, false
}

// hasSystem - есть ли в истории системное сообщение.
func (s State) hasSystem() bool {
	for _, m := range s.Messages {
		if m.Role == llm.RoleSystem {
			return true
		}
	}
	return false
}
