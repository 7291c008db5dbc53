// Интерфейс Провайдера через который работает всё приложение.

package llm

import (
	"context"

	"github.com/MehdiZare/langchain-fmp-data/pkg/tools"
)

// Provider - абстракция над LLM API.
//
// Адаптеры (go-openai, langchaingo) реализуют этот интерфейс.
type Provider interface {
	// Generate принимает историю сообщений и возвращает ответ ассистента.
	// Если через WithTools переданы определения инструментов, модель
	// может вернуть ToolCalls.
	Generate(ctx context.Context, messages []Message, opts ...GenerateOption) (Message, error)
}

// BoundProvider - Provider с привязанным набором инструментов.
//
// Привязка не меняет исходный провайдер: каждый запрос получает свой
// BoundProvider с отфильтрованным набором.
type BoundProvider struct {
	base Provider
	defs []tools.ToolDefinition
	opts []GenerateOption
}

// BindTools привязывает определения инструментов и дефолтные опции к провайдеру.
func BindTools(p Provider, defs []tools.ToolDefinition, opts ...GenerateOption) *BoundProvider {
	return &BoundProvider{
		base: p,
		defs: append([]tools.ToolDefinition(nil), defs...),
		opts: opts,
	}
}

// Tools возвращает привязанные определения.
func (b *BoundProvider) Tools() []tools.ToolDefinition {
	return b.defs
}

// Generate вызывает базовый провайдер с привязанными инструментами.
// Опции вызова применяются после привязанных и могут их переопределить.
func (b *BoundProvider) Generate(ctx context.Context, messages []Message, opts ...GenerateOption) (Message, error) {
	all := make([]GenerateOption, 0, len(b.opts)+len(opts)+1)
	all = append(all, b.opts...)
	if len(b.defs) > 0 {
		all = append(all, WithTools(b.defs))
	}
	all = append(all, opts...)
	return b.base.Generate(ctx, messages, all...)
}

var _ Provider = (*BoundProvider)(nil)
