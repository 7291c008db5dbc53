package models

import (
	"fmt"

	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/MehdiZare/langchain-fmp-data/pkg/config"
	"github.com/MehdiZare/langchain-fmp-data/pkg/llm"
	"github.com/MehdiZare/langchain-fmp-data/pkg/llm/langchain"
	"github.com/MehdiZare/langchain-fmp-data/pkg/llm/openai"
)

// NewProvider создает провайдера по определению модели.
//
// provider:
//   - "openai" (по умолчанию), "openrouter", "deepseek" - go-openai,
//     для OpenAI-совместимых API задаётся base_url;
//   - "langchain" - OpenAI через langchaingo.
func NewProvider(def config.ModelDef) (llm.Provider, error) {
	switch def.Provider {
	case "", "openai", "openrouter", "deepseek":
		return openai.NewClient(def), nil
	case "langchain":
		opts := []lcopenai.Option{
			lcopenai.WithToken(def.APIKey),
			lcopenai.WithModel(def.ModelName),
		}
		if def.BaseURL != "" {
			opts = append(opts, lcopenai.WithBaseURL(def.BaseURL))
		}
		base, err := lcopenai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create langchain model: %w", err)
		}
		return langchain.New(base, def.ModelName)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", def.Provider)
	}
}
