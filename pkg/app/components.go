// Package app собирает компоненты для точек входа cmd/: конфигурацию,
// логгер, модель и инструмент "FMP Data".
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MehdiZare/langchain-fmp-data/pkg/agent"
	"github.com/MehdiZare/langchain-fmp-data/pkg/config"
	"github.com/MehdiZare/langchain-fmp-data/pkg/llm"
	"github.com/MehdiZare/langchain-fmp-data/pkg/models"
	"github.com/MehdiZare/langchain-fmp-data/pkg/prompt"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

// Components - всё, что нужно точке входа.
type Components struct {
	Config     *config.AppConfig
	ConfigPath string
	Models     *models.Registry
	Model      llm.Provider
	Tool       *agent.Tool
}

// ConfigPathFinder определяет стратегию поиска config.yaml.
type ConfigPathFinder interface {
	FindConfigPath() string
}

// DefaultConfigPathFinder ищет config.yaml.
//
// Порядок поиска:
//  1. Флаг -config (если указан)
//  2. Текущая директория
//  3. Директория бинарника
//  4. Родительские директории (для запуска из cmd/<name>/)
//
// Пустая строка - файл не найден, работаем на ENV и дефолтах.
type DefaultConfigPathFinder struct {
	ConfigFlag string
}

// FindConfigPath реализует ConfigPathFinder.
func (f *DefaultConfigPathFinder) FindConfigPath() string {
	if f.ConfigFlag != "" {
		return resolveAbsPath(f.ConfigFlag)
	}

	candidates := []string{"config.yaml"}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), "config.yaml"))
	}
	candidates = append(candidates,
		filepath.Join("..", "config.yaml"),
		filepath.Join("..", "..", "config.yaml"),
	)

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return resolveAbsPath(p)
		}
	}
	return ""
}

// InitializeConfig подгружает .env и config.yaml.
//
// Если файл не найден и не задан явно, возвращается config.Default().
func InitializeConfig(finder ConfigPathFinder) (*config.AppConfig, string, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, "", err
	}

	cfgPath := finder.FindConfigPath()
	if cfgPath == "" {
		return config.Default(), "", nil
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config from %s: %w", cfgPath, err)
	}
	return cfg, cfgPath, nil
}

// InitLogger открывает лог-файл из конфигурации.
func InitLogger(cfg *config.AppConfig) error {
	utils.SetDebug(cfg.App.Debug)
	return utils.InitLogger(cfg.App.LogFile)
}

// Initialize строит модель и инструмент по конфигурации.
//
// opts дополняют и переопределяют собранные здесь опции агента.
func Initialize(ctx context.Context, cfg *config.AppConfig, cfgPath string, opts ...agent.Option) (*Components, error) {
	registry, err := models.NewRegistryFromConfig(cfg, nil)
	if err != nil {
		return nil, err
	}
	model, def, _, err := registry.GetWithFallback(cfg.Models.DefaultChat, config.DefaultModel)
	if err != nil {
		return nil, err
	}

	if err := ApplyPromptFile(cfg, cfgPath); err != nil {
		return nil, err
	}

	all := append([]agent.Option{agent.WithModel(model)}, opts...)
	tool, err := agent.New(ctx, agent.ConfigFromApp(cfg), all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create fmp data tool: %w", err)
	}

	utils.Info("Components initialized", "config", cfgPath, "model", def.ModelName, "provider", def.Provider)
	return &Components{
		Config:     cfg,
		ConfigPath: cfgPath,
		Models:     registry,
		Model:      model,
		Tool:       tool,
	}, nil
}

// ApplyPromptFile подставляет в cfg.Agent системный промпт и температуру
// из agent.system_prompt_file. Относительный путь считается от каталога cfgPath.
func ApplyPromptFile(cfg *config.AppConfig, cfgPath string) error {
	path := cfg.Agent.SystemPromptFile
	if path == "" {
		return nil
	}
	if !filepath.IsAbs(path) && cfgPath != "" {
		path = filepath.Join(filepath.Dir(cfgPath), path)
	}

	pf, err := prompt.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load system prompt: %w", err)
	}
	text, err := pf.SystemPrompt(prompt.NewSystemData(cfg.Agent.MaxIterations, cfg.Agent.MaxToolsetSize))
	if err != nil {
		return fmt.Errorf("failed to render system prompt %s: %w", path, err)
	}

	cfg.Agent.SystemPrompt = text
	if pf.Config.Temperature != nil {
		cfg.Agent.Temperature = *pf.Config.Temperature
	}
	utils.Debug("System prompt loaded", "path", path)
	return nil
}

// ExecutionResult - результат одного запроса из CLI.
type ExecutionResult struct {
	Output   any
	ThreadID agent.ThreadID
	Duration time.Duration
}

// Execute выполняет запрос с таймаутом.
func Execute(ctx context.Context, c *Components, in agent.Input, timeout time.Duration) ExecutionResult {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	out := c.Tool.Invoke(ctx, in)
	return ExecutionResult{
		Output:   out,
		ThreadID: c.Tool.GetThreadID(false),
		Duration: time.Since(start),
	}
}

func resolveAbsPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
