// Package models - реестр чат-моделей из config.yaml.
//
// Определения регистрируются при старте, а провайдеры создаются
// при первом обращении: модель с пустым ключом не мешает остальным.
package models

import (
	"fmt"
	"sort"
	"sync"

	"github.com/MehdiZare/langchain-fmp-data/pkg/config"
	"github.com/MehdiZare/langchain-fmp-data/pkg/llm"
)

// ProviderFactory создаёт провайдера по определению.
type ProviderFactory func(def config.ModelDef) (llm.Provider, error)

// Registry - потокобезопасное хранилище моделей.
type Registry struct {
	mu      sync.Mutex
	models  map[string]*entry
	factory ProviderFactory
}

type entry struct {
	def      config.ModelDef
	provider llm.Provider
}

// NewRegistry создаёт пустой реестр. nil factory - NewProvider.
func NewRegistry(factory ProviderFactory) *Registry {
	if factory == nil {
		factory = NewProvider
	}
	return &Registry{
		models:  make(map[string]*entry),
		factory: factory,
	}
}

// Register добавляет определение модели.
func (r *Registry) Register(name string, def config.ModelDef) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[name]; exists {
		return fmt.Errorf("model '%s' already registered", name)
	}
	r.models[name] = &entry{def: def}
	return nil
}

// RegisterProvider добавляет готового провайдера.
func (r *Registry) RegisterProvider(name string, def config.ModelDef, p llm.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[name]; exists {
		return fmt.Errorf("model '%s' already registered", name)
	}
	r.models[name] = &entry{def: def, provider: p}
	return nil
}

// Get возвращает провайдера по имени, создавая его при первом вызове.
func (r *Registry) Get(name string) (llm.Provider, config.ModelDef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.models[name]
	if !ok {
		return nil, config.ModelDef{}, fmt.Errorf("model '%s' not found in registry", name)
	}
	if e.provider == nil {
		p, err := r.factory(e.def)
		if err != nil {
			return nil, e.def, fmt.Errorf("failed to create provider for model '%s': %w", name, err)
		}
		e.provider = p
	}
	return e.provider, e.def, nil
}

// GetWithFallback возвращает requested, а если её нет - defaultModel.
//
// Возвращает (provider, modelDef, actualModelName, error).
func (r *Registry) GetWithFallback(requested, defaultModel string) (llm.Provider, config.ModelDef, string, error) {
	r.mu.Lock()
	_, hasRequested := r.models[requested]
	r.mu.Unlock()

	name := defaultModel
	if hasRequested {
		name = requested
	}
	p, def, err := r.Get(name)
	if err != nil {
		if !hasRequested {
			return nil, config.ModelDef{}, "", fmt.Errorf("neither requested model '%s' nor default '%s' found in registry", requested, defaultModel)
		}
		return nil, def, "", err
	}
	return p, def, name, nil
}

// ListNames возвращает имена моделей по алфавиту.
func (r *Registry) ListNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRegistryFromConfig регистрирует все models.definitions.
//
// Если default_chat не описан, он добавляется как OpenAI модель
// с ключом из OPENAI_API_KEY (см. config.GetChatModel).
func NewRegistryFromConfig(cfg *config.AppConfig, factory ProviderFactory) (*Registry, error) {
	registry := NewRegistry(factory)

	for name, def := range cfg.Models.Definitions {
		if err := registry.Register(name, def); err != nil {
			return nil, err
		}
	}
	if _, ok := cfg.Models.Definitions[cfg.Models.DefaultChat]; !ok {
		if err := registry.Register(cfg.Models.DefaultChat, cfg.GetChatModel(cfg.Models.DefaultChat)); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
