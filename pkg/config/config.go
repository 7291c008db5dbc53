package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig - корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	FMP         FMPConfig         `yaml:"fmp"`
	Models      ModelsConfig      `yaml:"models"`
	Agent       AgentConfig       `yaml:"agent"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Server      ServerConfig      `yaml:"server"`
	App         AppSpecific       `yaml:"app"`
}

// FMPConfig - настройки HTTP клиента Financial Modeling Prep.
type FMPConfig struct {
	APIKey        string `yaml:"api_key"`        // Поддерживает ${VAR}
	BaseURL       string `yaml:"base_url"`       // Базовый URL FMP API
	RateLimit     int    `yaml:"rate_limit"`     // Запросов в минуту
	BurstLimit    int    `yaml:"burst_limit"`    // Burst для rate limiter
	RetryAttempts int    `yaml:"retry_attempts"` // Количество retry попыток
	Timeout       string `yaml:"timeout"`        // Timeout для HTTP запросов (например, "30s")
}

// DefaultFMPBaseURL - адрес FMP API v3.
const DefaultFMPBaseURL = "https://financialmodelingprep.com/api/v3"

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *FMPConfig) GetDefaults() FMPConfig {
	result := *c

	if result.BaseURL == "" {
		result.BaseURL = DefaultFMPBaseURL
	}
	if result.RateLimit == 0 {
		result.RateLimit = 300 // лимит бесплатного тарифа FMP в минуту
	}
	if result.BurstLimit == 0 {
		result.BurstLimit = 5
	}
	if result.RetryAttempts == 0 {
		result.RetryAttempts = 3
	}
	if result.Timeout == "" {
		result.Timeout = "30s"
	}

	return result
}

// ModelsConfig - настройки AI моделей.
type ModelsConfig struct {
	DefaultChat      string              `yaml:"default_chat"`      // Алиас для чата по умолчанию
	DefaultEmbedding string              `yaml:"default_embedding"` // Имя embedding модели OpenAI
	Definitions      map[string]ModelDef `yaml:"definitions"`       // Словарь определений моделей
}

// ModelDef - параметры конкретной модели.
type ModelDef struct {
	Provider    string        `yaml:"provider"`   // "openai" или "langchain"
	ModelName   string        `yaml:"model_name"` // Реальное имя в API
	APIKey      string        `yaml:"api_key"`    // Поддерживает ${VAR}
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`  // Go умеет парсить строки вида "60s", "1m"
	BaseURL     string        `yaml:"base_url"` // для OpenAI-совместимых провайдеров
}

// AgentConfig - параметры цикла рассуждений.
type AgentConfig struct {
	MaxIterations    int     `yaml:"max_iterations"`
	MaxToolsetSize   int     `yaml:"max_toolset_size"`
	Temperature      float64 `yaml:"temperature"`
	SystemPrompt     string  `yaml:"system_prompt"`
	SystemPromptFile string  `yaml:"system_prompt_file"` // YAML промпт, путь относительно config.yaml
}

const (
	DefaultMaxIterations  = 30
	DefaultMaxToolsetSize = 3
	DefaultModel          = "gpt-4o"
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultStoreName      = "fmp_endpoints"
)

// GetDefaults заполняет незаданные параметры агента.
func (c *AgentConfig) GetDefaults() AgentConfig {
	result := *c
	if result.MaxIterations == 0 {
		result.MaxIterations = DefaultMaxIterations
	}
	if result.MaxToolsetSize == 0 {
		result.MaxToolsetSize = DefaultMaxToolsetSize
	}
	return result
}

// VectorStoreConfig - настройки семантического индекса эндпоинтов.
type VectorStoreConfig struct {
	Backend   string         `yaml:"backend"`    // "memory" или "pinecone"
	StoreName string         `yaml:"store_name"` // имя коллекции/namespace
	CacheDir  string         `yaml:"cache_dir"`  // каталог sqlite кэша эмбеддингов
	BatchSize int            `yaml:"batch_size"` // размер батча для эмбеддингов
	Pinecone  PineconeConfig `yaml:"pinecone"`
}

// PineconeConfig - параметры удалённого индекса.
type PineconeConfig struct {
	APIKey    string `yaml:"api_key"`    // Поддерживает ${VAR}
	IndexName string `yaml:"index_name"` // используется, если index_host не задан
	IndexHost string `yaml:"index_host"`
	Namespace string `yaml:"namespace"`
}

// GetDefaults заполняет незаданные параметры хранилища.
func (c *VectorStoreConfig) GetDefaults() VectorStoreConfig {
	result := *c
	if result.Backend == "" {
		result.Backend = "memory"
	}
	if result.StoreName == "" {
		result.StoreName = DefaultStoreName
	}
	if result.CacheDir == "" {
		result.CacheDir = defaultCacheDir()
	}
	if result.BatchSize == 0 {
		result.BatchSize = 64
	}
	if result.Pinecone.Namespace == "" {
		result.Pinecone.Namespace = result.StoreName
	}
	return result
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".cache"
	}
	return dir + string(os.PathSeparator) + "fmp-data"
}

// ServerConfig - настройки HTTP сервера cmd/fmp-server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AppSpecific - общие настройки приложения.
type AppSpecific struct {
	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"log_file"`
}

// Default возвращает конфигурацию без файла: всё из ENV и дефолтов.
func Default() *AppConfig {
	cfg := &AppConfig{
		FMP: FMPConfig{APIKey: os.Getenv(EnvFMPAPIKey)},
		Models: ModelsConfig{
			DefaultChat:      DefaultModel,
			DefaultEmbedding: DefaultEmbeddingModel,
			Definitions: map[string]ModelDef{
				DefaultModel: {
					Provider:  "openai",
					ModelName: DefaultModel,
					APIKey:    os.Getenv(EnvOpenAIAPIKey),
				},
			},
		},
		VectorStore: VectorStoreConfig{
			Pinecone: PineconeConfig{APIKey: os.Getenv(EnvPineconeAPIKey)},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
	cfg.applyDefaults()
	return cfg
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(rawBytes)
}

// Parse разбирает YAML из памяти с подстановкой ${VAR}.
func Parse(raw []byte) (*AppConfig, error) {
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(raw))

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	c.FMP = c.FMP.GetDefaults()
	c.Agent = c.Agent.GetDefaults()
	c.VectorStore = c.VectorStore.GetDefaults()
	if c.Models.DefaultChat == "" {
		c.Models.DefaultChat = DefaultModel
	}
	if c.Models.DefaultEmbedding == "" {
		c.Models.DefaultEmbedding = DefaultEmbeddingModel
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if c.Agent.MaxIterations < 0 {
		return fmt.Errorf("agent.max_iterations must be greater than 0")
	}
	if c.Agent.MaxToolsetSize < 0 {
		return fmt.Errorf("agent.max_toolset_size must be greater than 0")
	}
	switch c.VectorStore.Backend {
	case "memory", "pinecone":
	default:
		return fmt.Errorf("vector_store.backend must be 'memory' or 'pinecone', got '%s'", c.VectorStore.Backend)
	}
	if len(c.Models.Definitions) > 0 {
		if _, ok := c.Models.Definitions[c.Models.DefaultChat]; !ok {
			return fmt.Errorf("default_chat model '%s' is not defined in definitions", c.Models.DefaultChat)
		}
	}
	return nil
}

// GetChatModel возвращает конфигурацию модели по умолчанию или по имени.
//
// Если определения нет, возвращается ModelDef для OpenAI с ключом из ENV:
// имя трактуется как имя модели в API.
func (c *AppConfig) GetChatModel(name string) ModelDef {
	if name == "" {
		name = c.Models.DefaultChat
	}
	if m, ok := c.Models.Definitions[name]; ok {
		return m
	}
	return ModelDef{
		Provider:  "openai",
		ModelName: name,
		APIKey:    os.Getenv(EnvOpenAIAPIKey),
	}
}
