package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Переменные окружения с ключами.
const (
	EnvFMPAPIKey      = "FMP_API_KEY"
	EnvOpenAIAPIKey   = "OPENAI_API_KEY"
	EnvPineconeAPIKey = "PINECONE_API_KEY"
)

// MissingCredentialError - не найден один или несколько обязательных ключей.
type MissingCredentialError struct {
	Names []string
}

func (e *MissingCredentialError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("%s not found in environment or parameters", e.Names[0])
	}
	return "missing required API keys: " + strings.Join(e.Names, ", ")
}

// Credentials - разрешённые ключи доступа.
type Credentials struct {
	FMPAPIKey    string
	OpenAIAPIKey string
}

// ResolveCredentials берёт явные значения, при их отсутствии читает ENV.
// Все недостающие ключи перечисляются в одной ошибке.
func ResolveCredentials(fmpKey, openAIKey string) (Credentials, error) {
	creds := Credentials{
		FMPAPIKey:    firstNonEmpty(fmpKey, os.Getenv(EnvFMPAPIKey)),
		OpenAIAPIKey: firstNonEmpty(openAIKey, os.Getenv(EnvOpenAIAPIKey)),
	}

	var missing []string
	if creds.FMPAPIKey == "" {
		missing = append(missing, EnvFMPAPIKey)
	}
	if creds.OpenAIAPIKey == "" {
		missing = append(missing, EnvOpenAIAPIKey)
	}
	if len(missing) > 0 {
		return creds, &MissingCredentialError{Names: missing}
	}
	return creds, nil
}

// LoadEnv подгружает .env файлы в окружение процесса.
// Уже заданные переменные не перезаписываются; отсутствие файла не ошибка.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
