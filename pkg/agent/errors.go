package agent

import (
	"errors"
	"fmt"

	"github.com/MehdiZare/langchain-fmp-data/pkg/config"
	"github.com/MehdiZare/langchain-fmp-data/pkg/fmp"
	"github.com/MehdiZare/langchain-fmp-data/pkg/vectorstore"
)

// StoreErrKind - класс ошибки построения векторного хранилища.
type StoreErrKind int

const (
	// StoreErrConfig - ошибка конфигурации или авторизации.
	StoreErrConfig StoreErrKind = iota
	// StoreErrUnexpected - всё остальное, включая nil хранилище.
	StoreErrUnexpected
)

func (k StoreErrKind) String() string {
	if k == StoreErrConfig {
		return "config"
	}
	return "unexpected"
}

// errNilStore - фабрика вернула пустое хранилище без ошибки.
var errNilStore = errors.New("store is nil")

// StoreInitError - не удалось построить семантический селектор инструментов.
type StoreInitError struct {
	Kind StoreErrKind
	Err  error
}

func (e *StoreInitError) Error() string {
	switch {
	case errors.Is(e.Err, errNilStore):
		return fmt.Sprintf("vector store initialization failed: %v", e.Err)
	case e.Kind == StoreErrConfig:
		return fmt.Sprintf("failed to initialize vector store: %v", e.Err)
	default:
		return fmt.Sprintf("unexpected error initializing vector store: %v", e.Err)
	}
}

func (e *StoreInitError) Unwrap() error {
	return e.Err
}

// classifyStoreError относит ошибку фабрики к конфигурационным или неожиданным.
func classifyStoreError(err error) *StoreInitError {
	var (
		storeCfg *vectorstore.ConfigError
		fmpCfg   *fmp.ConfigError
		fmpAuth  *fmp.AuthenticationError
		missing  *config.MissingCredentialError
	)
	switch {
	case errors.As(err, &storeCfg),
		errors.As(err, &fmpCfg),
		errors.As(err, &fmpAuth),
		errors.As(err, &missing):
		return &StoreInitError{Kind: StoreErrConfig, Err: err}
	default:
		return &StoreInitError{Kind: StoreErrUnexpected, Err: err}
	}
}
