package fmp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType представляет тип ошибки при работе с FMP API.
type ErrorType int

const (
	ErrUnknown ErrorType = iota
	ErrAuthFailed
	ErrTimeout
	ErrNetwork
	ErrRateLimit
	ErrNotFound
	ErrServer
)

// String возвращает строковое представление типа ошибки.
func (e ErrorType) String() string {
	switch e {
	case ErrAuthFailed:
		return "authentication_failed"
	case ErrTimeout:
		return "timeout"
	case ErrNetwork:
		return "network_error"
	case ErrRateLimit:
		return "rate_limit"
	case ErrNotFound:
		return "not_found"
	case ErrServer:
		return "server_error"
	default:
		return "unknown"
	}
}

// HumanMessage возвращает человекочитаемое сообщение для типа ошибки.
func (e ErrorType) HumanMessage() string {
	switch e {
	case ErrAuthFailed:
		return "FMP API key is invalid or missing. Check FMP_API_KEY."
	case ErrTimeout:
		return "FMP API did not respond in time."
	case ErrNetwork:
		return "FMP API is unreachable. Check the network connection."
	case ErrRateLimit:
		return "FMP API rate limit exceeded. Wait before retrying."
	case ErrNotFound:
		return "The requested FMP resource was not found."
	case ErrServer:
		return "FMP API returned a server error."
	default:
		return "Unknown error while calling FMP API."
	}
}

// APIError - неуспешный ответ FMP API.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Type       ErrorType
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fmp api error: %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fmp api error: %s: %s", e.Endpoint, e.Message)
}

// ConfigError - некорректная конфигурация клиента.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid fmp configuration: %s %s", e.Field, e.Reason)
}

// AuthenticationError - API отклонил ключ (401/403 или "Invalid API KEY").
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return "fmp authentication failed: " + e.Message
}

// ClassifyError классифицирует ошибку по типу для лучшей диагностики.
//
// Типизированные ошибки классифицируются по полям, остальные по тексту:
//   - ErrAuthFailed: 401, unauthorized, Forbidden, invalid api key
//   - ErrTimeout: timeout, deadline exceeded
//   - ErrNetwork: connection refused, no such host
//   - ErrRateLimit: 429, Too Many Requests, limit reach
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrUnknown
	}

	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return ErrAuthFailed
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Type != ErrUnknown {
		return apiErr.Type
	}

	errMsg := err.Error()
	errMsgLower := strings.ToLower(errMsg)

	if strings.Contains(errMsg, "401") ||
		strings.Contains(errMsgLower, "unauthorized") ||
		strings.Contains(errMsg, "Forbidden") ||
		strings.Contains(errMsgLower, "invalid api key") {
		return ErrAuthFailed
	}

	if strings.Contains(errMsgLower, "timeout") ||
		strings.Contains(errMsg, "deadline exceeded") {
		return ErrTimeout
	}

	if strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "no such host") {
		return ErrNetwork
	}

	if strings.Contains(errMsg, "429") ||
		strings.Contains(errMsg, "Too Many Requests") ||
		strings.Contains(errMsgLower, "limit reach") {
		return ErrRateLimit
	}

	return ErrUnknown
}

func classifyStatus(code int) ErrorType {
	switch {
	case code == 401 || code == 403:
		return ErrAuthFailed
	case code == 404:
		return ErrNotFound
	case code == 429:
		return ErrRateLimit
	case code >= 500:
		return ErrServer
	default:
		return ErrUnknown
	}
}
