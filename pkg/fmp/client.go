// Package fmp - SDK для Financial Modeling Prep API.
//
// Клиент делает rate limiting по эндпоинту, retry сетевых ошибок и 5xx,
// обрабатывает 429 и классифицирует ошибки. Высокоуровневые методы
// (Quote, Profile, ...) лежат в endpoints.go, обёртки для LLM в pkg/fmp/fmptools.
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MehdiZare/langchain-fmp-data/pkg/config"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

// HTTPClient интерфейс для выполнения HTTP запросов.
//
// Стандартный *http.Client реализует этот интерфейс.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client - клиент FMP API.
type Client struct {
	apiKey        string
	baseURL       string
	httpClient    HTTPClient
	retryAttempts int
	rateLimit     int
	burst         int
	retryWait     time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter // endpoint → limiter
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет HTTP клиент (тесты, прокси).
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithRetryWait задаёт паузу между повторами после 5xx и сетевых ошибок.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) {
		c.retryWait = d
	}
}

// New создает клиент с дефолтными параметрами.
func New(apiKey string, opts ...Option) (*Client, error) {
	return NewFromConfig(config.FMPConfig{APIKey: apiKey}, opts...)
}

// NewFromConfig создает клиент из конфигурации.
//
// Поля с нулевыми значениями используют дефолтные значения через GetDefaults().
func NewFromConfig(cfg config.FMPConfig, opts ...Option) (*Client, error) {
	cfg = cfg.GetDefaults()

	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &ConfigError{Field: "fmp.api_key", Reason: "is required"}
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, &ConfigError{Field: "fmp.base_url", Reason: err.Error()}
	}
	if cfg.RateLimit < 0 || cfg.BurstLimit < 0 {
		return nil, &ConfigError{Field: "fmp.rate_limit", Reason: "must be positive"}
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, &ConfigError{Field: "fmp.timeout", Reason: fmt.Sprintf("has invalid format: %v", err)}
	}

	c := &Client{
		apiKey:        cfg.APIKey,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    &http.Client{Timeout: timeout},
		retryAttempts: cfg.RetryAttempts,
		rateLimit:     cfg.RateLimit,
		burst:         cfg.BurstLimit,
		retryWait:     500 * time.Millisecond,
		limiters:      make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get выполняет GET запрос с rate limit и retries и декодирует JSON в dest.
//
// endpoint - логическое имя для лимитера и логов, path - путь относительно base URL.
func (c *Client) Get(ctx context.Context, endpoint, path string, params url.Values, dest any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	limiter := c.getOrCreateLimiter(endpoint)

	var lastErr error
	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		// Ждем разрешения от лимитера (блокирует горутину, если превысили лимит)
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}

		status, body, header, err := c.do(ctx, u.String())
		if err != nil {
			lastErr = err
			utils.Warn("fmp request failed", "endpoint", endpoint, "attempt", attempt+1, "error", err)
			if !c.sleep(ctx, c.retryWait) {
				return ctx.Err()
			}
			continue
		}

		switch {
		case status == http.StatusTooManyRequests:
			lastErr = &APIError{Endpoint: endpoint, StatusCode: status, Message: "Too Many Requests", Type: ErrRateLimit}
			retryAfter := time.Second
			if s := header.Get("Retry-After"); s != "" {
				if sec, err := strconv.Atoi(s); err == nil {
					retryAfter = time.Duration(sec) * time.Second
				}
			}
			utils.Warn("fmp rate limited", "endpoint", endpoint, "retry_after", retryAfter.String())
			if !c.sleep(ctx, retryAfter) {
				return ctx.Err()
			}
			continue
		case status >= 500:
			lastErr = &APIError{Endpoint: endpoint, StatusCode: status, Message: errorMessage(body), Type: ErrServer}
			if !c.sleep(ctx, c.retryWait) {
				return ctx.Err()
			}
			continue
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return &AuthenticationError{Message: errorMessage(body)}
		case status != http.StatusOK:
			return &APIError{Endpoint: endpoint, StatusCode: status, Message: errorMessage(body), Type: classifyStatus(status)}
		}

		// FMP иногда отвечает 200 с {"Error Message": "..."}
		if msg, ok := embeddedError(body); ok {
			if strings.Contains(strings.ToLower(msg), "api key") {
				return &AuthenticationError{Message: msg}
			}
			return &APIError{Endpoint: endpoint, StatusCode: status, Message: msg, Type: ClassifyError(fmt.Errorf("%s", msg))}
		}

		if err := json.Unmarshal(body, dest); err != nil {
			return fmt.Errorf("unmarshal error: %w", err)
		}
		utils.Debug("fmp request ok", "endpoint", endpoint, "bytes", len(body))
		return nil
	}

	return fmt.Errorf("max retries exceeded for %s, last error: %w", endpoint, lastErr)
}

func (c *Client) do(ctx context.Context, rawURL string) (int, []byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, resp.Header, nil
}

func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// getOrCreateLimiter возвращает limiter эндпоинта, создавая его при первом вызове.
func (c *Client) getOrCreateLimiter(endpoint string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limiter, exists := c.limiters[endpoint]; exists {
		return limiter
	}

	// rateLimit в запросах/минуту → rate.Limit в запросах/секунду
	limiter := rate.NewLimiter(rate.Limit(float64(c.rateLimit)/60.0), c.burst)
	c.limiters[endpoint] = limiter
	return limiter
}

func embeddedError(body []byte) (string, bool) {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "{") {
		return "", false
	}
	var payload struct {
		ErrorMessage string `json:"Error Message"`
		Error        string `json:"error"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return "", false
	}
	if payload.ErrorMessage != "" {
		return payload.ErrorMessage, true
	}
	if payload.Error != "" {
		return payload.Error, true
	}
	return "", false
}

func errorMessage(body []byte) string {
	if msg, ok := embeddedError(body); ok {
		return msg
	}
	return utils.Truncate(strings.TrimSpace(string(body)), 200)
}
