// клиент внешнего бэкенда листингов документов и папок
package listing_backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/configs"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/docs_interfaces"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/circuitbreaker"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/rate_limiter"
)

// Client базовая реализация клиента бэкенда
type Client struct {
	baseURL          string                      // базовый URL API бэкенда
	httpClient       *http.Client                // экземпляр клиента, через который ходим в бэкенд
	rateLimiter      docs_interfaces.RateLimiter // ограничение частоты обращения к ресурсу
	circuitBreaker   docs_interfaces.CBInterface // отказоустойчивость
	semaphore        chan struct{}               // ограничение конкурентности
	semaphoreTimeout time.Duration               // сколько ждать свободного слота
	logger           *slog.Logger
}

// Конструктор, который создает клиента бэкенда по конфигу
func NewClient(cfg *configs.BackendConfig, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("backend base url is required")
	}
	if cfg.MaxConcurrent <= 0 {
		return nil, fmt.Errorf("max_concurrent must be positive, got %d", cfg.MaxConcurrent)
	}

	rateLimiter, err := rate_limiter.NewChannelRateLimiter(cfg.RateLimit, cfg.RateBurst)
	if err != nil {
		return nil, err
	}

	cb := circuitbreaker.NewCircuitBreaker(cfg.CircuitBreaker)
	cb.OnStateChange(func(from, to circuitbreaker.State) {
		logger.Warn("listing backend circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	semaphoreTimeout := cfg.SemaphoreTimeout
	if semaphoreTimeout <= 0 {
		semaphoreTimeout = 2 * time.Second
	}

	return &Client{
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:       createHTTPClient(cfg),
		rateLimiter:      rateLimiter,
		circuitBreaker:   cb,
		semaphore:        make(chan struct{}, cfg.MaxConcurrent),
		semaphoreTimeout: semaphoreTimeout,
		logger:           logger,
	}, nil
}

// функция, которая создаёт новый клиент с параметрами
func createHTTPClient(cfg *configs.BackendConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxConnsPerHost:       cfg.MaxConcurrent,
			MaxIdleConnsPerHost:   cfg.MaxIdleConns,
			IdleConnTimeout:       cfg.IdleConnTimeout,
			TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
			ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
			ExpectContinueTimeout: cfg.ExpectContinueTimeout,
		},
	}
}

// Close останавливает rate limiter и закрывает простаивающие соединения
func (c *Client) Close() {
	c.rateLimiter.Stop()
	c.httpClient.CloseIdleConnections()
}

// Stats - статистика circuit breaker клиента
func (c *Client) Stats() (total, success, failure uint32) {
	return c.circuitBreaker.GetStats()
}

// метод проверки доступности семафора
func (c *Client) acquireSemaphore(ctx context.Context) error {
	timer := time.NewTimer(c.semaphoreTimeout)
	defer timer.Stop()

	select {
	case c.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context canceled while waiting for semaphore: %w", ctx.Err())
	case <-timer.C:
		return fmt.Errorf("%w: semaphore timeout, backend is busy", ErrUnavailable)
	}
}

// метод освобождения семафора
func (c *Client) releaseSemaphore() {
	<-c.semaphore
}

// метод для выполнения HTTP запроса через клиент
func (c *Client) executeRequest(ctx context.Context, method, url, token string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	return resp, nil
}

// метод для дренирования и закрытия тела ответа, освобождения ресурсов.
// вычитывает остаток в мусорный ридер с лимитом, чтобы соединение вернулось в пул
func (c *Client) drainAndClose(resp *http.Response) {
	const maxBodySlurp = 1 << 20 // 1MB
	io.CopyN(io.Discard, resp.Body, maxBodySlurp)
	_ = resp.Body.Close()
}

// метод проверки статуса ответа. 5xx - сбой бэкенда (считается circuit breaker),
// остальные коды разбираются вместе с телом ответа
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 500 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &BackendError{Status: resp.StatusCode, Message: fmt.Sprintf("server error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}
	return nil
}

// определяем: обычная ошибка или ошибка circuit breaker
func (c *Client) handleCircuitBreakerError(err error) error {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		total, success, failure := c.circuitBreaker.GetStats()
		c.logger.Warn("listing backend circuit breaker rejected request",
			slog.Uint64("total", uint64(total)),
			slog.Uint64("success", uint64(success)),
			slog.Uint64("failure", uint64(failure)),
		)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

var _ docs_interfaces.ListingBackend = (*Client)(nil)
