package configs

import (
	"time"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/config"
)

// структура конфига клиента бэкенда листингов (облачное хранилище документов)
type BackendConfig struct {
	BaseURL               string                      `yaml:"base_url"`                // базовый URL API, например http://localhost:3000/api
	Timeout               time.Duration               `yaml:"timeout"`                 // общий таймаут http клиента
	RateLimit             time.Duration               `yaml:"rate_limit"`              // интервал пополнения токенов rate limiter
	RateBurst             int                         `yaml:"rate_burst"`              // сколько запросов можно сделать пачкой
	MaxConcurrent         int                         `yaml:"max_concurrent"`          // размер семафора и лимит соединений на хост
	SemaphoreTimeout      time.Duration               `yaml:"semaphore_timeout"`       // сколько ждать свободного слота семафора
	CircuitBreaker        config.CircuitBreakerConfig `yaml:"circuit_breaker"`         // конфиг circuit breaker
	MaxIdleConns          int                         `yaml:"max_idle_conns"`          // keep-alive соединения на хост
	IdleConnTimeout       time.Duration               `yaml:"idle_conn_timeout"`       // через сколько закрывать неиспользуемое соединение
	TLSHandshakeTimeout   time.Duration               `yaml:"tls_handshake_timeout"`   // максимальное время TLS handshake
	ResponseHeaderTimeout time.Duration               `yaml:"response_header_timeout"` // сколько ждать заголовков ответа
	ExpectContinueTimeout time.Duration               `yaml:"expect_continue_timeout"`
}

// функция, которая возвращает указатель на дэфолтный конфиг клиента бэкенда
func DefaultBackendConfig() *BackendConfig {
	return &BackendConfig{
		BaseURL:          "http://localhost:3000/api",
		Timeout:          15 * time.Second,
		RateLimit:        50 * time.Millisecond,
		RateBurst:        10,
		MaxConcurrent:    8,
		SemaphoreTimeout: 2 * time.Second,
		CircuitBreaker: config.CircuitBreakerConfig{
			FailureThreshold:    5,
			SuccessThreshold:    2,
			HalfOpenMaxRequests: 2,
			ResetTimeout:        10 * time.Second,
			WindowDuration:      30 * time.Second,
		},
		MaxIdleConns:          8,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}
