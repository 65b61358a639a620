package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/config"
)

// Состояния Circuit Breaker
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// Структура Circuit Breaker, защищает вызовы бэкенда листингов
type CircuitBreaker struct {
	mu sync.Mutex

	//Конфигурация
	failureThreshold    uint32        // Макс кол-во ошибок до перехода в Open
	successThreshold    uint32        // Кол-во успешных запросов для перехода в Closed
	halfOpenMaxRequests uint32        // Макс запросов в Half-Open состоянии
	resetTimeout        time.Duration // Время ожидания перед Half-Open
	windowDuration      time.Duration // ошибки старше окна не учитываются

	// Состояние
	state            State
	failures         uint32
	firstFailureTime time.Time // начало текущего окна ошибок
	successes        uint32
	lastFailureTime  time.Time
	halfOpenAttempts uint32
	onStateChange    func(from, to State)

	// Статистика
	totalRequests  uint32
	totalSuccesses uint32
	totalFailures  uint32

	now func() time.Time
}

// конструктор circuit breaker, пустые поля конфига заменяются значениями по умолчанию
func NewCircuitBreaker(cfg config.CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 3
	}
	if cfg.HalfOpenMaxRequests <= 0 {
		cfg.HalfOpenMaxRequests = 2
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 10 * time.Second
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = 10 * time.Second
	}

	return &CircuitBreaker{
		failureThreshold:    cfg.FailureThreshold,
		successThreshold:    cfg.SuccessThreshold,
		halfOpenMaxRequests: cfg.HalfOpenMaxRequests,
		resetTimeout:        cfg.ResetTimeout,
		windowDuration:      cfg.WindowDuration,
		state:               StateClosed,
		now:                 time.Now,
	}
}

// OnStateChange регистрирует колбэк на смену состояния (вызывается под локом, должен быть быстрым)
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}
