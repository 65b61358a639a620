package config

import "time"

// конфиг circuit breaker
type CircuitBreakerConfig struct {
	FailureThreshold    uint32        `yaml:"failure_threshold"`      // ошибок подряд до перехода в Open
	SuccessThreshold    uint32        `yaml:"success_threshold"`      // успешных запросов в Half-Open для перехода в Closed
	HalfOpenMaxRequests uint32        `yaml:"half_open_max_requests"` // макс запросов в Half-Open
	ResetTimeout        time.Duration `yaml:"reset_timeout"`          // время в Open перед пробными запросами
	WindowDuration      time.Duration `yaml:"window_duration"`
}

// конструктор конфига circuit breaker
func NewCircuitBreakerConfig(failureThreshold, successThreshold, halfOpenMaxRequests uint32, resetTimeout, windowDuration time.Duration) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold:    failureThreshold,
		SuccessThreshold:    successThreshold,
		HalfOpenMaxRequests: halfOpenMaxRequests,
		ResetTimeout:        resetTimeout,
		WindowDuration:      windowDuration,
	}
}
