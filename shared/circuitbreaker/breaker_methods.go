package circuitbreaker

// Execute выполняет операцию с защитой Circuit Breaker
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := fn()

	cb.afterRequest(err)
	return err
}

// beforeRequest решает, пропускать ли запрос, и резервирует слот в Half-Open
func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		// проверяем таймер
		if cb.now().Sub(cb.lastFailureTime) < cb.resetTimeout {
			return ErrCircuitOpen
		}
		// Переходим в Half-Open
		cb.setState(StateHalfOpen)
	}

	if cb.state == StateHalfOpen {
		if cb.halfOpenAttempts >= cb.halfOpenMaxRequests {
			return ErrTooManyRequests
		}
		cb.halfOpenAttempts++
	}

	cb.totalRequests++
	return nil
}

// afterRequest учитывает результат выполненной операции
func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.totalFailures++
		cb.onFailure()
		return
	}
	cb.totalSuccesses++
	cb.onSuccess()
}

// onFailure обрабатывает неудачное выполнение (мьютекс уже захвачен)
func (cb *CircuitBreaker) onFailure() {
	now := cb.now()

	switch cb.state {
	case StateClosed:
		// окно истекло - начинаем считать заново
		if cb.failures == 0 || now.Sub(cb.firstFailureTime) > cb.windowDuration {
			cb.failures = 0
			cb.firstFailureTime = now
		}
		cb.failures++
		if cb.failures >= cb.failureThreshold {
			cb.lastFailureTime = now
			cb.setState(StateOpen)
		}

	case StateHalfOpen:
		// При ошибке в Half-Open возвращаемся в Open
		cb.lastFailureTime = now
		cb.setState(StateOpen)

	case StateOpen:
		// запрос начался до перехода в Open, счетчики не трогаем
	}
}

// onSuccess обрабатывает удачное выполнение (мьютекс уже захвачен)
func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateClosed:
		cb.failures = 0

	case StateHalfOpen:
		// слот Half-Open ограничивает одновременные пробные запросы
		if cb.halfOpenAttempts > 0 {
			cb.halfOpenAttempts--
		}
		cb.successes++
		if cb.successes >= cb.successThreshold {
			cb.setState(StateClosed)
		}

	case StateOpen:
	}
}

// setState меняет состояние и сбрасывает счетчики нового состояния
func (cb *CircuitBreaker) setState(to State) {
	from := cb.state
	cb.state = to
	cb.failures = 0
	cb.successes = 0
	cb.halfOpenAttempts = 0
	if from != to && cb.onStateChange != nil {
		cb.onStateChange(from, to)
	}
}

// State возвращает текущее состояние
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// GetStats возвращает статистику
func (cb *CircuitBreaker) GetStats() (total, success, failure uint32) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.totalRequests, cb.totalSuccesses, cb.totalFailures
}
