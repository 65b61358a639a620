package rate_limiter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrStopped = errors.New("rate limiter stopped")

// rate limiter на канале: тикер раз в rate кладёт токен в буфер размера burst.
// burst > 1 позволяет пропустить короткую пачку запросов (например, листинг папок и документов одной страницы)
type ChannelRateLimiter struct {
	tokens   chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	rate     time.Duration
}

// конструктор rate limiter с интервалом между токенами и размером пачки.
// буфер сразу заполнен, поэтому первые burst запросов проходят без ожидания
func NewChannelRateLimiter(rate time.Duration, burst int) (*ChannelRateLimiter, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("rate must be greater than zero, got %v", rate)
	}
	if burst <= 0 {
		burst = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	rl := &ChannelRateLimiter{
		tokens: make(chan struct{}, burst),
		ctx:    ctx,
		cancel: cancel,
		rate:   rate,
	}
	for i := 0; i < burst; i++ {
		rl.tokens <- struct{}{}
	}

	go rl.run()

	return rl, nil
}

// пополнение токенов по тикеру
func (rl *ChannelRateLimiter) run() {
	ticker := time.NewTicker(rl.rate)
	defer ticker.Stop()

	for {
		select {
		case <-rl.ctx.Done():
			return
		case <-ticker.C:
			select {
			case rl.tokens <- struct{}{}:
			default:
				// буфер полон, "долги" не накапливаем
			}
		}
	}
}

// ожидание токена с учётом внешнего контекста
func (rl *ChannelRateLimiter) Wait(ctx context.Context) error {
	if rl.ctx.Err() != nil {
		return ErrStopped
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-rl.ctx.Done():
		return ErrStopped
	case <-rl.tokens:
		return nil
	}
}

// остановка rate limiter, повторный вызов безопасен
func (rl *ChannelRateLimiter) Stop() {
	rl.stopOnce.Do(rl.cancel)
}
