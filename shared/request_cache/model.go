package request_cache

import (
	"sync"
	"time"
)

// время жизни записи, если при Set не указан ttl
const DefaultTTL = 5 * time.Minute

// префиксы ключей листингов, по которым работает инвалидация
const (
	DocumentsPrefix = "documents"
	FoldersPrefix   = "folders"
)

// основная структура кэша запросов к бэкенду листингов.
// кэш не шардирован: записей немного (листинги папок и поисковые выдачи), а чистка - ленивая
type RequestCache struct {
	mu         sync.RWMutex
	items      map[string]CacheEntry
	defaultTTL time.Duration
	now        func() time.Time // источник времени (подменяется в тестах)
	version    uint64           // растёт с каждым Set
}

// структура отдельной записи кэша
type CacheEntry struct {
	value    interface{}
	storedAt time.Time
	ttl      time.Duration
	version  uint64 // отличает перезапись в тот же момент времени
}

// запись валидна, пока с момента сохранения прошло не больше ttl
func (e CacheEntry) validAt(now time.Time) bool {
	return now.Sub(e.storedAt) <= e.ttl
}

// диагностическая статистика кэша
type Stats struct {
	Size        int      `json:"size"`
	Keys        []string `json:"keys"`
	MemoryUsage int      `json:"memoryUsage"` // приблизительный размер: сумма длин JSON-представлений значений
}

// Option настраивает кэш при создании
type Option func(*RequestCache)

// WithDefaultTTL задаёт ttl по умолчанию вместо 5 минут
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *RequestCache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(c *RequestCache) {
		if now != nil {
			c.now = now
		}
	}
}
