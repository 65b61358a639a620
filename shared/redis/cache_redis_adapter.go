package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss - ключа нет в redis
var ErrCacheMiss = errors.New("cache miss")

// сколько ключей просим у SCAN за одну итерацию и удаляем за один DEL
const scanBatch = 256

// CacheRedisAdapter - общий кэш листингов поверх redis. все ключи живут под keyPrefix,
// наружу отдаются и принимаются без него
type CacheRedisAdapter struct {
	client    *redis.Client
	keyPrefix string
}

// конструктор для адаптера кэша на базе Redis
func NewCacheAdapter(client *redis.Client, keyPrefix string) *CacheRedisAdapter {
	return &CacheRedisAdapter{client: client, keyPrefix: keyPrefix}
}

func (r *CacheRedisAdapter) fullKey(key string) string {
	return r.keyPrefix + key
}

func (r *CacheRedisAdapter) shortKey(key string) string {
	return strings.TrimPrefix(key, r.keyPrefix)
}

// метод для завершения работы экземпляра redis
func (r *CacheRedisAdapter) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// метод для добавления значения с TTL в redis
func (r *CacheRedisAdapter) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return r.client.Set(ctx, r.fullKey(key), value, expiration).Err()
}

// метод получения значения из redis по ключу (результат в виде байтового среза)
func (r *CacheRedisAdapter) GetBytes(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return data, err
}

// метод удаления элементов по ключам из redis
func (r *CacheRedisAdapter) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = r.fullKey(key)
	}
	return r.client.Del(ctx, full...).Err()
}

// метод удаляет все ключи, начинающиеся с prefix
func (r *CacheRedisAdapter) DeleteByPrefix(ctx context.Context, prefix string) error {
	return r.DeleteMatching(ctx, prefix, nil)
}

// метод удаляет ключи с префиксом prefix, для которых match вернул true (nil - все).
// обход через SCAN, KEYS на проде не используем
func (r *CacheRedisAdapter) DeleteMatching(ctx context.Context, prefix string, match func(key string) bool) error {
	iter := r.client.Scan(ctx, 0, scanPattern(r.fullKey(prefix)), scanBatch).Iterator()

	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		key := iter.Val()
		if match != nil && !match(r.shortKey(key)) {
			continue
		}
		batch = append(batch, key)
		if len(batch) == scanBatch {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Del(ctx, batch...).Err()
	}
	return nil
}

// метод проверки существования элемента в redis по ключу
func (r *CacheRedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	result, err := r.client.Exists(ctx, r.fullKey(key)).Result()
	return result > 0, err
}

// метод возвращает оставшееся время жизни ключа в Redis.
// Возвращает -1 если время жизни не установлено, -2 если ключ не существует.
func (r *CacheRedisAdapter) TTL(ctx context.Context, key string) (time.Duration, error) {
	return r.client.TTL(ctx, r.fullKey(key)).Result()
}

// экранируем спецсимволы glob, чтобы префикс совпадал буквально
func scanPattern(prefix string) string {
	var b strings.Builder
	for _, ch := range prefix {
		switch ch {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(ch)
	}
	b.WriteByte('*')
	return b.String()
}
