package config

import (
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// структура конфига для Redis (второй уровень кэша листингов, общий для всех инстансов)
type RedisConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	Password        string        `yaml:"-"` // только из REDIS_PASSWORD
	DB              int           `yaml:"db"`
	KeyPrefix       string        `yaml:"key_prefix"` // пространство имён ключей сервиса
	PoolSize        int           `yaml:"pool_size"`
	MinIdleConns    int           `yaml:"min_idle_conns"`
	MaxRetries      int           `yaml:"max_retries"`
	DialTimeout     time.Duration `yaml:"dial_timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	PoolTimeout     time.Duration `yaml:"pool_timeout"`
	MaxConnAge      time.Duration `yaml:"max_conn_age"`
	MinRetryBackOff time.Duration `yaml:"min_retry_backoff"`
	MaxRetryBackOff time.Duration `yaml:"max_retry_backoff"`
}

// функция, которая возвращает указатель на дэфолтный конфиг redis (по умолчанию выключен)
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled:         false,
		Host:            "localhost",
		Port:            "6379",
		DB:              5,
		KeyPrefix:       "bmv-docs:",
		PoolSize:        100,
		MinIdleConns:    10,
		MaxRetries:      2,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		IdleTimeout:     5 * time.Minute,
		PoolTimeout:     4 * time.Second,
		MaxConnAge:      25 * time.Minute,
		MinRetryBackOff: 100 * time.Millisecond,
		MaxRetryBackOff: time.Second,
	}
}

// Validate проверяет согласованность полей
func (r *RedisConfig) Validate() error {
	if !r.Enabled {
		return nil
	}
	if r.Host == "" || r.Port == "" {
		return &ConfigError{Field: "Host/Port", Msg: "redis address is required when redis is enabled"}
	}
	if r.DB < 0 || r.DB > 15 {
		return &ConfigError{Field: "DB", Msg: fmt.Sprintf("value %d is out of range [0, 15]", r.DB)}
	}
	if r.MinIdleConns > r.PoolSize {
		return &ConfigError{Field: "MinIdleConns", Msg: fmt.Sprintf("min_idle_conns (%d) cannot be greater than pool_size (%d)", r.MinIdleConns, r.PoolSize)}
	}
	return nil
}

// для создания клиента redis необходимо передать указатель на структуру опций: *redis.Options
func (r *RedisConfig) ToRedisOptions() *redis.Options {
	return &redis.Options{
		Addr:     r.Host + ":" + r.Port,
		Password: r.Password,
		DB:       r.DB,
		// Пул соединений
		PoolSize:     r.PoolSize,
		MinIdleConns: r.MinIdleConns,
		IdleTimeout:  r.IdleTimeout,
		PoolTimeout:  r.PoolTimeout,
		MaxConnAge:   r.MaxConnAge,

		// Таймауты
		DialTimeout:  r.DialTimeout,
		ReadTimeout:  r.ReadTimeout,
		WriteTimeout: r.WriteTimeout,

		// Повторы
		MaxRetries:      r.MaxRetries,
		MinRetryBackoff: r.MinRetryBackOff,
		MaxRetryBackoff: r.MaxRetryBackOff,
	}
}
