package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// GetRequiredEnv получает обязательную переменную окружения
func GetRequiredEnv(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return val, nil
}

// GetEnvWithDefault получает переменную окружения или значение по умолчанию
func GetEnvWithDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// GetEnvAsIntWithValidation получает переменную окружения как int с проверкой границ
func GetEnvAsIntWithValidation(key string, defaultValue, min, max int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue, nil
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: must be an integer, got %q", key, val)
	}
	if i < min || i > max {
		return defaultValue, fmt.Errorf("%s: value %d is out of range [%d, %d]", key, i, min, max)
	}
	return i, nil
}

// GetEnvAsDurationWithValidation получает переменную окружения как time.Duration с валидацией
func GetEnvAsDurationWithValidation(key string, defaultValue, min, max time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue, nil
	}

	// Пробуем распарсить как duration строку
	d, err := time.ParseDuration(val)
	if err != nil {
		// Пробуем как число (предполагаем секунды)
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return defaultValue, fmt.Errorf("%s: must be a duration (like '1m', '1h') or number of seconds, got %q", key, val)
		}
		d = time.Duration(i) * time.Second
	}

	if d < min || d > max {
		return defaultValue, fmt.Errorf("%s: duration %v is out of range [%v, %v]", key, d, min, max)
	}
	return d, nil
}
