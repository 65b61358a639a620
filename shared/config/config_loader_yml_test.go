package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тестовые структуры для проверки
type TestConfig struct {
	Port    int    `yaml:"port"`
	Host    string `yaml:"host"`
	Enabled bool   `yaml:"enabled"`
}

func TestLoadYAMLConfig(t *testing.T) {
	// Создаем временный каталог для тестовых файлов
	tmpDir := t.TempDir()

	t.Run("пустой путь к конфигу - значения по умолчанию", func(t *testing.T) {
		cfg, err := LoadYAMLConfig("", func() *TestConfig {
			return &TestConfig{Port: 8080, Host: "localhost", Enabled: true}
		})

		require.NoError(t, err)
		assert.Equal(t, &TestConfig{Port: 8080, Host: "localhost", Enabled: true}, cfg)
	})

	t.Run("файл не существует - значения по умолчанию", func(t *testing.T) {
		cfg, err := LoadYAMLConfig(filepath.Join(tmpDir, "nonexistent.yaml"), func() *TestConfig {
			return &TestConfig{Port: 3000, Host: "127.0.0.1"}
		})

		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, "127.0.0.1", cfg.Host)
	})

	t.Run("успешная загрузка конфига", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "test-config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("port: 9090\nhost: \"example.com\"\nenabled: true\n"), 0644))

		cfg, err := LoadYAMLConfig(configFile, func() *TestConfig {
			return &TestConfig{Port: 8080, Host: "localhost"}
		})

		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "example.com", cfg.Host)
		assert.True(t, cfg.Enabled)
	})

	t.Run("ошибка парсинга YAML", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "invalid-config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("port: \"не число\"\nhost: example.com\n"), 0644))

		cfg, err := LoadYAMLConfig(configFile, func() *TestConfig { return &TestConfig{} })

		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("частичное заполнение конфига", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "partial-config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("port: 7777\n# host не указан\nenabled: false\n"), 0644))

		cfg, err := LoadYAMLConfig(configFile, func() *TestConfig {
			return &TestConfig{Port: 1111, Host: "default", Enabled: true}
		})

		require.NoError(t, err)
		assert.Equal(t, 7777, cfg.Port)
		assert.Equal(t, "default", cfg.Host)
		assert.False(t, cfg.Enabled)
	})
}
