// описание общего конфига для сервиса документов
package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/config"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/jwt_service"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/logging"
)

// переменные окружения, в которых лежат пути к yml конфигам
const (
	EnvServerConfig  = "SERVER_CONFIG_ADDRESS_STRING"
	EnvBackendConfig = "BACKEND_CONFIG_ADDRESS_STRING"
	EnvCacheConfig   = "CACHES_CONFIG_ADDRESS_STRING"
	EnvSearchConfig  = "SEARCH_CONFIG_ADDRESS_STRING"
	EnvRedisConfig   = "REDIS_CONFIG_ADDRESS_STRING"
	EnvJWTConfig     = "JWT_CONFIG_ADDRESS_STRING"
	EnvLogConfig     = "LOG_CONFIG_ADDRESS_STRING"
)

// переопределения отдельных параметров
const (
	EnvBackendBaseURL = "BACKEND_BASE_URL"
	EnvRedisPassword  = "REDIS_PASSWORD"
	EnvLogLevel       = "LOG_LEVEL"
	EnvDebounceDelay  = "SEARCH_DEBOUNCE_DELAY"
	EnvMinQueryLength = "SEARCH_MIN_QUERY_LENGTH"
)

type DocsServiceConfig struct {
	ServerConf *config.ServerConfig
	Backend    *BackendConfig
	Cache      *CachesConfig
	Search     *SearchConfig
	Redis      *config.RedisConfig
	JWT        *jwt_service.JWTConfig
	Logging    *logging.Options
}

// загружаем конфиг: сначала .env (если есть), потом yml файлы по путям из окружения.
// отсутствующий yml - значения по умолчанию
func LoadConfig(envFile string) (*DocsServiceConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	serverConfig, err := config.LoadYAMLConfig[config.ServerConfig](os.Getenv(EnvServerConfig), config.UseDefaultServerConfig)
	if err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	backendConfig, err := config.LoadYAMLConfig[BackendConfig](os.Getenv(EnvBackendConfig), DefaultBackendConfig)
	if err != nil {
		return nil, fmt.Errorf("backend config: %w", err)
	}
	backendConfig.BaseURL = config.GetEnvWithDefault(EnvBackendBaseURL, backendConfig.BaseURL)

	cacheConfig, err := config.LoadYAMLConfig[CachesConfig](os.Getenv(EnvCacheConfig), DefaultCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("cache config: %w", err)
	}

	searchConfig, err := config.LoadYAMLConfig[SearchConfig](os.Getenv(EnvSearchConfig), DefaultSearchConfig)
	if err != nil {
		return nil, fmt.Errorf("search config: %w", err)
	}
	// задержку и минимальную длину запроса удобно крутить без yml
	searchConfig.DebounceDelay, err = config.GetEnvAsDurationWithValidation(EnvDebounceDelay, searchConfig.DebounceDelay, 0, 5*time.Second)
	if err != nil {
		return nil, err
	}
	searchConfig.MinQueryLength, err = config.GetEnvAsIntWithValidation(EnvMinQueryLength, searchConfig.MinQueryLength, 0, 64)
	if err != nil {
		return nil, err
	}

	redisConfig, err := config.LoadYAMLConfig[config.RedisConfig](os.Getenv(EnvRedisConfig), config.DefaultRedisConfig)
	if err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}
	redisConfig.Password = os.Getenv(EnvRedisPassword)
	if err := redisConfig.Validate(); err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}

	jwtConfig, err := jwt_service.LoadJWTConfig(os.Getenv(EnvJWTConfig))
	if err != nil {
		return nil, fmt.Errorf("jwt config: %w", err)
	}

	logConfig, err := config.LoadYAMLConfig[logging.Options](os.Getenv(EnvLogConfig), logging.DefaultOptions)
	if err != nil {
		return nil, fmt.Errorf("log config: %w", err)
	}
	logConfig.Level = config.GetEnvWithDefault(EnvLogLevel, logConfig.Level)

	if err := searchConfig.Validate(); err != nil {
		return nil, err
	}

	return &DocsServiceConfig{
		ServerConf: serverConfig,
		Backend:    backendConfig,
		Cache:      cacheConfig,
		Search:     searchConfig,
		Redis:      redisConfig,
		JWT:        jwtConfig,
		Logging:    logConfig,
	}, nil
}

// Validate проверяет параметры поиска
func (s *SearchConfig) Validate() error {
	if s.DebounceDelay < 0 {
		return &config.ConfigError{Field: "DebounceDelay", Msg: "must be non-negative"}
	}
	if s.MinQueryLength < 0 {
		return &config.ConfigError{Field: "MinQueryLength", Msg: "must be non-negative"}
	}
	if s.MaxSessions <= 0 {
		return &config.ConfigError{Field: "MaxSessions", Msg: "must be positive"}
	}
	return nil
}
