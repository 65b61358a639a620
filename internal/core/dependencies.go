// описание и инициализация всех общих зависимостей
package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/configs"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/docs_interfaces"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/docs_server/handlers"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/docs_server/service"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/listing_backend"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/logging"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/redis"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/request_cache"
)

// DocsServiceDependencies содержит все общие зависимости
type DocsServiceDependencies struct {
	Config      *configs.DocsServiceConfig
	Logger      *slog.Logger
	Cache       *request_cache.RequestCache
	Backend     *listing_backend.Client
	DocsService *service.DocsService
	DocsHandler *handlers.DocsHandler
}

// InitDependencies инициализирует общие зависимости для сервиса документов
func InitDependencies(ctx context.Context, envFile string) (*DocsServiceDependencies, error) {
	// Получаем конфигурацию
	conf, err := configs.LoadConfig(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(*conf.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// кэш листингов первого уровня (в памяти процесса)
	cache := request_cache.New(request_cache.WithDefaultTTL(conf.Cache.DocumentsTTL))

	// второй уровень - redis, только если включён в конфиге.
	// передаём nil интерфейс, а не типизированный nil
	var shared docs_interfaces.SharedCache
	if conf.Redis.Enabled {
		redisCache, err := redis.NewRedisCache(ctx, conf.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		shared = redisCache
	}

	// клиент бэкенда листингов
	backend, err := listing_backend.NewClient(conf.Backend, logger)
	if err != nil {
		if shared != nil {
			shared.Close()
		}
		return nil, fmt.Errorf("failed to create listing backend client: %w", err)
	}

	// создаём сервис документов
	docsService, err := service.NewDocsService(backend, cache, shared, conf.Cache, conf.Search, logger)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to create docs service: %w", err)
	}

	// создаём хэндлер
	docsHandler := handlers.NewDocsHandler(docsService, logger)

	// возвращаем указатель на структуру зависимостей
	return &DocsServiceDependencies{
		Config:      conf,
		Logger:      logger,
		Cache:       cache,
		Backend:     backend,
		DocsService: docsService,
		DocsHandler: docsHandler,
	}, nil
}
