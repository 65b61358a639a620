// интерфейсы между слоями сервиса документов
package docs_interfaces

import (
	"context"
	"time"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/domain/models"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/request_cache"
)

// ListingBackend - внешний сервис, который хранит документы и папки
type ListingBackend interface {
	SearchDocuments(ctx context.Context, token string, query models.DocumentQuery) ([]models.Item, error)
	ListFolders(ctx context.Context, token, parentID string) ([]models.Item, error)
	CreateDocument(ctx context.Context, token string, input models.DocumentInput) (models.Item, error)
	UpdateDocument(ctx context.Context, token, id string, input models.DocumentInput) (models.Item, error)
	DeleteDocument(ctx context.Context, token, id string) error
	CreateFolder(ctx context.Context, token string, input models.FolderInput) (models.Item, error)
	DeleteFolder(ctx context.Context, token, id string) error
}

// RequestCache - кэш запросов первого уровня (в памяти процесса)
type RequestCache interface {
	Set(key string, value interface{}, ttl ...time.Duration)
	Get(key string) (interface{}, bool)
	Has(key string) bool
	Delete(key string) bool
	DeleteFunc(match func(key string) bool) int
	Clear()
	InvalidateDocuments(folderID ...string)
	InvalidateFolders(parentID ...string)
	Stats() request_cache.Stats
}

// SharedCache - кэш второго уровня, общий для инстансов (redis)
type SharedCache interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	GetBytes(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	DeleteMatching(ctx context.Context, prefix string, match func(key string) bool) error
	Close() error
}

// RateLimiter ограничивает частоту запросов к бэкенду
type RateLimiter interface {
	Wait(ctx context.Context) error
	Stop()
}

// CBInterface - circuit breaker вокруг вызовов бэкенда
type CBInterface interface {
	Execute(fn func() error) error
	GetStats() (total, success, failure uint32)
}

var _ RequestCache = (*request_cache.RequestCache)(nil)
