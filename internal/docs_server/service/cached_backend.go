package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/configs"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/docs_interfaces"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/domain/models"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/redis"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/request_cache"
)

// CachedBackend - бэкенд листингов с кэшем чтения: L1 (память процесса) -> L2 (redis, опционально) -> бэкенд.
// после успешных мутаций затронутые листинги инвалидируются на обоих уровнях
type CachedBackend struct {
	backend docs_interfaces.ListingBackend
	cache   docs_interfaces.RequestCache
	shared  docs_interfaces.SharedCache // nil - без второго уровня
	ttl     *configs.CachesConfig
	logger  *slog.Logger
}

// конструктор кэширующего бэкенда
func NewCachedBackend(backend docs_interfaces.ListingBackend, cache docs_interfaces.RequestCache,
	shared docs_interfaces.SharedCache, ttl *configs.CachesConfig, logger *slog.Logger) *CachedBackend {
	return &CachedBackend{
		backend: backend,
		cache:   cache,
		shared:  shared,
		ttl:     ttl,
		logger:  logger,
	}
}

// параметр ключа с владельцем листинга: бэкенд отвечает с правами токена,
// поэтому выдача одного клиента не должна попасть к другому
const ownerParam = "owner"

// анонимный владелец для запросов без токена
const anonymousOwner = "anonymous"

// OwnerScope - идентификатор владельца кэша по токену: первые 16 hex-символов sha256.
// сам токен в ключи (и в redis) не попадает
func OwnerScope(token string) string {
	if token == "" {
		return anonymousOwner
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// DocumentsKey строит ключ кэша листинга документов владельца
func DocumentsKey(owner string, query models.DocumentQuery) string {
	params := request_cache.Params{ownerParam: owner}
	if query.FolderID != "" {
		params["folderId"] = query.FolderID
	}
	if query.MimeType != "" {
		params["mimeType"] = query.MimeType
	}
	if query.Query != "" {
		params["q"] = query.Query
	}
	if query.Status != "" {
		params["status"] = query.Status
	}
	if query.Recent {
		params["recent"] = request_cache.Param(query.Recent)
	}
	if query.Limit > 0 {
		params["limit"] = request_cache.Param(query.Limit)
	}
	return request_cache.GenerateKey(request_cache.DocumentsPrefix, params)
}

// FoldersKey строит ключ кэша листинга папок владельца
func FoldersKey(owner, parentID string) string {
	params := request_cache.Params{ownerParam: owner}
	if parentID != "" {
		params["parentId"] = parentID
	}
	return request_cache.GenerateKey(request_cache.FoldersPrefix, params)
}

// SearchDocuments - листинг документов через кэш
func (b *CachedBackend) SearchDocuments(ctx context.Context, token string, query models.DocumentQuery) ([]models.Item, error) {
	ttl := b.ttl.DocumentsTTL
	if query.Query != "" {
		ttl = b.ttl.SearchTTL
	}
	return b.readThrough(ctx, DocumentsKey(OwnerScope(token), query), ttl, func() ([]models.Item, error) {
		return b.backend.SearchDocuments(ctx, token, query)
	})
}

// ListFolders - листинг папок через кэш
func (b *CachedBackend) ListFolders(ctx context.Context, token, parentID string) ([]models.Item, error) {
	return b.readThrough(ctx, FoldersKey(OwnerScope(token), parentID), b.ttl.FoldersTTL, func() ([]models.Item, error) {
		return b.backend.ListFolders(ctx, token, parentID)
	})
}

func (b *CachedBackend) readThrough(ctx context.Context, key string, ttl time.Duration, load func() ([]models.Item, error)) ([]models.Item, error) {
	if cached, ok := b.cache.Get(key); ok {
		if items, ok := cached.([]models.Item); ok {
			return cloneItems(items), nil
		}
	}

	if items, ok := b.sharedGet(ctx, key); ok {
		b.cache.Set(key, items, ttl)
		return cloneItems(items), nil
	}

	items, err := load()
	if err != nil {
		return nil, err
	}

	b.cache.Set(key, items, ttl)
	b.sharedSet(ctx, key, items)
	return cloneItems(items), nil
}

func (b *CachedBackend) sharedGet(ctx context.Context, key string) ([]models.Item, bool) {
	if b.shared == nil {
		return nil, false
	}
	data, err := b.shared.GetBytes(ctx, key)
	if err != nil {
		if !isCacheMiss(err) {
			b.logger.Warn("shared cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return nil, false
	}

	var items []models.Item
	if err := json.Unmarshal(data, &items); err != nil {
		b.logger.Warn("shared cache entry is corrupted", slog.String("key", key), slog.String("error", err.Error()))
		return nil, false
	}
	return items, true
}

func (b *CachedBackend) sharedSet(ctx context.Context, key string, items []models.Item) {
	if b.shared == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := b.shared.Set(ctx, key, data, b.ttl.SharedCacheTTL); err != nil {
		b.logger.Warn("shared cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// CreateDocument создаёт документ и сбрасывает листинги его папки
func (b *CachedBackend) CreateDocument(ctx context.Context, token string, input models.DocumentInput) (models.Item, error) {
	item, err := b.backend.CreateDocument(ctx, token, input)
	if err != nil {
		return models.Item{}, err
	}
	b.InvalidateDocuments(ctx, input.FolderID)
	return item, nil
}

// UpdateDocument - документ мог переехать из неизвестной папки, поэтому сбрасываются все листинги документов
func (b *CachedBackend) UpdateDocument(ctx context.Context, token, id string, input models.DocumentInput) (models.Item, error) {
	item, err := b.backend.UpdateDocument(ctx, token, id, input)
	if err != nil {
		return models.Item{}, err
	}
	b.InvalidateDocuments(ctx, "")
	return item, nil
}

func (b *CachedBackend) DeleteDocument(ctx context.Context, token, id string) error {
	return b.DeleteDocumentIn(ctx, token, id, "")
}

// DeleteDocumentIn удаляет документ. известная папка сужает инвалидацию до её листингов
func (b *CachedBackend) DeleteDocumentIn(ctx context.Context, token, id, folderID string) error {
	if err := b.backend.DeleteDocument(ctx, token, id); err != nil {
		return err
	}
	b.InvalidateDocuments(ctx, folderID)
	return nil
}

// CreateFolder создаёт папку и сбрасывает листинги родителя
func (b *CachedBackend) CreateFolder(ctx context.Context, token string, input models.FolderInput) (models.Item, error) {
	item, err := b.backend.CreateFolder(ctx, token, input)
	if err != nil {
		return models.Item{}, err
	}
	b.InvalidateFolders(ctx, input.ParentID)
	return item, nil
}

func (b *CachedBackend) DeleteFolder(ctx context.Context, token, id string) error {
	return b.DeleteFolderIn(ctx, token, id, "")
}

// DeleteFolderIn удаляет папку: сбрасываются листинги родителя, её подпапок и её документов
func (b *CachedBackend) DeleteFolderIn(ctx context.Context, token, id, parentID string) error {
	if err := b.backend.DeleteFolder(ctx, token, id); err != nil {
		return err
	}
	b.InvalidateFolders(ctx, parentID)
	b.InvalidateFolders(ctx, id)
	b.InvalidateDocuments(ctx, id)
	return nil
}

// инвалидация не смотрит на владельца: папка общая, листинги всех клиентов устаревают вместе.

// InvalidateDocuments сбрасывает листинги документов папки (и общие листинги без папки, в которые
// документ тоже мог попасть). пустой folderID - все листинги документов
func (b *CachedBackend) InvalidateDocuments(ctx context.Context, folderID string) {
	b.invalidate(ctx, request_cache.DocumentsPrefix, "folderId", folderID)
}

// InvalidateFolders - то же для листингов папок (параметр parentId)
func (b *CachedBackend) InvalidateFolders(ctx context.Context, parentID string) {
	b.invalidate(ctx, request_cache.FoldersPrefix, "parentId", parentID)
}

func (b *CachedBackend) invalidate(ctx context.Context, prefix, param, id string) {
	if id == "" {
		if prefix == request_cache.DocumentsPrefix {
			b.cache.InvalidateDocuments()
		} else {
			b.cache.InvalidateFolders()
		}
		b.sharedDelete(ctx, prefix, nil)
		return
	}

	if prefix == request_cache.DocumentsPrefix {
		b.cache.InvalidateDocuments(id)
	} else {
		b.cache.InvalidateFolders(id)
	}
	b.cache.DeleteFunc(func(key string) bool {
		return isUnscopedKey(key, prefix, param)
	})

	b.sharedDelete(ctx, prefix, func(key string) bool {
		return key == prefix+":"+id ||
			request_cache.KeyHasParam(key, prefix, param, id) ||
			isUnscopedKey(key, prefix, param)
	})
}

func (b *CachedBackend) sharedDelete(ctx context.Context, prefix string, match func(string) bool) {
	if b.shared == nil {
		return
	}
	if err := b.shared.DeleteMatching(ctx, prefix+":", match); err != nil {
		b.logger.Warn("shared cache invalidation failed", slog.String("prefix", prefix), slog.String("error", err.Error()))
	}
}

// ClearOwner сбрасывает на обоих уровнях только листинги владельца токена
func (b *CachedBackend) ClearOwner(ctx context.Context, token string) {
	owned := ownedBy(OwnerScope(token))
	b.cache.DeleteFunc(owned)
	b.sharedDelete(ctx, request_cache.DocumentsPrefix, owned)
	b.sharedDelete(ctx, request_cache.FoldersPrefix, owned)
}

// OwnerStats - статистика L1 по ключам владельца токена.
// MemoryUsage остаётся оценкой по всему кэшу процесса
func (b *CachedBackend) OwnerStats(token string) request_cache.Stats {
	stats := b.cache.Stats()
	owned := ownedBy(OwnerScope(token))

	keys := make([]string, 0, len(stats.Keys))
	for _, key := range stats.Keys {
		if owned(key) {
			keys = append(keys, key)
		}
	}
	stats.Keys = keys
	stats.Size = len(keys)
	return stats
}

func ownedBy(owner string) func(key string) bool {
	return func(key string) bool {
		return request_cache.KeyHasParam(key, request_cache.DocumentsPrefix, ownerParam, owner) ||
			request_cache.KeyHasParam(key, request_cache.FoldersPrefix, ownerParam, owner)
	}
}

// ключ листинга без привязки к папке: prefix: или prefix:a=b&... без param=.
// короткие ключи вида prefix:<id> привязаны к своей папке
func isUnscopedKey(key, prefix, param string) bool {
	rest, ok := strings.CutPrefix(key, prefix+":")
	if !ok {
		return false
	}
	if rest == "" {
		return true
	}
	if !strings.Contains(rest, "=") {
		return false
	}
	for _, part := range strings.Split(rest, "&") {
		if strings.HasPrefix(part, param+"=") {
			return false
		}
	}
	return true
}

func cloneItems(items []models.Item) []models.Item {
	if items == nil {
		return []models.Item{}
	}
	return append([]models.Item(nil), items...)
}

func isCacheMiss(err error) bool {
	return errors.Is(err, redis.ErrCacheMiss)
}

var _ docs_interfaces.ListingBackend = (*CachedBackend)(nil)
