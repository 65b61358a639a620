package request_cache

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// конструктор кэша запросов. Каждый вызов создаёт изолированный экземпляр
func New(opts ...Option) *RequestCache {
	c := &RequestCache{
		items:      make(map[string]CacheEntry),
		defaultTTL: DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// метод записи значения в кэш. Существующая запись перезаписывается безусловно.
// ttl необязателен, без него используется ttl по умолчанию
func (c *RequestCache) Set(key string, value interface{}, ttl ...time.Duration) {
	entryTTL := c.defaultTTL
	if len(ttl) > 0 && ttl[0] >= 0 {
		entryTTL = ttl[0]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.items[key] = CacheEntry{
		value:    value,
		storedAt: c.now(),
		ttl:      entryTTL,
		version:  c.version,
	}
}

// метод получения значения по ключу. Просроченная запись удаляется при обращении
func (c *RequestCache) Get(key string) (interface{}, bool) {
	entry, ok := c.lookup(key)
	if !ok {
		return nil, false
	}
	return entry.value, true
}

// метод проверки наличия валидной записи (с той же ленивой чисткой, что и Get)
func (c *RequestCache) Has(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

// lookup читает запись под read-локом и берёт write-лок только для удаления просроченной
func (c *RequestCache) lookup(key string) (CacheEntry, bool) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return CacheEntry{}, false
	}
	if entry.validAt(now) {
		return entry, true
	}

	c.dropExpired(key, entry)
	return CacheEntry{}, false
}

// удаление просроченной записи под write-локом. запись могли перезаписать между локами,
// в том числе в тот же момент времени, поэтому сверяется версия
func (c *RequestCache) dropExpired(key string, seen CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, still := c.items[key]; still && current.version == seen.version {
		delete(c.items, key)
	}
}

// метод удаления записи. Возвращает, была ли запись в кэше
func (c *RequestCache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	delete(c.items, key)
	return ok
}

// DeleteFunc удаляет все записи, ключ которых подходит под match. Возвращает число удалённых
func (c *RequestCache) DeleteFunc(match func(key string) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleted := 0
	for key := range c.items {
		if match(key) {
			delete(c.items, key)
			deleted++
		}
	}
	return deleted
}

// метод полной очистки кэша (например, при выходе пользователя)
func (c *RequestCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]CacheEntry)
}

// метод инвалидации листингов документов.
// без folderID удаляются все ключи с префиксом documents:,
// с folderID - ключ documents:<folderID> и все составные ключи с folderId=<folderID>
func (c *RequestCache) InvalidateDocuments(folderID ...string) {
	c.invalidate(DocumentsPrefix, "folderId", folderID)
}

// метод инвалидации листингов папок, логика та же, что и у документов (параметр parentId)
func (c *RequestCache) InvalidateFolders(parentID ...string) {
	c.invalidate(FoldersPrefix, "parentId", parentID)
}

func (c *RequestCache) invalidate(prefix, param string, id []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(id) == 0 || id[0] == "" {
		for key := range c.items {
			if strings.HasPrefix(key, prefix+":") {
				delete(c.items, key)
			}
		}
		return
	}

	delete(c.items, prefix+":"+id[0])
	for key := range c.items {
		if KeyHasParam(key, prefix, param, id[0]) {
			delete(c.items, key)
		}
	}
}

// метод получения статистики кэша. Просроченные, но ещё не затронутые записи учитываются
func (c *RequestCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.items))
	memory := 0
	for key, entry := range c.items {
		keys = append(keys, key)
		data, err := json.Marshal(entry.value)
		if err != nil {
			continue
		}
		memory += len(data)
	}
	sort.Strings(keys)

	return Stats{
		Size:        len(c.items),
		Keys:        keys,
		MemoryUsage: memory,
	}
}
