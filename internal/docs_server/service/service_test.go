package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/configs"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/domain/models"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/search_sessions"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/logging"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/redis"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/request_cache"
)

// фейковый бэкенд листингов со счётчиком обращений
type fakeBackend struct {
	mu        sync.Mutex
	documents []models.Item
	folders   []models.Item
	reads     int
	mutations []string
}

func (f *fakeBackend) SearchDocuments(_ context.Context, _ string, query models.DocumentQuery) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++

	var out []models.Item
	for _, item := range f.documents {
		if query.Query != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(query.Query)) {
			continue
		}
		out = append(out, item)
	}
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, nil
}

func (f *fakeBackend) ListFolders(context.Context, string, string) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return append([]models.Item(nil), f.folders...), nil
}

func (f *fakeBackend) mutate(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations = append(f.mutations, op)
}

func (f *fakeBackend) CreateDocument(_ context.Context, _ string, input models.DocumentInput) (models.Item, error) {
	f.mutate("create-document")
	return models.Item{ID: "new", Name: input.Name}, nil
}

func (f *fakeBackend) UpdateDocument(_ context.Context, _ string, id string, input models.DocumentInput) (models.Item, error) {
	f.mutate("update-document")
	return models.Item{ID: id, Name: input.Name}, nil
}

func (f *fakeBackend) DeleteDocument(context.Context, string, string) error {
	f.mutate("delete-document")
	return nil
}

func (f *fakeBackend) CreateFolder(_ context.Context, _ string, input models.FolderInput) (models.Item, error) {
	f.mutate("create-folder")
	return models.Item{ID: "folder", Name: input.Name}, nil
}

func (f *fakeBackend) DeleteFolder(context.Context, string, string) error {
	f.mutate("delete-folder")
	return nil
}

func (f *fakeBackend) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// общий кэш в памяти вместо redis
type memoryShared struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryShared() *memoryShared {
	return &memoryShared{data: make(map[string][]byte)}
}

func (m *memoryShared) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryShared) GetBytes(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, redis.ErrCacheMiss
	}
	return data, nil
}

func (m *memoryShared) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryShared) DeleteByPrefix(ctx context.Context, prefix string) error {
	return m.DeleteMatching(ctx, prefix, nil)
}

func (m *memoryShared) DeleteMatching(_ context.Context, prefix string, match func(string) bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		if strings.HasPrefix(key, prefix) && (match == nil || match(key)) {
			delete(m.data, key)
		}
	}
	return nil
}

func (m *memoryShared) Close() error { return nil }

func (m *memoryShared) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func testSearchConfig() *configs.SearchConfig {
	cfg := configs.DefaultSearchConfig()
	cfg.DebounceDelay = 10 * time.Millisecond
	cfg.MaxSessions = 4
	return cfg
}

func newTestService(t *testing.T, backend *fakeBackend, shared *memoryShared) (*DocsService, *request_cache.RequestCache) {
	t.Helper()
	cache := request_cache.New()
	var s *DocsService
	var err error
	if shared == nil {
		s, err = NewDocsService(backend, cache, nil, configs.DefaultCacheConfig(), testSearchConfig(), logging.Nop())
	} else {
		s, err = NewDocsService(backend, cache, shared, configs.DefaultCacheConfig(), testSearchConfig(), logging.Nop())
	}
	require.NoError(t, err)
	t.Cleanup(func() { s.StopServices(context.Background()) })
	return s, cache
}

// ключи кэша клиента с токеном tok
func docKey(query models.DocumentQuery) string { return DocumentsKey(OwnerScope("tok"), query) }
func folderKey(parentID string) string { return FoldersKey(OwnerScope("tok"), parentID) }

func TestOwnerScope(t *testing.T) {
	assert.Equal(t, "anonymous", OwnerScope(""))
	assert.Len(t, OwnerScope("tok"), 16)
	assert.Equal(t, OwnerScope("tok"), OwnerScope("tok"))
	assert.NotEqual(t, OwnerScope("alice"), OwnerScope("bob"))
	assert.NotContains(t, OwnerScope("secret-token"), "secret")
}

func TestDocumentsKey(t *testing.T) {
	assert.Equal(t, "documents:folderId=f1&owner=u1", DocumentsKey("u1", models.DocumentQuery{FolderID: "f1"}))
	assert.Equal(t, "documents:owner=u1", DocumentsKey("u1", models.DocumentQuery{}))
	assert.Equal(t, "documents:folderId=f1&owner=u1&q=report", DocumentsKey("u1", models.DocumentQuery{FolderID: "f1", Query: "report"}))
	assert.Equal(t, "documents:limit=5&owner=u1&recent=true", DocumentsKey("u1", models.DocumentQuery{Recent: true, Limit: 5}))
	assert.Equal(t, "folders:owner=u1&parentId=root", FoldersKey("u1", "root"))
	assert.Equal(t, "folders:owner=u1", FoldersKey("u1", ""))
}

func TestIsUnscopedKey(t *testing.T) {
	assert.True(t, isUnscopedKey("documents:", "documents", "folderId"))
	assert.True(t, isUnscopedKey("documents:owner=u1", "documents", "folderId"))
	assert.True(t, isUnscopedKey("documents:q=report", "documents", "folderId"))
	assert.False(t, isUnscopedKey("documents:f1", "documents", "folderId"))
	assert.False(t, isUnscopedKey("documents:folderId=f1&q=x", "documents", "folderId"))
	assert.False(t, isUnscopedKey("folders:", "documents", "folderId"))
}

func TestReadThroughL1(t *testing.T) {
	backend := &fakeBackend{documents: []models.Item{{ID: "d1", Name: "report.pdf"}}}
	s, cache := newTestService(t, backend, nil)
	ctx := context.Background()

	first, err := s.ListDocuments(ctx, "tok", models.DocumentQuery{FolderID: "f1"})
	require.NoError(t, err)
	second, err := s.ListDocuments(ctx, "tok", models.DocumentQuery{FolderID: "f1"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.readCount())
	assert.True(t, cache.Has(docKey(models.DocumentQuery{FolderID: "f1"})))

	// вызывающий не может испортить закэшированный листинг
	second[0].Name = "changed"
	third, err := s.ListDocuments(ctx, "tok", models.DocumentQuery{FolderID: "f1"})
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", third[0].Name)
}

func TestReadThroughL2(t *testing.T) {
	backend := &fakeBackend{folders: []models.Item{{ID: "f1", Name: "Contracts"}}}
	shared := newMemoryShared()
	ctx := context.Background()

	s1, _ := newTestService(t, backend, shared)
	_, err := s1.ListFolders(ctx, "tok", "root")
	require.NoError(t, err)
	assert.True(t, shared.has(folderKey("root")))

	// второй инстанс с пустым L1 читает из общего кэша
	s2, cache2 := newTestService(t, backend, shared)
	folders, err := s2.ListFolders(ctx, "tok", "root")
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "Contracts", folders[0].Name)
	assert.Equal(t, 1, backend.readCount())
	assert.True(t, cache2.Has(folderKey("root")))
}

func TestCreateDocumentInvalidatesFolderListings(t *testing.T) {
	backend := &fakeBackend{documents: []models.Item{{ID: "d1", Name: "report.pdf"}}}
	shared := newMemoryShared()
	s, cache := newTestService(t, backend, shared)
	ctx := context.Background()

	queries := []models.DocumentQuery{
		{FolderID: "f1"},
		{FolderID: "f1", Query: "report"},
		{FolderID: "f2"},
		{},
		{Query: "report"},
	}
	for _, q := range queries {
		_, err := s.ListDocuments(ctx, "tok", q)
		require.NoError(t, err)
	}
	_, err := s.ListFolders(ctx, "tok", "root")
	require.NoError(t, err)

	_, err = s.CreateDocument(ctx, "tok", models.DocumentInput{Name: "new.txt", FolderID: "f1"})
	require.NoError(t, err)

	assert.Equal(t, []string{docKey(models.DocumentQuery{FolderID: "f2"}), folderKey("root")}, cache.Stats().Keys)
	assert.False(t, shared.has(docKey(models.DocumentQuery{FolderID: "f1"})))
	assert.False(t, shared.has(docKey(models.DocumentQuery{FolderID: "f1", Query: "report"})))
	assert.False(t, shared.has(docKey(models.DocumentQuery{})))
	assert.False(t, shared.has(docKey(models.DocumentQuery{Query: "report"})))
	assert.True(t, shared.has(docKey(models.DocumentQuery{FolderID: "f2"})))
}

func TestUpdateDocumentInvalidatesAllDocuments(t *testing.T) {
	backend := &fakeBackend{}
	s, cache := newTestService(t, backend, nil)
	ctx := context.Background()

	_, err := s.ListDocuments(ctx, "tok", models.DocumentQuery{FolderID: "f1"})
	require.NoError(t, err)
	_, err = s.ListDocuments(ctx, "tok", models.DocumentQuery{FolderID: "f2"})
	require.NoError(t, err)
	_, err = s.ListFolders(ctx, "tok", "")
	require.NoError(t, err)

	_, err = s.UpdateDocument(ctx, "tok", "d1", models.DocumentInput{Name: "renamed"})
	require.NoError(t, err)

	assert.Equal(t, []string{folderKey("")}, cache.Stats().Keys)
}

func TestDeleteFolderInvalidation(t *testing.T) {
	backend := &fakeBackend{}
	s, cache := newTestService(t, backend, nil)
	ctx := context.Background()

	_, err := s.ListFolders(ctx, "tok", "root")
	require.NoError(t, err)
	_, err = s.ListFolders(ctx, "tok", "f1")
	require.NoError(t, err)
	_, err = s.ListFolders(ctx, "tok", "other")
	require.NoError(t, err)
	_, err = s.ListDocuments(ctx, "tok", models.DocumentQuery{FolderID: "f1"})
	require.NoError(t, err)
	_, err = s.ListDocuments(ctx, "tok", models.DocumentQuery{FolderID: "f2"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteFolder(ctx, "tok", "f1", "root"))

	assert.Equal(t, []string{docKey(models.DocumentQuery{FolderID: "f2"}), folderKey("other")}, cache.Stats().Keys)
	assert.Equal(t, []string{"delete-folder"}, backend.mutations)
}

func TestSearchUsesCacheAndFilters(t *testing.T) {
	backend := &fakeBackend{documents: []models.Item{
		{ID: "jan", Name: "report jan", ModifiedTime: "2024-01-01"},
		{ID: "jun", Name: "report jun", ModifiedTime: "2024-06-01"},
		{ID: "dec", Name: "report dec", ModifiedTime: "2024-12-01"},
	}}
	s, cache := newTestService(t, backend, nil)
	ctx := context.Background()

	filter := models.Filter{DateRange: &models.DateRange{Start: "2024-03-01", End: "2024-09-01"}}
	results, err := s.Search(ctx, "tok", "report", filter)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "jun", results[0].ID)
	assert.True(t, cache.Has(docKey(models.DocumentQuery{Query: "report"})))

	_, err = s.Search(ctx, "tok", "report", filter)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.readCount())

	_, err = s.Search(ctx, "tok", "report", models.Filter{DateRange: &models.DateRange{Start: "2024-09-01", End: "2024-03-01"}})
	assert.ErrorIs(t, err, models.ErrInvalidDateRange)
	assert.Equal(t, 1, backend.readCount())
}

func TestSuggestionsAndRecent(t *testing.T) {
	backend := &fakeBackend{documents: []models.Item{
		{ID: "1", Name: "Report A"},
		{ID: "2", Name: "report b"},
		{ID: "3", Name: "budget"},
	}}
	s, _ := newTestService(t, backend, nil)
	ctx := context.Background()

	names, err := s.Suggestions(ctx, "tok", "rep")
	require.NoError(t, err)
	assert.Equal(t, []string{"Report A", "report b"}, names)

	recent, err := s.RecentDocuments(ctx, "tok", 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	recent, err = s.RecentDocuments(ctx, "tok", 0)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}

func TestSearchSessions(t *testing.T) {
	backend := &fakeBackend{documents: []models.Item{{ID: "1", Name: "report"}}}
	s, _ := newTestService(t, backend, nil)

	id, state, err := s.CreateSession("tok")
	require.NoError(t, err)
	assert.Equal(t, models.StatusIdle, state.Status)

	state, err = s.SetSessionQuery(id, "tok", "report")
	require.NoError(t, err)
	assert.Equal(t, "report", state.Query)

	require.Eventually(t, func() bool {
		state, err := s.SessionState(id, "tok")
		return err == nil && state.Status == models.StatusSuccess
	}, 2*time.Second, 5*time.Millisecond)

	state, err = s.SessionState(id, "tok")
	require.NoError(t, err)
	require.Len(t, state.Results, 1)

	_, err = s.SessionState(id, "someone-else")
	assert.ErrorIs(t, err, search_sessions.ErrSessionNotFound)

	require.NoError(t, s.DeleteSession(id, "tok"))
	_, err = s.SessionState(id, "tok")
	assert.ErrorIs(t, err, search_sessions.ErrSessionNotFound)
}

func TestClearCache(t *testing.T) {
	backend := &fakeBackend{}
	shared := newMemoryShared()
	s, cache := newTestService(t, backend, shared)
	ctx := context.Background()

	for _, token := range []string{"alice", "bob"} {
		_, err := s.ListDocuments(ctx, token, models.DocumentQuery{FolderID: "f1"})
		require.NoError(t, err)
		_, err = s.ListFolders(ctx, token, "root")
		require.NoError(t, err)
	}
	require.Equal(t, 2, s.CacheStats("alice").Size)
	require.Equal(t, 4, cache.Stats().Size)

	s.ClearCache(ctx, "alice")
	assert.Equal(t, 0, s.CacheStats("alice").Size)
	assert.False(t, shared.has(DocumentsKey(OwnerScope("alice"), models.DocumentQuery{FolderID: "f1"})))
	assert.False(t, shared.has(FoldersKey(OwnerScope("alice"), "root")))

	// кэш другого клиента не тронут
	assert.Equal(t, []string{
		DocumentsKey(OwnerScope("bob"), models.DocumentQuery{FolderID: "f1"}),
		FoldersKey(OwnerScope("bob"), "root"),
	}, s.CacheStats("bob").Keys)
	assert.True(t, shared.has(DocumentsKey(OwnerScope("bob"), models.DocumentQuery{FolderID: "f1"})))
}

// бэкенд отвечает документом, видимым только владельцу токена
type perTokenBackend struct {
	fakeBackend
}

func (p *perTokenBackend) SearchDocuments(_ context.Context, token string, _ models.DocumentQuery) ([]models.Item, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reads++
	return []models.Item{{ID: "doc-of-" + token, Name: "doc-of-" + token}}, nil
}

func TestCachedListingsAreScopedPerToken(t *testing.T) {
	backend := &perTokenBackend{}
	shared := newMemoryShared()
	cached := NewCachedBackend(backend, request_cache.New(), shared, configs.DefaultCacheConfig(), logging.Nop())
	ctx := context.Background()
	query := models.DocumentQuery{FolderID: "root"}

	alice, err := cached.SearchDocuments(ctx, "alice", query)
	require.NoError(t, err)
	bob, err := cached.SearchDocuments(ctx, "bob", query)
	require.NoError(t, err)

	require.Len(t, alice, 1)
	require.Len(t, bob, 1)
	assert.Equal(t, "doc-of-alice", alice[0].ID)
	assert.Equal(t, "doc-of-bob", bob[0].ID)
	assert.Equal(t, 2, backend.readCount())

	// повтор alice обслуживается из кэша её же выдачей
	again, err := cached.SearchDocuments(ctx, "alice", query)
	require.NoError(t, err)
	assert.Equal(t, "doc-of-alice", again[0].ID)
	assert.Equal(t, 2, backend.readCount())

	// второй инстанс с пустым L1 тоже не смешивает владельцев в redis
	other := NewCachedBackend(backend, request_cache.New(), shared, configs.DefaultCacheConfig(), logging.Nop())
	bob, err = other.SearchDocuments(ctx, "bob", query)
	require.NoError(t, err)
	assert.Equal(t, "doc-of-bob", bob[0].ID)
	assert.Equal(t, 2, backend.readCount())

	// мутация в общей папке сбрасывает листинги всех владельцев
	_, err = cached.CreateDocument(ctx, "alice", models.DocumentInput{Name: "new.txt", FolderID: "root"})
	require.NoError(t, err)
	assert.False(t, shared.has(DocumentsKey(OwnerScope("alice"), query)))
	assert.False(t, shared.has(DocumentsKey(OwnerScope("bob"), query)))
}
