// сервисный слой шлюза документов
package service

import (
	"context"
	"log/slog"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/configs"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/docs_interfaces"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/domain/models"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/search_controller"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/search_sessions"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/request_cache"
)

// описание интерфейса сервисного слоя
type DocsServiceInterface interface {
	ListDocuments(ctx context.Context, token string, query models.DocumentQuery) ([]models.Item, error)
	ListFolders(ctx context.Context, token, parentID string) ([]models.Item, error)
	CreateDocument(ctx context.Context, token string, input models.DocumentInput) (models.Item, error)
	UpdateDocument(ctx context.Context, token, id string, input models.DocumentInput) (models.Item, error)
	DeleteDocument(ctx context.Context, token, id, folderID string) error
	CreateFolder(ctx context.Context, token string, input models.FolderInput) (models.Item, error)
	DeleteFolder(ctx context.Context, token, id, parentID string) error

	Search(ctx context.Context, token, query string, filter models.Filter) ([]models.Item, error)
	Suggestions(ctx context.Context, token, query string) ([]string, error)
	RecentDocuments(ctx context.Context, token string, limit int) ([]models.Item, error)

	CreateSession(token string) (string, models.SearchState, error)
	SetSessionQuery(id, token, query string) (models.SearchState, error)
	SessionState(id, token string) (models.SearchState, error)
	DeleteSession(id, token string) error

	CacheStats(token string) request_cache.Stats
	ClearCache(ctx context.Context, token string)
	StopServices(ctx context.Context)
}

// структура сервиса документов
type DocsService struct {
	backend     *CachedBackend
	shared      docs_interfaces.SharedCache
	sessions    *search_sessions.Registry
	searchOpts  search_controller.Options
	recentLimit int
	logger      *slog.Logger
}

// конструктор сервиса. shared может быть nil (без redis)
func NewDocsService(backend docs_interfaces.ListingBackend, cache docs_interfaces.RequestCache,
	shared docs_interfaces.SharedCache, cacheCfg *configs.CachesConfig, searchCfg *configs.SearchConfig,
	logger *slog.Logger) (*DocsService, error) {
	s := &DocsService{
		backend:     NewCachedBackend(backend, cache, shared, cacheCfg, logger),
		shared:      shared,
		searchOpts:  search_controller.OptionsFromConfig(searchCfg, logger),
		recentLimit: searchCfg.RecentLimit,
		logger:      logger,
	}

	sessions, err := search_sessions.NewRegistry(searchCfg.MaxSessions, s.newController, logger)
	if err != nil {
		return nil, err
	}
	s.sessions = sessions
	return s, nil
}

// контроллер поиска поверх кэширующего бэкенда с токеном клиента
func (s *DocsService) newController(token string) (*search_controller.Controller, error) {
	return search_controller.New(s.backend, token, s.searchOpts)
}

func (s *DocsService) ListDocuments(ctx context.Context, token string, query models.DocumentQuery) ([]models.Item, error) {
	return s.backend.SearchDocuments(ctx, token, query)
}

func (s *DocsService) ListFolders(ctx context.Context, token, parentID string) ([]models.Item, error) {
	return s.backend.ListFolders(ctx, token, parentID)
}

func (s *DocsService) CreateDocument(ctx context.Context, token string, input models.DocumentInput) (models.Item, error) {
	return s.backend.CreateDocument(ctx, token, input)
}

func (s *DocsService) UpdateDocument(ctx context.Context, token, id string, input models.DocumentInput) (models.Item, error) {
	return s.backend.UpdateDocument(ctx, token, id, input)
}

func (s *DocsService) DeleteDocument(ctx context.Context, token, id, folderID string) error {
	return s.backend.DeleteDocumentIn(ctx, token, id, folderID)
}

func (s *DocsService) CreateFolder(ctx context.Context, token string, input models.FolderInput) (models.Item, error) {
	return s.backend.CreateFolder(ctx, token, input)
}

func (s *DocsService) DeleteFolder(ctx context.Context, token, id, parentID string) error {
	return s.backend.DeleteFolderIn(ctx, token, id, parentID)
}

// Search - разовый поиск с фильтрами через одноразовый контроллер
func (s *DocsService) Search(ctx context.Context, token, query string, filter models.Filter) ([]models.Item, error) {
	controller, err := s.newController(token)
	if err != nil {
		return nil, err
	}
	defer controller.Close()

	return controller.SearchWithFilters(ctx, query, filter)
}

func (s *DocsService) Suggestions(ctx context.Context, token, query string) ([]string, error) {
	controller, err := s.newController(token)
	if err != nil {
		return nil, err
	}
	defer controller.Close()

	return controller.GetSuggestions(ctx, query)
}

// RecentDocuments - последние документы, limit <= 0 заменяется лимитом из конфига
func (s *DocsService) RecentDocuments(ctx context.Context, token string, limit int) ([]models.Item, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	controller, err := s.newController(token)
	if err != nil {
		return nil, err
	}
	defer controller.Close()

	return controller.GetRecentDocuments(ctx, limit)
}

// CreateSession открывает живую поисковую сессию
func (s *DocsService) CreateSession(token string) (string, models.SearchState, error) {
	session, err := s.sessions.Create(token)
	if err != nil {
		return "", models.SearchState{}, err
	}
	return session.ID, session.Controller.State(), nil
}

// SetSessionQuery передаёт ввод клиента в сессию, поиск запустится после паузы ввода
func (s *DocsService) SetSessionQuery(id, token, query string) (models.SearchState, error) {
	session, err := s.sessions.Get(id, token)
	if err != nil {
		return models.SearchState{}, err
	}
	session.Controller.SetSearchQuery(query)
	return session.Controller.State(), nil
}

func (s *DocsService) SessionState(id, token string) (models.SearchState, error) {
	session, err := s.sessions.Get(id, token)
	if err != nil {
		return models.SearchState{}, err
	}
	return session.Controller.State(), nil
}

func (s *DocsService) DeleteSession(id, token string) error {
	return s.sessions.Delete(id, token)
}

// CacheStats - статистика кэша листингов вызывающего клиента
func (s *DocsService) CacheStats(token string) request_cache.Stats {
	return s.backend.OwnerStats(token)
}

// ClearCache сбрасывает кэши листингов клиента (например, при выходе пользователя).
// записи других клиентов не трогаются
func (s *DocsService) ClearCache(ctx context.Context, token string) {
	s.backend.ClearOwner(ctx, token)
}

// метод для остановки сервиса: закрываем сессии и соединение с redis
func (s *DocsService) StopServices(ctx context.Context) {
	s.sessions.Close()
	if s.shared != nil {
		if err := s.shared.Close(); err != nil {
			s.logger.Warn("shared cache close failed", slog.String("error", err.Error()))
		}
	}
	s.logger.Info("docs service stopped")
}

var _ DocsServiceInterface = (*DocsService)(nil)
