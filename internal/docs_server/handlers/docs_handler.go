// описание хэндлеров шлюза документов
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/docs_server/dto"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/docs_server/service"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/middleware"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/toolkit"
)

// структура хэндлера шлюза документов
type DocsHandler struct {
	service service.DocsServiceInterface
	logger  *slog.Logger
}

// конструктор для слоя хэндлеров
func NewDocsHandler(service service.DocsServiceInterface, logger *slog.Logger) *DocsHandler {
	return &DocsHandler{
		service: service,
		logger:  logger,
	}
}

// метод хэндлера для остановки сервиса
func (h *DocsHandler) ShutDown(ctx context.Context) {
	h.service.StopServices(ctx)
}

// проверка живости
func (h *DocsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ответ с ошибкой через маппер ошибок, 5xx пишем в лог
func (h *DocsHandler) respondError(c *gin.Context, err error) {
	code, apiErr := ToAPIError(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			slog.String("request_id", c.GetString(toolkit.ContextRequestID)),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
	}
	c.JSON(code, gin.H{"success": false, "error": apiErr})
}

// разбор query string с валидацией тэгов validate
func bindQuery[T any](c *gin.Context) (*T, bool) {
	var query T
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": APIError{Code: "INVALID_QUERY", Message: err.Error()}})
		return nil, false
	}
	if details := middleware.ValidateStruct(&query); details != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "details": details})
		return nil, false
	}
	return &query, true
}

// данные тела запроса, проверенные ValidateMiddleware
func validated[T any](c *gin.Context) (*T, bool) {
	data, ok := middleware.ValidatedData[T](c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Validation data not found"})
		return nil, false
	}
	return data, true
}

// GET /api/documents
func (h *DocsHandler) ListDocuments(c *gin.Context) {
	query, ok := bindQuery[dto.ListDocumentsQuery](c)
	if !ok {
		return
	}

	items, err := h.service.ListDocuments(c.Request.Context(), middleware.TokenFromContext(c), query.ToDomain())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ItemsResponse{Success: true, Items: items, Count: len(items)})
}

// GET /api/folders
func (h *DocsHandler) ListFolders(c *gin.Context) {
	query, ok := bindQuery[dto.ListFoldersQuery](c)
	if !ok {
		return
	}

	items, err := h.service.ListFolders(c.Request.Context(), middleware.TokenFromContext(c), query.ParentID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ItemsResponse{Success: true, Items: items, Count: len(items)})
}

// POST /api/documents
func (h *DocsHandler) CreateDocument(c *gin.Context) {
	req, ok := validated[dto.DocumentRequest](c)
	if !ok {
		return
	}

	item, err := h.service.CreateDocument(c.Request.Context(), middleware.TokenFromContext(c), req.ToDomain())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ItemResponse{Success: true, Item: item})
}

// PUT /api/documents/:id
func (h *DocsHandler) UpdateDocument(c *gin.Context) {
	req, ok := validated[dto.DocumentRequest](c)
	if !ok {
		return
	}

	item, err := h.service.UpdateDocument(c.Request.Context(), middleware.TokenFromContext(c), c.Param("id"), req.ToDomain())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ItemResponse{Success: true, Item: item})
}

// DELETE /api/documents/:id?folderId=
func (h *DocsHandler) DeleteDocument(c *gin.Context) {
	scope, ok := bindQuery[dto.DeleteScopeQuery](c)
	if !ok {
		return
	}

	if err := h.service.DeleteDocument(c.Request.Context(), middleware.TokenFromContext(c), c.Param("id"), scope.FolderID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/folders
func (h *DocsHandler) CreateFolder(c *gin.Context) {
	req, ok := validated[dto.FolderRequest](c)
	if !ok {
		return
	}

	item, err := h.service.CreateFolder(c.Request.Context(), middleware.TokenFromContext(c), req.ToDomain())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ItemResponse{Success: true, Item: item})
}

// DELETE /api/folders/:id?parentId=
func (h *DocsHandler) DeleteFolder(c *gin.Context) {
	scope, ok := bindQuery[dto.DeleteScopeQuery](c)
	if !ok {
		return
	}

	if err := h.service.DeleteFolder(c.Request.Context(), middleware.TokenFromContext(c), c.Param("id"), scope.ParentID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/search
func (h *DocsHandler) Search(c *gin.Context) {
	req, ok := validated[dto.SearchRequest](c)
	if !ok {
		return
	}

	items, err := h.service.Search(c.Request.Context(), middleware.TokenFromContext(c), req.Query, req.Filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ItemsResponse{Success: true, Items: items, Count: len(items)})
}

// GET /api/search/suggestions?q=
func (h *DocsHandler) Suggestions(c *gin.Context) {
	query, ok := bindQuery[dto.SuggestionsQuery](c)
	if !ok {
		return
	}

	names, err := h.service.Suggestions(c.Request.Context(), middleware.TokenFromContext(c), query.Query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuggestionsResponse{Success: true, Suggestions: names})
}

// GET /api/documents/recent?limit=
func (h *DocsHandler) RecentDocuments(c *gin.Context) {
	query, ok := bindQuery[dto.RecentQuery](c)
	if !ok {
		return
	}

	items, err := h.service.RecentDocuments(c.Request.Context(), middleware.TokenFromContext(c), query.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ItemsResponse{Success: true, Items: items, Count: len(items)})
}

// POST /api/search/sessions
func (h *DocsHandler) CreateSession(c *gin.Context) {
	id, state, err := h.service.CreateSession(middleware.TokenFromContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SessionResponse{SessionID: id, State: state})
}

// PUT /api/search/sessions/:id/query - ввод клиента, поиск запустится после паузы
func (h *DocsHandler) SetSessionQuery(c *gin.Context) {
	req, ok := validated[dto.SessionQueryRequest](c)
	if !ok {
		return
	}

	state, err := h.service.SetSessionQuery(c.Param("id"), middleware.TokenFromContext(c), req.Query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.SessionResponse{SessionID: c.Param("id"), State: state})
}

// GET /api/search/sessions/:id
func (h *DocsHandler) GetSession(c *gin.Context) {
	state, err := h.service.SessionState(c.Param("id"), middleware.TokenFromContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SessionResponse{SessionID: c.Param("id"), State: state})
}

// DELETE /api/search/sessions/:id
func (h *DocsHandler) DeleteSession(c *gin.Context) {
	if err := h.service.DeleteSession(c.Param("id"), middleware.TokenFromContext(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/cache/stats
func (h *DocsHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.CacheStats(middleware.TokenFromContext(c)))
}

// DELETE /api/cache
func (h *DocsHandler) ClearCache(c *gin.Context) {
	h.service.ClearCache(c.Request.Context(), middleware.TokenFromContext(c))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
