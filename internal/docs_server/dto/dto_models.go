// описание моделей запросов и ответов шлюза документов
package dto

import "github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/domain/models"

// параметры листинга документов (query string)
type ListDocumentsQuery struct {
	FolderID string `form:"folderId" validate:"max=256"`
	MimeType string `form:"mimeType" validate:"max=128"`
	Query    string `form:"q" validate:"max=256"`
	Status   string `form:"status" validate:"max=64"`
	Recent   bool   `form:"recent"`
	Limit    int    `form:"limit" validate:"min=0,max=1000"`
}

// ToDomain переводит параметры в запрос к бэкенду
func (q ListDocumentsQuery) ToDomain() models.DocumentQuery {
	return models.DocumentQuery{
		Query:    q.Query,
		FolderID: q.FolderID,
		MimeType: q.MimeType,
		Status:   q.Status,
		Recent:   q.Recent,
		Limit:    q.Limit,
	}
}

// параметры листинга папок
type ListFoldersQuery struct {
	ParentID string `form:"parentId" validate:"max=256"`
}

// параметры, которые сужают инвалидацию при удалении
type DeleteScopeQuery struct {
	FolderID string `form:"folderId" validate:"max=256"`
	ParentID string `form:"parentId" validate:"max=256"`
}

// параметры автодополнения и последних документов
type SuggestionsQuery struct {
	Query string `form:"q" validate:"required,max=256"`
}

type RecentQuery struct {
	Limit int `form:"limit" validate:"min=0,max=100"`
}

// тело запроса создания/обновления документа
type DocumentRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	MimeType string `json:"mimeType" validate:"max=128"`
	FolderID string `json:"folderId" validate:"max=256"`
	Content  string `json:"content"`
}

func (r DocumentRequest) ToDomain() models.DocumentInput {
	return models.DocumentInput{
		Name:     r.Name,
		MimeType: r.MimeType,
		FolderID: r.FolderID,
		Content:  r.Content,
	}
}

// тело запроса создания папки
type FolderRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	ParentID string `json:"parentId" validate:"max=256"`
}

func (r FolderRequest) ToDomain() models.FolderInput {
	return models.FolderInput{Name: r.Name, ParentID: r.ParentID}
}

// тело запроса поиска с фильтрами
type SearchRequest struct {
	Query  string        `json:"query" validate:"max=256"`
	Filter models.Filter `json:"filters"`
}

// тело запроса обновления живого запроса сессии
type SessionQueryRequest struct {
	Query string `json:"query" validate:"max=256"`
}

// ответы
type ItemsResponse struct {
	Success bool          `json:"success"`
	Items   []models.Item `json:"items"`
	Count   int           `json:"count"`
}

type ItemResponse struct {
	Success bool        `json:"success"`
	Item    models.Item `json:"item"`
}

type SuggestionsResponse struct {
	Success     bool     `json:"success"`
	Suggestions []string `json:"suggestions"`
}

type SessionResponse struct {
	SessionID string             `json:"sessionId"`
	State     models.SearchState `json:"state"`
}
