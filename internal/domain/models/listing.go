package models

// ответ бэкенда на запрос листинга документов
type DocumentsResponse struct {
	Success   bool   `json:"success"`
	Documents []Item `json:"documents"`
	Document  *Item  `json:"document,omitempty"` // для мутаций
	Error     string `json:"error,omitempty"`
}

// ответ бэкенда на запрос листинга папок
type FoldersResponse struct {
	Success bool   `json:"success"`
	Folders []Item `json:"folders"`
	Folder  *Item  `json:"folder,omitempty"`
	Error   string `json:"error,omitempty"`
}

// данные для создания или обновления документа
type DocumentInput struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType,omitempty"`
	FolderID string `json:"folderId,omitempty"`
	Content  string `json:"content,omitempty"`
}

// данные для создания папки
type FolderInput struct {
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}
