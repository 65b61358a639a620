package models

// статус поиска: вместо пустой выдачи при ошибке состояние явно говорит, что поиск не удался
type SearchStatus string

const (
	StatusIdle    SearchStatus = "idle"
	StatusLoading SearchStatus = "loading"
	StatusSuccess SearchStatus = "success"
	StatusError   SearchStatus = "error"
)

// снимок состояния поискового контроллера
type SearchState struct {
	Query          string       `json:"query"`
	DebouncedQuery string       `json:"debouncedQuery"`
	Results        []Item       `json:"results"`
	IsSearching    bool         `json:"isSearching"`
	Status         SearchStatus `json:"status"`
	Error          string       `json:"error,omitempty"`
}
