package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDateRange = errors.New("invalid date range")

// Структура документа или папки в облачном хранилище (то, что отдаёт бэкенд листингов)
type Item struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MimeType     string   `json:"mimeType,omitempty"`
	ModifiedTime string   `json:"modifiedTime"` // ISO-8601
	Size         string   `json:"size,omitempty"`
	WebViewLink  string   `json:"webViewLink,omitempty"`
	Parents      []string `json:"parents,omitempty"`
}

// ModifiedAt разбирает ModifiedTime (RFC3339 или просто дата)
func (i Item) ModifiedAt() (time.Time, error) {
	return ParseTimestamp(i.ModifiedTime)
}

// общая структура параметров запроса листинга документов
type DocumentQuery struct {
	Query    string
	FolderID string
	MimeType string
	Status   string
	Recent   bool
	Limit    int
}

// границы диапазона дат (включительно)
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Bounds разбирает и проверяет границы диапазона
func (r DateRange) Bounds() (time.Time, time.Time, error) {
	start, err := ParseTimestamp(r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start %q", ErrInvalidDateRange, r.Start)
	}
	end, err := ParseTimestamp(r.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %q", ErrInvalidDateRange, r.End)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidDateRange, r.End, r.Start)
	}
	return start, end, nil
}

// структурный фильтр поверх текстового запроса
type Filter struct {
	MimeType  string     `json:"mimeType,omitempty"`
	FolderID  string     `json:"folderId,omitempty"`
	Status    string     `json:"status,omitempty"`
	DateRange *DateRange `json:"dateRange,omitempty"`
}

// форматы дат, которые принимаются в modifiedTime и в границах диапазона
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp разбирает дату в одном из поддерживаемых форматов
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", value)
}
