package search_controller

import (
	"slices"
	"strings"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/domain/models"
)

// FilterByDateRange оставляет элементы, у которых modifiedTime попадает в диапазон включительно.
// элементы с неразборчивой датой отбрасываются
func FilterByDateRange(items []models.Item, dateRange models.DateRange) ([]models.Item, error) {
	start, end, err := dateRange.Bounds()
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Item, 0, len(items))
	for _, item := range items {
		modified, err := item.ModifiedAt()
		if err != nil {
			continue
		}
		if modified.Before(start) || modified.After(end) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

// локальный фильтр для пользовательской функции поиска, которая не принимает параметры бэкенда.
// status у элементов нет, поэтому он здесь не учитывается
func filterLocally(items []models.Item, filter models.Filter) []models.Item {
	if filter.MimeType == "" && filter.FolderID == "" {
		return items
	}
	filtered := make([]models.Item, 0, len(items))
	for _, item := range items {
		if filter.MimeType != "" && item.MimeType != filter.MimeType {
			continue
		}
		if filter.FolderID != "" && !slices.Contains(item.Parents, filter.FolderID) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// до limit уникальных имён, содержащих query без учёта регистра, в порядке выдачи
func suggestionNames(items []models.Item, query string, limit int) []string {
	needle := strings.ToLower(query)
	seen := make(map[string]struct{}, limit)
	names := make([]string, 0, limit)

	for _, item := range items {
		if len(names) >= limit {
			break
		}
		if !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		if _, dup := seen[item.Name]; dup {
			continue
		}
		seen[item.Name] = struct{}{}
		names = append(names, item.Name)
	}
	return names
}
