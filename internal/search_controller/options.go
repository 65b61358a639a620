package search_controller

import (
	"context"
	"log/slog"
	"time"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/configs"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/domain/models"
)

// SearchFunc - функция полнотекстового поиска, которую вызывает контроллер
type SearchFunc func(ctx context.Context, query string) ([]models.Item, error)

// Options - параметры контроллера. нулевые DebounceDelay и MinQueryLength означают
// "без задержки" и "без ограничения длины", значения по умолчанию даёт DefaultOptions
type Options struct {
	DebounceDelay  time.Duration // пауза ввода перед фиксацией запроса
	MinQueryLength int           // минимальная длина зафиксированного запроса
	OnSearch       SearchFunc    // если nil - поиск через бэкенд листингов с токеном контроллера
	SearchTimeout  time.Duration // 0 - без таймаута
	MaxSuggestions int
	Logger         *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		DebounceDelay:  300 * time.Millisecond,
		MinQueryLength: 2,
		MaxSuggestions: 5,
	}
}

// OptionsFromConfig собирает опции из конфига поиска сервиса
func OptionsFromConfig(cfg *configs.SearchConfig, logger *slog.Logger) Options {
	return Options{
		DebounceDelay:  cfg.DebounceDelay,
		MinQueryLength: cfg.MinQueryLength,
		SearchTimeout:  cfg.SearchTimeout,
		MaxSuggestions: cfg.MaxSuggestions,
		Logger:         logger,
	}
}
