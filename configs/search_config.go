package configs

import "time"

// структура конфига поиска и живых поисковых сессий
type SearchConfig struct {
	DebounceDelay  time.Duration `yaml:"debounce_delay"`   // пауза ввода перед фиксацией запроса
	MinQueryLength int           `yaml:"min_query_length"` // минимальная длина запроса для похода в бэкенд
	SearchTimeout  time.Duration `yaml:"search_timeout"`   // жёсткий таймаут одного поиска
	MaxSuggestions int           `yaml:"max_suggestions"`  // максимум подсказок автодополнения
	MaxSessions    int           `yaml:"max_sessions"`     // размер LRU реестра сессий
	RecentLimit    int           `yaml:"recent_limit"`     // лимит последних документов по умолчанию
}

// функция, которая возвращает указатель на дэфолтный конфиг поиска
func DefaultSearchConfig() *SearchConfig {
	return &SearchConfig{
		DebounceDelay:  300 * time.Millisecond,
		MinQueryLength: 2,
		SearchTimeout:  10 * time.Second,
		MaxSuggestions: 5,
		MaxSessions:    1024,
		RecentLimit:    10,
	}
}
