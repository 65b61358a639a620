package configs

import (
	"time"
)

// структура конфига кэшей листингов
type CachesConfig struct {
	DocumentsTTL   time.Duration `yaml:"documents_ttl"`   // время жизни листингов документов
	FoldersTTL     time.Duration `yaml:"folders_ttl"`     // время жизни листингов папок
	SearchTTL      time.Duration `yaml:"search_ttl"`      // время жизни поисковых выдач (с q=)
	SharedCacheTTL time.Duration `yaml:"shared_cache_ttl"` // время жизни записей в redis
}

// функция, которая возвращает указатель на дэфолтный конфиг для кэшей
func DefaultCacheConfig() *CachesConfig {
	return &CachesConfig{
		DocumentsTTL:   5 * time.Minute,
		FoldersTTL:     5 * time.Minute,
		SearchTTL:      time.Minute,
		SharedCacheTTL: 10 * time.Minute,
	}
}
