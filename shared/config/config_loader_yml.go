package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// универсальня функция загрузки конфига из .yml файла (используем дженерики)
// fn - функция конструктор конфига со значениями по умолчанию
func LoadYAMLConfig[T any](configPath string, fn func() *T) (*T, error) {
	// На этом этапе в config будут значения по умолчанию, заданные в конструкторе.
	// если файл конфигурации отсутствует или пуст, у нас всё равно будет работоспособная конфигурация
	config := fn()

	// путь не задан - остаёмся на значениях по умолчанию
	if configPath == "" {
		return config, nil
	}

	// файла нет - тоже значения по умолчанию, без ошибки
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}

	// файл есть, но не читается или не парсится - это ошибка
	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}

	// пробуем анмаршалить конфиг из yml файла поверх значений по умолчанию
	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", configPath, err)
	}

	return config, nil
}
