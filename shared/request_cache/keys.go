package request_cache

import (
	"fmt"
	"sort"
	"strings"
)

// ParamValue ограничивает типы значений параметров ключа
type ParamValue interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// Params - параметры запроса, из которых строится ключ кэша
type Params = map[string]string

// Param приводит значение к строке простой интерполяцией
func Param[T ParamValue](v T) string {
	return fmt.Sprint(v)
}

// функция генерации ключа кэша: prefix:key1=val1&key2=val2.
// имена параметров сортируются, поэтому порядок заполнения карты на ключ не влияет
func GenerateKey(prefix string, params Params) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var builder strings.Builder
	builder.WriteString(prefix)
	builder.WriteString(":")
	for i, name := range names {
		if i > 0 {
			builder.WriteString("&")
		}
		builder.WriteString(name)
		builder.WriteString("=")
		builder.WriteString(params[name])
	}
	return builder.String()
}

// KeyHasParam проверяет, что ключ с заданным префиксом содержит пару param=value
func KeyHasParam(key, prefix, param, value string) bool {
	rest, ok := strings.CutPrefix(key, prefix+":")
	if !ok {
		return false
	}
	pair := param + "=" + value
	for _, part := range strings.Split(rest, "&") {
		if part == pair {
			return true
		}
	}
	return false
}
