package middleware

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator"
)

const ContextValidatedKey = "validatedData"

// создаём экзмепляр валидатора (чтобы он создавался в памяти только при загрузке модуля)
var validate = validator.New()

// ValidateMiddleware разбирает JSON тело в новый экземпляр model и валидирует его по тэгам
func ValidateMiddleware(model interface{}) gin.HandlerFunc {
	modelType := reflect.TypeOf(model).Elem()

	return func(c *gin.Context) {
		// Создаем новый экземпляр структуры для валидации
		request := reflect.New(modelType).Interface()

		// Парсим БЕЗ встроенной валидации Gin
		if err := c.ShouldBindBodyWith(request, binding.JSON); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "Invalid JSON format",
				"code":  "INVALID_JSON",
			})
			return
		}

		if details := ValidateStruct(request); details != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "Validation failed",
				"details": details,
			})
			return
		}

		// Сохраняем валидированные данные в контекст для использования в обработчике
		c.Set(ContextValidatedKey, request)
		c.Next()
	}
}

// ValidateStruct возвращает поле -> тэг для всех нарушений, nil если всё ок
func ValidateStruct(request interface{}) map[string]string {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}
	details := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		details["_"] = err.Error()
		return details
	}
	for _, fieldErr := range validationErrors {
		details[fieldErr.Field()] = fieldErr.Tag()
	}
	return details
}

// ValidatedData достаёт из контекста данные, проверенные ValidateMiddleware
func ValidatedData[T any](c *gin.Context) (*T, bool) {
	raw, exists := c.Get(ContextValidatedKey)
	if !exists {
		return nil, false
	}
	data, ok := raw.(*T)
	return data, ok
}
