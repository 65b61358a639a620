package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/domain/models"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/listing_backend"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/search_sessions"
)

type APIError struct {
	Code    string `json:"code"`    // для фронтенда: "INVALID_DATE_RANGE"
	Message string `json:"message"` // для пользователя
	Field   string `json:"field,omitempty"`
}

// функция - маппер для формирования нужного результата в зависимости от типа кастомной ошибки
func ToAPIError(err error) (int, APIError) {
	var backendErr *listing_backend.BackendError

	switch {
	case errors.Is(err, models.ErrInvalidDateRange):
		return http.StatusBadRequest, APIError{
			Code:    "INVALID_DATE_RANGE",
			Message: err.Error(),
			Field:   "filters.dateRange",
		}
	case errors.Is(err, search_sessions.ErrSessionNotFound):
		return http.StatusNotFound, APIError{
			Code:    "SESSION_NOT_FOUND",
			Message: "Search session not found",
		}
	case errors.Is(err, listing_backend.ErrUnavailable):
		return http.StatusServiceUnavailable, APIError{
			Code:    "BACKEND_UNAVAILABLE",
			Message: "Document storage is temporarily unavailable",
		}
	case errors.As(err, &backendErr) && backendErr.Status == http.StatusUnauthorized:
		return http.StatusUnauthorized, APIError{
			Code:    "BACKEND_UNAUTHORIZED",
			Message: backendErr.Message,
		}
	case errors.As(err, &backendErr) && backendErr.Status == http.StatusNotFound:
		return http.StatusNotFound, APIError{
			Code:    "NOT_FOUND",
			Message: backendErr.Message,
		}
	case errors.Is(err, listing_backend.ErrBackend):
		return http.StatusBadGateway, APIError{
			Code:    "BACKEND_ERROR",
			Message: err.Error(),
		}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, APIError{
			Code:    "TIMEOUT",
			Message: "Document storage did not respond in time",
		}
	default:
		return http.StatusInternalServerError, APIError{
			Code:    "INTERNAL_ERROR",
			Message: "Something went wrong",
		}
	}
}
