package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/jwt_service"
)

// ключи gin контекста
const (
	ContextTokenKey = "access_token"
	ContextEmailKey = "user_email"
)

var ErrBearerFormat = errors.New("Invalid authorization header format")

// AuthMiddleware достаёт bearer токен и кладёт его в контекст для проброса в бэкенд.
// при включённой проверке токен обязателен и должен быть подписан нашим ключом
func AuthMiddleware(config *jwt_service.JWTConfig, logger *slog.Logger) gin.HandlerFunc {
	var svc *jwt_service.JWTService
	if config != nil && config.Enabled {
		svc = jwt_service.NewJWTService(config)
	}

	return func(c *gin.Context) {
		// Получаем токен из заголовка
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			if svc != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
				return
			}
			c.Next()
			return
		}

		// Проверяем формат "Bearer <token>"
		tokenString, err := CheckBearerFormat(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		if svc != nil {
			claims, err := svc.ParseAccessToken(c.Request.Context(), tokenString)
			if err != nil {
				logger.Debug("invalid token", slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
				return
			}
			c.Set(ContextEmailKey, claims.Email)
		}

		c.Set(ContextTokenKey, tokenString)
		c.Next()
	}
}

func CheckBearerFormat(authHeader string) (string, error) {
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", ErrBearerFormat
	}
	return token, nil
}

// TokenFromContext возвращает токен, сохранённый AuthMiddleware (или пустую строку)
func TokenFromContext(c *gin.Context) string {
	return c.GetString(ContextTokenKey)
}
