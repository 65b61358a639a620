package jwt_service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// создаём новый парсер, который учитываем метод шифрования и подтверждение срока действия
var parser = jwt.NewParser(
	jwt.WithValidMethods([]string{"HS256"}), // проверять токлько наличие метода шифрования HS256
	jwt.WithExpirationRequired(),            // проверка наличия срока действия токена
)

// EnvAccessSecret - переменная окружения с секретом access токена
const EnvAccessSecret = "JWT_ACCESS_SECRET"

// LoadJWTConfig - загрузка конфига JWT. без файла и без секрета проверка токенов выключена,
// токен клиента просто пробрасывается в бэкенд
func LoadJWTConfig(configPath string) (*JWTConfig, error) {
	config := JWTConfig{
		AccessTokenExp: 15 * time.Minute,
		Issuer:         "bmv-docs",
	}

	if configPath != "" {
		yamlFile, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read JWT config: %w", err)
		}
		if err := yaml.Unmarshal(yamlFile, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JWT config: %w", err)
		}
	}

	config.SecretAccKey = os.Getenv(EnvAccessSecret)
	if configPath == "" && config.SecretAccKey != "" {
		config.Enabled = true
	}
	if !config.Enabled {
		return &config, nil
	}

	// ВАЛИДАЦИЯ (самое важное!)
	if err := validateJWTConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid JWT config: %w", err)
	}
	return &config, nil
}

// validateJWTConfig - строгая валидация
func validateJWTConfig(cfg *JWTConfig) error {
	if cfg.SecretAccKey == "" {
		return fmt.Errorf("%s is required", EnvAccessSecret)
	}
	// минимальная длина ключа (рекомендация: 32+ символа)
	if len(cfg.SecretAccKey) < 32 {
		return fmt.Errorf("access secret too short (min 32 chars)")
	}
	if cfg.AccessTokenExp <= 0 {
		return fmt.Errorf("access_token_expiry must be positive")
	}
	if cfg.AccessTokenExp > 24*time.Hour {
		return fmt.Errorf("access_token_expiry too long (max 24h)")
	}
	return nil
}

// вспомогательная функция для создании структуры информации для JWT
func NewClaims(tokenExp time.Duration, userID, email, tokenType, issuer string) CustomClaims {
	now := time.Now()
	return CustomClaims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   userID,
			ID:        uuid.New().String(),
		},
	}
}

// вспомогательная фукнция парсинга токена с клэймами
func ParseTokenWithClaims(ctx context.Context, tokenString string, key string) (*CustomClaims, error) {
	// Проверяем не отменен ли контекст
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token, err := parser.ParseWithClaims(
		tokenString,
		&CustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(key), nil
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims structure")
	}
	return claims, nil
}
