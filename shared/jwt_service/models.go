package jwt_service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService - рабочий сервис с методами
type JWTService struct {
	config *JWTConfig // Конфиг внутри сервиса
}

// Конфигурация JWTConfig
type JWTConfig struct {
	Enabled        bool          `yaml:"enabled"`             // проверять ли bearer токены на входе в шлюз
	SecretAccKey   string        `yaml:"-"`                   // секретный ключ для access токена, только из окружения
	AccessTokenExp time.Duration `yaml:"access_token_expiry"` // время жизни для access токена (обычно около 15 мин)
	Issuer         string        `yaml:"issuer"`              // кто выпускает токены
}

// CustomClaims для JWT
type CustomClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"type"` // "access"
	jwt.RegisteredClaims
}
