package jwt_service

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type JWTManager interface {
	GenerateAccessToken(userID, email string) (string, error)
	ParseAccessToken(ctx context.Context, tokenString string) (*CustomClaims, error)
}

// NewJWTService создаёт рабочий сервис с конфигом
func NewJWTService(config *JWTConfig) *JWTService {
	return &JWTService{
		config: config,
	}
}

// метод выпускает access токен (для сервисных учёток и cli)
func (j *JWTService) GenerateAccessToken(userID, email string) (string, error) {
	claims := NewClaims(j.config.AccessTokenExp, userID, email, "access", j.config.Issuer)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SecretAccKey))
}

// метод проверяет подпись и срок access токена
func (j *JWTService) ParseAccessToken(ctx context.Context, tokenString string) (*CustomClaims, error) {
	claims, err := ParseTokenWithClaims(ctx, tokenString, j.config.SecretAccKey)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "access" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
