package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"UpNepa/internal/contracts"
)

// bearerPrefix — префикс токена в заголовке Authorization и в ответе /register
const bearerPrefix = "Bearer "

// AuthService выпускает и проверяет JWT токены доступа
type AuthService struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthService создает новый экземпляр AuthService
func NewAuthService(secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// IssueToken выпускает токен для пользователя в формате "Bearer <jwt>".
// Субъектом токена служит идентификатор пользователя.
func (s *AuthService) IssueToken(user *contracts.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return bearerPrefix + signed, nil
}

// ParseToken проверяет токен и возвращает идентификатор пользователя.
// Префикс "Bearer " допускается и отбрасывается.
func (s *AuthService) ParseToken(tokenString string) (string, error) {
	tokenString = strings.TrimPrefix(tokenString, bearerPrefix)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("ошибка разбора токена: %w", err)
	}

	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("токен недействителен")
	}

	return claims.Subject, nil
}
