// Package crypto содержит криптографические примитивы сервера.
//
// В частности, пакет отвечает за:
//   - генерацию, подпись и проверку JWT access-токенов;
//   - хэширование паролей (bcrypt по умолчанию, argon2id опционально);
//   - генерацию непрозрачных refresh-токенов.
package crypto

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTConfig описывает параметры генерации и проверки JWT access-токена.
type JWTConfig struct {
	// Issuer — значение поля iss (кто выдал токен).
	Issuer string
	// Audience — значение поля aud (для кого предназначен токен).
	Audience string
	// SigningKey — секретный ключ для подписи токена (HS256).
	// Должен быть достаточно длинным и случайным.
	SigningKey string
	// AccessTTL — срок жизни access-токена.
	AccessTTL time.Duration
}

// Identity — то, что access-токен говорит о пользователе.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

// AccessClaims — payload access-токена.
//
// Помимо стандартных RegisteredClaims токен несёт _id и role,
// sub дублирует _id.
type AccessClaims struct {
	ID   string `json:"_id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewAccessToken создаёт и подписывает JWT access-токен для пользователя.
//
// Токен содержит:
//   - _id и role
//   - iss (Issuer), aud (Audience), sub (userID)
//   - iat (IssuedAt), exp (ExpiresAt)
//
// Используется алгоритм подписи HS256.
func NewAccessToken(id Identity, cfg JWTConfig) (string, error) {
	now := time.Now()

	claims := AccessClaims{
		ID:   id.UserID.String(),
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  []string{cfg.Audience},
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(cfg.SigningKey))
}

// ErrInvalidToken возвращается ParseAccessToken для любого невалидного токена,
// кроме просроченного (для него возвращается jwt.ErrTokenExpired в цепочке).
var ErrInvalidToken = errors.New("invalid token")

// ParseAccessToken проверяет подпись и claims токена и возвращает Identity.
//
// Проверяется:
//   - алгоритм (только HS256)
//   - срок жизни
//   - issuer и audience, если они заданы в cfg
//   - _id — валидный UUID
func ParseAccessToken(token string, cfg JWTConfig) (Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	claims := &AccessClaims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.SigningKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, err
		}
		return Identity{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(strings.TrimSpace(claims.ID))
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	return Identity{UserID: userID, Role: claims.Role}, nil
}
