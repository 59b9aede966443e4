package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/config"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/validate"
	serr "github.com/IvanChernomyrdin/go-shop-api/internal/shared/errors"
)

// AuthService реализует бизнес-логику аутентификации и управления сессиями.
//
// Ответственность:
//   - регистрация пользователей
//   - аутентификация (логин)
//   - выпуск access / refresh токенов
//   - обновление access токенов по refresh (rotation + reuse detection)
//   - logout
type AuthService struct {
	users    UsersRepo
	sessions SessionsRepo

	hasher crypto.PasswordHasher
	jwt    crypto.JWTConfig

	refreshTTL     time.Duration
	rotateRefresh  bool
	reuseDetection bool
	adminEmails    []string

	now func() time.Time
}

// TokenPair представляет пару access / refresh токенов.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
func NewAuthService(users UsersRepo, sessions SessionsRepo, cfg *config.Config) (*AuthService, error) {
	hasher, err := NewPasswordHasher(cfg.Password)
	if err != nil {
		return nil, err
	}

	admins := make([]string, 0, len(cfg.Auth.AdminEmails))
	for _, e := range cfg.Auth.AdminEmails {
		admins = append(admins, normalizeEmail(e))
	}

	return &AuthService{
		users:    users,
		sessions: sessions,

		hasher: hasher,
		jwt: crypto.JWTConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: cfg.Auth.JWT.SigningKey,
			AccessTTL:  cfg.Auth.AccessTTL,
		},

		refreshTTL:     cfg.Auth.RefreshTTL,
		rotateRefresh:  cfg.Auth.RotateRefresh,
		reuseDetection: cfg.Auth.ReuseDetection,
		adminEmails:    admins,

		now: time.Now,
	}, nil
}

// Register регистрирует нового пользователя и сразу выдаёт ему токены.
//
// Порядок: валидация → хэш пароля → вставка → токены. Занятость email
// не проверяется отдельным запросом: её сообщает уникальный индекс при вставке.
//
// Ошибки:
//   - ErrValidation при некорректных данных
//   - ErrAlreadyExists если email уже зарегистрирован
func (s *AuthService) Register(ctx context.Context, in validate.Register) (TokenPair, error) {
	if err := validate.Struct(in); err != nil {
		return TokenPair{}, err
	}

	email := normalizeEmail(in.Email)

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return TokenPair{}, serr.ErrInternal
	}

	role := models.RoleCustomer
	if slices.Contains(s.adminEmails, email) {
		role = models.RoleAdmin
	}

	user, err := s.users.Create(ctx, models.User{
		Name:         in.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return TokenPair{}, err
	}

	return s.issue(ctx, user)
}

// Login аутентифицирует пользователя и выдаёт пару токенов.
//
// Не раскрывает факт существования email: неизвестный email и
// неверный пароль дают одну и ту же ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in validate.Login) (TokenPair, error) {
	if err := validate.Struct(in); err != nil {
		return TokenPair{}, err
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return TokenPair{}, serr.ErrInvalidCredentials
		}
		return TokenPair{}, err
	}

	ok, err := s.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		return TokenPair{}, serr.ErrInternal
	}
	if !ok {
		return TokenPair{}, serr.ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

// Me возвращает пользователя, которому принадлежит access-токен.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (models.User, error) {
	if userID == uuid.Nil {
		return models.User{}, serr.ErrUnauthorized
	}
	return s.users.GetByID(ctx, userID)
}

// Refresh обменивает refresh токен на новую пару.
//
// Поддерживает:
//   - rotation refresh токенов
//   - reuse detection (отзыв всех сессий при повторном использовании)
//
// Роль берётся из БД заново, поэтому смена роли видна после refresh.
func (s *AuthService) Refresh(ctx context.Context, in validate.Refresh) (TokenPair, error) {
	if err := validate.Struct(in); err != nil {
		return TokenPair{}, err
	}
	refreshToken := strings.TrimSpace(in.RefreshToken)

	sess, err := s.sessions.GetByRefreshHash(ctx, crypto.HashRefreshToken(refreshToken))
	if err != nil {
		return TokenPair{}, err
	}

	now := s.now()
	if !sess.ExpiresAt.After(now) {
		return TokenPair{}, serr.ErrUnauthorized
	}

	// токен уже отозван: кто-то пытается его переиспользовать
	if sess.RevokedAt != nil {
		if s.reuseDetection {
			if err := s.sessions.RevokeAllForUser(ctx, sess.UserID); err != nil {
				return TokenPair{}, err
			}
		}
		return TokenPair{}, serr.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return TokenPair{}, serr.ErrUnauthorized
		}
		return TokenPair{}, err
	}

	access, err := s.accessToken(user)
	if err != nil {
		return TokenPair{}, err
	}

	if !s.rotateRefresh {
		return TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
	}

	newRefresh, newID, err := s.newSession(ctx, user.ID, now)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.sessions.RevokeAndReplace(ctx, sess.ID, newID); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: newRefresh}, nil
}

// Logout отзывает refresh-сессию пользователя.
// Пустой refreshToken означает выход со всех устройств.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	if userID == uuid.Nil {
		return serr.ErrUnauthorized
	}

	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return s.sessions.RevokeAllForUser(ctx, userID)
	}
	return s.sessions.RevokeByHash(ctx, userID, crypto.HashRefreshToken(refreshToken))
}

// issue выдаёт access токен с _id и role пользователя и открывает новую refresh-сессию.
func (s *AuthService) issue(ctx context.Context, user models.User) (TokenPair, error) {
	access, err := s.accessToken(user)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := s.newSession(ctx, user.ID, s.now())
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) accessToken(user models.User) (string, error) {
	token, err := crypto.NewAccessToken(crypto.Identity{UserID: user.ID, Role: user.Role}, s.jwt)
	if err != nil {
		return "", serr.ErrInternal
	}
	return token, nil
}

func (s *AuthService) newSession(ctx context.Context, userID uuid.UUID, now time.Time) (string, uuid.UUID, error) {
	refresh, err := crypto.NewRefreshToken()
	if err != nil {
		return "", uuid.Nil, serr.ErrInternal
	}
	id, err := s.sessions.Create(ctx, userID, crypto.HashRefreshToken(refresh), now.Add(s.refreshTTL))
	if err != nil {
		return "", uuid.Nil, err
	}
	return refresh, id, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
