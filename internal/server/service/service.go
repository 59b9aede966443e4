// Package service содержит бизнес-логику магазина.
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/config"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/events"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/models"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users    UsersRepo
	Sessions SessionsRepo
	Products ProductsRepo
	Health   HealthRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth     *AuthService
	Products *ProductsService
	Health   HealthRepo
}

// NewServices собирает все сервисы приложения.
//
// cfg нужен AuthService (хэшер паролей, параметры токенов).
// files и pub нужны ProductsService; pub может быть events.NopPublisher.
func NewServices(repos Repositories, files FileStore, pub EventPublisher, cfg *config.Config, log *zap.Logger) (*Services, error) {
	auth, err := NewAuthService(repos.Users, repos.Sessions, cfg)
	if err != nil {
		return nil, err
	}
	return &Services{
		Auth:     auth,
		Products: NewProductsService(repos.Products, files, pub, log),
		Health:   repos.Health,
	}, nil
}

// NewPasswordHasher выбирает реализацию хэширования пароля по конфигу.
func NewPasswordHasher(cfg config.PasswordConfig) (crypto.PasswordHasher, error) {
	switch cfg.Hasher {
	case "", "bcrypt":
		return crypto.BcryptHasher{Cost: cfg.Bcrypt.Cost}, nil
	case "argon2id":
		return crypto.Argon2Hasher{Params: crypto.Argon2Params{
			Time:      cfg.Argon2.Time,
			MemoryKiB: cfg.Argon2.MemoryKiB,
			Threads:   cfg.Argon2.Threads,
			KeyLen:    cfg.Argon2.KeyLen,
			SaltLen:   cfg.Argon2.SaltLen,
		}}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", cfg.Hasher)
	}
}

// HealthRepo — минимально нужное для health-check.
type HealthRepo interface {
	Ping(ctx context.Context) error
}

// UsersRepo — репозиторий пользователей (нужен для register/login/me).
type UsersRepo interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// SessionsRepo — refresh-сессии.
type SessionsRepo interface {
	Create(ctx context.Context, userID uuid.UUID, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error)
	GetByRefreshHash(ctx context.Context, refreshHash []byte) (models.Session, error)
	RevokeAndReplace(ctx context.Context, oldID, newID uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	RevokeByHash(ctx context.Context, userID uuid.UUID, refreshHash []byte) error
}

// ProductsRepo — каталог товаров.
type ProductsRepo interface {
	Create(ctx context.Context, p models.Product) (models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Product, error)
	Update(ctx context.Context, p models.Product) (models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) (models.Product, error)
}

// FileStore — хранилище загруженных изображений (upload.DiskStore).
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, rel string) error
}

// EventPublisher — отправка событий каталога (events.KafkaPublisher или events.NopPublisher).
type EventPublisher interface {
	Publish(ctx context.Context, ev events.ProductEvent) error
}
