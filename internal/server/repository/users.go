package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-shop-api/internal/shared/errors"
)

type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create вставляет пользователя и возвращает его с id и created_at из БД.
//
// Уникальность email обеспечивает индекс users_email_key: повторная регистрация
// приходит сюда как unique_violation и превращается в ErrAlreadyExists.
func (r *UsersRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash, role)
		 VALUES ($1,$2,$3,$4)
		 RETURNING id, created_at`,
		u.Name, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt)

	if err != nil {
		return models.User{}, mapError(err, serr.ErrInternal, serr.ErrAlreadyExists)
	}

	return u, nil
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx,
		`SELECT id, name, email, password_hash, role, created_at FROM users WHERE email=$1`,
		email,
	)
}

func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return r.getOne(ctx,
		`SELECT id, name, email, password_hash, role, created_at FROM users WHERE id=$1`,
		id,
	)
}

func (r *UsersRepository) getOne(ctx context.Context, query string, arg any) (models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return models.User{}, mapError(err, serr.ErrNotFound, serr.ErrInternal)
	}
	return u, nil
}
