package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-shop-api/internal/shared/errors"
)

const sessionColumns = `id, user_id, expires_at, revoked_at, replaced_by`

// SessionsRepository хранит refresh-сессии. Сам токен в базу не попадает, только его sha256.
type SessionsRepository struct {
	db *sql.DB
}

func NewSessionsRepository(db *sql.DB) *SessionsRepository {
	return &SessionsRepository{db: db}
}

// Create открывает сессию и возвращает её id.
// Совпадение refresh_hash (уникальный индекс) даёт ErrConflict.
func (r *SessionsRepository) Create(ctx context.Context, userID uuid.UUID, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error) {
	const q = `INSERT INTO sessions (user_id, refresh_hash, expires_at) VALUES ($1, $2, $3) RETURNING id`

	var id uuid.UUID
	if err := r.db.QueryRowContext(ctx, q, userID, refreshHash, expiresAt).Scan(&id); err != nil {
		return uuid.Nil, mapError(err, serr.ErrInternal, serr.ErrConflict)
	}
	return id, nil
}

// GetByRefreshHash ищет сессию по хэшу, в том числе отозванную:
// по revoked_at сервис распознаёт повторное использование токена.
// Неизвестный хэш — ErrUnauthorized.
func (r *SessionsRepository) GetByRefreshHash(ctx context.Context, refreshHash []byte) (models.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM sessions WHERE refresh_hash = $1`

	var (
		s        models.Session
		revoked  sql.NullTime
		replaced uuid.NullUUID
	)
	err := r.db.QueryRowContext(ctx, q, refreshHash).
		Scan(&s.ID, &s.UserID, &s.ExpiresAt, &revoked, &replaced)
	if err != nil {
		return models.Session{}, mapError(err, serr.ErrUnauthorized, serr.ErrInternal)
	}

	if revoked.Valid {
		s.RevokedAt = &revoked.Time
	}
	if replaced.Valid {
		s.ReplacedBy = &replaced.UUID
	}
	return s, nil
}

// RevokeAndReplace закрывает сессию oldID при ротации, replaced_by указывает на новую.
func (r *SessionsRepository) RevokeAndReplace(ctx context.Context, oldID, newID uuid.UUID) error {
	_, err := r.revoke(ctx, `replaced_by = $2, `, `id = $1`, oldID, newID)
	return err
}

// RevokeAllForUser закрывает все живые сессии пользователя (logout везде, reuse detection).
func (r *SessionsRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.revoke(ctx, ``, `user_id = $1`, userID)
	return err
}

// RevokeByHash закрывает одну сессию пользователя.
// Чужой, уже отозванный или неизвестный токен — ErrUnauthorized.
func (r *SessionsRepository) RevokeByHash(ctx context.Context, userID uuid.UUID, refreshHash []byte) error {
	n, err := r.revoke(ctx, ``, `user_id = $1 AND refresh_hash = $2`, userID, refreshHash)
	if err != nil {
		return err
	}
	if n == 0 {
		return serr.ErrUnauthorized
	}
	return nil
}

// revoke проставляет revoked_at только ещё активным сессиям и возвращает число затронутых строк.
func (r *SessionsRepository) revoke(ctx context.Context, set, where string, args ...any) (int64, error) {
	q := `UPDATE sessions SET ` + set + `revoked_at = now() WHERE ` + where + ` AND revoked_at IS NULL`

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, serr.ErrInternal
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, serr.ErrInternal
	}
	return n, nil
}
