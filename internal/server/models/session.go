package models

import (
	"time"

	"github.com/google/uuid"
)

// Session — refresh-сессия пользователя. Сам токен не хранится, только его sha256.
type Session struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ExpiresAt  time.Time
	RevokedAt  *time.Time // nil если активна
	ReplacedBy *uuid.UUID // nil если не была заменена при rotation
}

// Active сообщает, можно ли обменять сессию на новую пару токенов в момент now.
func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}
