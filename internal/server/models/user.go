// Серверные модели пользователя и товара
package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// IsAdmin сообщает, может ли пользователь управлять каталогом.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
