// Package models содержит DTO HTTP API, общие для сервера и CLI-клиента.
package models

import "time"

// RegisterRequest — тело запроса регистрации.
//
// Используется в:
//
//	POST /register
type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeat_password"`
}

// LoginRequest — тело запроса входа.
//
// Используется в:
//
//	POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest — тело запроса обновления токенов и выхода.
//
// Используется в:
//
//	POST /refresh
//	POST /logout
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse — ответ регистрации, входа и refresh.
//
// AccessToken подписан HS256 и содержит claims _id и role.
// RefreshToken — непрозрачная строка, на сервере хранится только её хэш.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Profile — публичное представление пользователя (GET /me).
// Хэш пароля наружу никогда не отдаётся.
type Profile struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Product — представление товара в API.
//
// Image — путь к файлу относительно корня загрузок, например "uploads/1700000000000-42.png".
// Файл доступен по GET /<image>.
type Product struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Size      string    `json:"size"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrorResponse — стандартный формат ошибки API.
type ErrorResponse struct {
	Error string `json:"error"`
}
