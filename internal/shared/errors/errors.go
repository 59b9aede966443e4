// Package errors содержит общие доменные ошибки приложения
// и утилиты для error wrapping.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое.
package errors

import (
	"errors"
	"fmt"
)

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Тело запроса не прошло валидацию схемы (длина, формат, совпадение полей)
	ErrValidation = errors.New("validation failed")
	// Неверные учётные данные
	ErrInvalidCredentials = errors.New("invalid credentials")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Неавторизован
	ErrUnauthorized = errors.New("unauthorized")
	// Нет прав (роль не подходит)
	ErrForbidden = errors.New("forbidden")
	// Ресурс уже существует (например email уже занят)
	ErrAlreadyExists = errors.New("already exists")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
	// конфликт (к примеру при повторном использовании refresh токена)
	ErrConflict = errors.New("conflict")
)

// только для загрузки файлов
var (
	ErrFileTooLarge = errors.New("file too large")
	ErrFileRequired = errors.New("image is required")
)

// Validation оборачивает ErrValidation текстом первой нарушенной проверки.
// errors.Is(err, ErrValidation) остаётся true.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
