// Package config содержит функции для работы с локальной конфигурацией shopctl.
//
// Конфигурация хранит токены и адрес сервера в файле:
//
//	~/.shopctl/credentials.json
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Credentials содержит учётные данные CLI-клиента.
//
// AccessToken применяется для авторизации запросов к серверу.
// RefreshToken применяется для обновления пары токенов.
// Email запоминается при login для вывода в подсказках.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Email        string `json:"email,omitempty"`
}

// LoggedIn сообщает, есть ли сохранённый access токен.
func (c *Credentials) LoggedIn() bool {
	return c != nil && c.AccessToken != ""
}

// DefaultPath возвращает путь <home>/.shopctl/credentials.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".shopctl", "credentials.json"), nil
}

// Load загружает конфигурацию из файла.
// Отсутствующий файл даёт пустые Credentials без ошибки.
func Load(path string) (*Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Credentials{}, nil
		}
		return nil, err
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save пишет конфигурацию в JSON: каталог 0700, файл 0600.
func Save(path string, c *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// Clear удаляет файл; отсутствие файла не ошибка.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
