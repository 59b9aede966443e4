// Package api содержит HTTP-клиент для взаимодействия с сервером магазина.
//
// Клиент инкапсулирует базовый URL сервера и настроенный http.Client,
// предоставляя методы для JSON-запросов (POST/GET/PUT/DELETE) и multipart-загрузки
// с авторизацией через Bearer токен.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - По умолчанию добавляется заголовок Accept: application/json.
//   - При ответах 204 No Content тело не читается и это считается успехом.
//   - Пустое тело ответа (EOF при декодировании) не считается ошибкой.
//   - При ответах не 2xx возвращается *Error со статусом и текстом из поля "error"
//     (если тело не JSON, используется сырой текст или res.Status).
//
// ВНИМАНИЕ: NewClient включает InsecureSkipVerify=true (TLS сертификат не проверяется).
// Допустимо только для локального окружения с самоподписанным сертификатом.
package api

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sharedModels "github.com/IvanChernomyrdin/go-shop-api/internal/shared/models"
)

// Client реализует HTTP-клиент для общения с сервером.
type Client struct {
	baseURL string
	http    *http.Client
}

// Error — неуспешный ответ сервера.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// NewClient создаёт HTTP-клиент с таймаутом 30 секунд
// (загрузка картинки до 5 МБ по медленному каналу).
func NewClient(baseURL string) *Client {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // только для dev
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: tr,
		},
	}
}

// readAPIError разбирает тело ошибочного ответа.
func readAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)

	var body sharedModels.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return &Error{Status: res.StatusCode, Message: body.Error}
	}

	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = res.Status
	}
	return &Error{Status: res.StatusCode, Message: msg}
}

// decodeJSONOrOK декодирует JSON из r в resp; пустое тело не ошибка.
func decodeJSONOrOK(r io.Reader, resp any) error {
	if resp == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// do отправляет запрос и обрабатывает ответ одинаково для всех методов.
func (c *Client) do(method, path string, body io.Reader, contentType string, resp any, authToken string) error {
	r, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	r.Header.Set("Accept", "application/json")
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readAPIError(res)
	}

	// 204/пустое тело — ок
	if res.StatusCode == http.StatusNoContent {
		return nil
	}

	return decodeJSONOrOK(res.Body, resp)
}

func (c *Client) sendJSON(method, path string, req, resp any, authToken string) error {
	if req == nil {
		return c.do(method, path, nil, "", resp, authToken)
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return err
	}
	return c.do(method, path, &buf, "application/json", resp, authToken)
}

// PostJSON выполняет POST-запрос, сериализуя req в JSON.
// Если req == nil, тело не отправляется и Content-Type не ставится.
func (c *Client) PostJSON(path string, req any, resp any, authToken string) error {
	return c.sendJSON(http.MethodPost, path, req, resp, authToken)
}

// GetJSON выполняет GET-запрос и (опционально) декодирует JSON-ответ.
func (c *Client) GetJSON(path string, resp any, authToken string) error {
	return c.do(http.MethodGet, path, nil, "", resp, authToken)
}

// PutJSON выполняет PUT-запрос, сериализуя req в JSON.
func (c *Client) PutJSON(path string, req any, resp any, authToken string) error {
	return c.sendJSON(http.MethodPut, path, req, resp, authToken)
}

// DeleteJSON выполняет DELETE-запрос и (опционально) декодирует JSON-ответ.
func (c *Client) DeleteJSON(path string, resp any, authToken string) error {
	return c.do(http.MethodDelete, path, nil, "", resp, authToken)
}
