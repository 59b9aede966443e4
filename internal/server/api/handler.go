// Package api реализует HTTP-слой сервера магазина.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - разбор JSON и multipart-тел с ограничением размера;
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-shop-api/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-shop-api/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-shop-api/internal/shared/models"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// Лимиты тел запросов по умолчанию.
const (
	DefaultMaxBodyBytes   int64 = 1 << 20
	DefaultMaxUploadBytes int64 = 5 * 1000 * 1000
	// запас на текстовые поля и заголовки частей multipart
	multipartOverhead int64 = 1 << 20
)

// Limits — ограничения размеров тел запросов.
type Limits struct {
	MaxBodyBytes   int64 // JSON
	MaxUploadBytes int64 // один файл в multipart
}

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: компонент проверки JWT и middleware авторизации;
//   - Limits: лимиты размеров тел.
type Handler struct {
	Svc      *service.Services
	Log      *logger.HTTPLogger
	Verifier *middleware.JWTVerifier
	Limits   Limits
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
// Нулевые лимиты заменяются значениями по умолчанию.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, verifier *middleware.JWTVerifier, limits Limits) *Handler {
	if limits.MaxBodyBytes <= 0 {
		limits.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if limits.MaxUploadBytes <= 0 {
		limits.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		Svc:      svc,
		Log:      log,
		Verifier: verifier,
		Limits:   limits,
	}
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, models.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError — единая точка перевода доменных ошибок в HTTP.
// 5xx логируются, текст внутренней ошибки наружу не уходит.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, serr.ErrBadJSON), errors.Is(err, serr.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, err)
	case errors.Is(err, serr.ErrValidation):
		WriteError(w, http.StatusUnprocessableEntity, errors.New(validationMessage(err)))
	case errors.Is(err, serr.ErrFileRequired):
		WriteError(w, http.StatusUnprocessableEntity, serr.ErrFileRequired)
	case errors.Is(err, serr.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, serr.ErrInvalidCredentials)
	case errors.Is(err, serr.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
	case errors.Is(err, serr.ErrForbidden):
		WriteError(w, http.StatusForbidden, serr.ErrForbidden)
	case errors.Is(err, serr.ErrNotFound):
		WriteError(w, http.StatusNotFound, serr.ErrNotFound)
	case errors.Is(err, serr.ErrAlreadyExists):
		WriteError(w, http.StatusConflict, serr.ErrAlreadyExists)
	case errors.Is(err, serr.ErrConflict):
		WriteError(w, http.StatusConflict, serr.ErrConflict)
	case errors.Is(err, serr.ErrFileTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, serr.ErrFileTooLarge)
	default:
		h.Log.Sugar().Errorw(op+" failed",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
	}
}

// validationMessage убирает префикс "validation failed: ".
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), serr.ErrValidation.Error()+": ")
}

// decodeJSON читает JSON-тело не больше MaxBodyBytes.
//
// Неизвестные поля — ошибка валидации (`"x" is not allowed`),
// синтаксические ошибки и лишние данные после объекта — ErrBadJSON.
// При optional пустое тело не считается ошибкой.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.Limits.MaxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF) && optional:
			return nil
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: body too large", serr.ErrBadJSON)
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return serr.Validation(field + " is not allowed")
		default:
			return serr.ErrBadJSON
		}
	}
	if dec.More() {
		return serr.ErrBadJSON
	}
	return nil
}

// Health проверяет доступность БД.
//
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Svc.Health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	if err := h.Svc.Health.Ping(r.Context()); err != nil {
		h.Log.Warn("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
