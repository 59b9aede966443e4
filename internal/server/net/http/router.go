// Package http реализует маршрутизацию HTTP-слоя сервера магазина.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование выполнения HTTP-запросов;
//   - проверку JWT access-токенов и (опционально) роли admin на изменяющих каталог маршрутах;
//   - раздачу загруженных изображений и CORS.
package http

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/api"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/models"
)

// Options — то, что роутеру нужно помимо хендлеров.
type Options struct {
	UploadsRoot string   // каталог на диске с загруженными файлами
	UploadsDir  string   // URL-префикс, совпадает с префиксом пути image в товаре
	CORSOrigins []string // пусто — CORS выключен
	// AdminOnlyCatalog — изменение каталога только с токеном роли admin.
	AdminOnlyCatalog bool
}

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - публичные эндпоинты аутентификации и чтения каталога;
//   - middleware логирования для всех запросов;
//   - группу защищённых JWT эндпоинтов (/me, /logout);
//   - эндпоинты изменения каталога: публичные или, при AdminOnlyCatalog, только для admin.
func NewRouter(h *api.Handler, opts Options) http.Handler {
	r := chi.NewRouter()
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/health", h.Health)

	// загруженные картинки: GET /uploads/<имя>
	if opts.UploadsRoot != "" {
		prefix := "/" + strings.Trim(path.Clean("/"+opts.UploadsDir), "/") + "/"
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(opts.UploadsRoot)))
		r.Get(prefix+"*", noDirListing(fs).ServeHTTP)
	}

	// Публичные пути
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Get("/products", h.Index)
	r.Get("/products/{id}", h.Show)

	// изменение каталога
	r.Group(func(r chi.Router) {
		if opts.AdminOnlyCatalog {
			r.Use(h.Verifier.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
		}
		r.Post("/products", h.Store)
		r.Put("/products/{id}", h.Update)
		r.Delete("/products/{id}", h.Destroy)
	})

	// защищены пути
	r.Group(func(r chi.Router) {
		// проверка access токена
		r.Use(h.Verifier.AuthMiddleware())
		r.Get("/me", h.Me)
		r.Post("/logout", h.Logout)
	})

	if len(opts.CORSOrigins) == 0 {
		return r
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// noDirListing не даёт FileServer отдавать список файлов каталога.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
