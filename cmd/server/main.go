// @title           Shop API
// @version         1.0
// @description     Shop backend: user registration and login with JWT, product catalogue with image upload.

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа серверного приложения магазина.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера (-config, CONFIG_PATH или ./configs/server.yaml);
//   - инициализацию подключения к базе данных и миграций;
//   - создание репозиториев, хранилища файлов, публикатора событий, сервисов и HTTP-обработчиков;
//   - настройку и запуск сервера с заданными таймаутами;
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/api"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/config"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/events"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/middleware"
	h "github.com/IvanChernomyrdin/go-shop-api/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/repository"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/service"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/upload"
	"github.com/IvanChernomyrdin/go-shop-api/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-shop-api/docs"
)

func main() {
	// .env раньше флагов: CONFIG_PATH может лежать там
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "no .env file loaded: %v\n", err)
	}

	configPath := flag.String("config", envOr("CONFIG_PATH", "./configs/server.yaml"), "path to server config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	httpLogger := logger.New(logger.Options{
		Dir:    cfg.Log.Dir,
		File:   cfg.Log.File,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	defer httpLogger.Sync()
	sugar := httpLogger.Sugar()

	if err := run(cfg, httpLogger); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
	sugar.Info("server gracefully stopped")
}

func run(cfg *config.Config, httpLogger *logger.HTTPLogger) error {
	sugar := httpLogger.Sugar()

	// создаём контекст и errgroup
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// подключаем базу данных и накатываем миграции
	db, err := config.InitDB(ctx, cfg.DB, cfg.Migrations, httpLogger.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// создаём репы
	repos := service.Repositories{
		Users:    repository.NewUsersRepository(db),
		Sessions: repository.NewSessionsRepository(db),
		Products: repository.NewProductsRepository(db),
		Health:   repository.NewHealthRepository(db),
	}

	// файлы картинок
	store := upload.NewDiskStore(cfg.Uploads.BaseDir, cfg.Uploads.Dir, cfg.Uploads.MaxFileBytes)

	// события каталога
	var pub service.EventPublisher = events.NopPublisher{}
	if cfg.Events.Kafka.Enabled {
		kp := events.NewKafkaPublisher(cfg.Events.Kafka.Brokers, cfg.Events.Kafka.Topic)
		defer func() {
			if err := kp.Close(); err != nil {
				sugar.Warnf("kafka writer close: %v", err)
			}
		}()
		pub = kp
		sugar.Infow("kafka events enabled", "brokers", cfg.Events.Kafka.Brokers, "topic", cfg.Events.Kafka.Topic)
	}

	// создаём сервис
	svc, err := service.NewServices(repos, store, pub, cfg, httpLogger.Logger)
	if err != nil {
		return err
	}
	// создаём jwt
	verifier := middleware.NewJWTVerifier(
		cfg.Auth.JWT.SigningKey,
		cfg.Auth.Issuer,
		cfg.Auth.Audience,
	)
	// создаём хандлер
	handler := api.NewHandler(svc, httpLogger, verifier, api.Limits{
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		MaxUploadBytes: cfg.Uploads.MaxFileBytes,
	})
	// создаём роутер
	router := h.NewRouter(handler, h.Options{
		UploadsRoot:      store.Root(),
		UploadsDir:       store.Dir,
		CORSOrigins:      cfg.Server.CORSOrigins,
		AdminOnlyCatalog: cfg.Auth.AdminOnlyCatalog,
	})
	//создаём сервер
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		ErrorLog:          zap.NewStdLog(httpLogger.Logger),
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{MinVersion: tlsVersion(cfg.TLS.MinVersion)}
	}

	g, ctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		sugar.Infow("server started", "addr", addr, "tls", cfg.TLS.Enabled)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единная обработка ошибок
	return g.Wait()
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
