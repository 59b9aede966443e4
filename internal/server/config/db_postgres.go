// Подключение к PostgreSQL и миграции.
//
// Пакет выполняет:
//   - открытие соединения с PostgreSQL (через драйвер pgx);
//   - настройку пула соединений из DBConfig;
//   - проверку доступности базы (Ping);
//   - запуск миграций (golang-migrate) при старте сервера.
package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"
)

// InitDB открывает подключение к базе данных по DSN, проверяет его доступность
// и, если включено, применяет миграции.
//
// Если миграции уже применены, ошибка migrate.ErrNoChange не считается ошибкой.
// При любой ошибке соединение закрывается.
func InitDB(ctx context.Context, dbCfg DBConfig, migCfg MigrationsConfig, log *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dbCfg.DSN)
	if err != nil {
		log.Error("error to connect db", zap.Error(err))
		return nil, err
	}
	ConfigurePool(db, dbCfg)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		log.Error("error check db connection", zap.Error(err))
		db.Close()
		return nil, err
	}

	if !migCfg.Enabled {
		log.Info("migrations disabled")
		return db, nil
	}

	if err := runMigrations(db, migCfg.Path); err != nil {
		log.Error("error applying migrations", zap.Error(err))
		db.Close()
		return nil, err
	}

	log.Info("migrations applied successfully")
	return db, nil
}

// ConfigurePool переносит лимиты пула из конфига в *sql.DB.
// Нулевые значения оставляют дефолты database/sql.
func ConfigurePool(db *sql.DB, cfg DBConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

func runMigrations(db *sql.DB, sourceURL string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	// создаём миграции с выбранным драйвером
	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("creating migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
