package repository

import (
	"context"
	"database/sql"

	serr "github.com/IvanChernomyrdin/go-shop-api/internal/shared/errors"
)

// HealthRepository проверяет доступность БД для /health.
type HealthRepository struct {
	db *sql.DB
}

func NewHealthRepository(db *sql.DB) *HealthRepository {
	return &HealthRepository{db: db}
}

func (r *HealthRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return serr.ErrInternal
	}
	return nil
}
