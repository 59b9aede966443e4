// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgconn"

	serr "github.com/IvanChernomyrdin/go-shop-api/internal/shared/errors"
)

// коды ошибок PostgreSQL
const (
	pgUniqueViolation        = "23505"
	pgNumericValueOutOfRange = "22003"
)

// mapError приводит ошибку драйвера к доменной.
//
//   - sql.ErrNoRows → notFound
//   - unique_violation → unique
//   - numeric_value_out_of_range → ErrValidation (цена шире NUMERIC(12,2))
//   - всё остальное → ErrInternal
func mapError(err, notFound, unique error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return unique
		case pgNumericValueOutOfRange:
			return serr.Validation(`"price" must be less than or equal to 9999999999.99`)
		}
	}
	return serr.ErrInternal
}
