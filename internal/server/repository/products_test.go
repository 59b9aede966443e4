package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/repository"
	serr "github.com/IvanChernomyrdin/go-shop-api/internal/shared/errors"
)

var productCols = []string{"id", "name", "price", "size", "image", "created_at", "updated_at"}

func TestProductsRepository_Create_OK(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductsRepository(db)

	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO products`).
		WithArgs("Shirt", 19.999, "M", "uploads/1-2.png").
		WillReturnRows(sqlmock.NewRows([]string{"id", "price", "created_at", "updated_at"}).
			AddRow(id.String(), 20.0, now, now))

	p, err := repo.Create(context.Background(), models.Product{
		Name: "Shirt", Price: 19.999, Size: "M", Image: "uploads/1-2.png",
	})
	require.NoError(t, err)
	require.Equal(t, id, p.ID)
	require.Equal(t, 20.0, p.Price) // значение из БД, а не из запроса
	require.Equal(t, "uploads/1-2.png", p.Image)
	require.Equal(t, now, p.UpdatedAt)
}

func TestProductsRepository_Create_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductsRepository(db)

	mock.ExpectQuery(`INSERT INTO products`).WillReturnError(sql.ErrConnDone)

	_, err = repo.Create(context.Background(), models.Product{Name: "Shirt"})
	require.ErrorIs(t, err, serr.ErrInternal)
}

func TestProductsRepository_Create_PriceOverflow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductsRepository(db)

	mock.ExpectQuery(`INSERT INTO products`).
		WillReturnError(&pgconn.PgError{Code: "22003", Message: "numeric field overflow"})

	_, err = repo.Create(context.Background(), models.Product{Name: "Shirt", Price: 1e11})
	require.ErrorIs(t, err, serr.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductsRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductsRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, name, price, size, image, created_at, updated_at FROM products ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(uuid.NewString(), "Hat", 5.5, "L", "uploads/b.png", now, now).
			AddRow(uuid.NewString(), "Shirt", 19.99, "M", "uploads/a.png", now.Add(-time.Hour), now))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Hat", list[0].Name)
	require.Equal(t, 19.99, list[1].Price)
}

func TestProductsRepository_List_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductsRepository(db)

	mock.ExpectQuery(`SELECT .* FROM products`).
		WillReturnRows(sqlmock.NewRows(productCols))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestProductsRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductsRepository(db)

	mock.ExpectQuery(`SELECT .* FROM products WHERE id`).WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, serr.ErrNotFound)
}

func TestProductsRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductsRepository(db)

	id := uuid.New()
	created := time.Now().Add(-time.Hour).UTC()
	updated := time.Now().UTC()

	mock.ExpectQuery(`UPDATE products`).
		WithArgs(id.String(), "Shirt", 25.0, "XL", "uploads/c.png").
		WillReturnRows(sqlmock.NewRows([]string{"price", "created_at", "updated_at"}).AddRow(25.0, created, updated))

	p, err := repo.Update(context.Background(), models.Product{
		ID: id, Name: "Shirt", Price: 25, Size: "XL", Image: "uploads/c.png",
	})
	require.NoError(t, err)
	require.Equal(t, created, p.CreatedAt)
	require.Equal(t, updated, p.UpdatedAt)

	mock.ExpectQuery(`UPDATE products`).WillReturnError(sql.ErrNoRows)
	_, err = repo.Update(context.Background(), models.Product{ID: id})
	require.ErrorIs(t, err, serr.ErrNotFound)
}

func TestProductsRepository_Delete_ReturnsRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductsRepository(db)

	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`DELETE FROM products WHERE id`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(id.String(), "Shirt", 19.99, "M", "uploads/a.png", now, now))

	p, err := repo.Delete(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "uploads/a.png", p.Image)

	mock.ExpectQuery(`DELETE FROM products`).WillReturnError(sql.ErrNoRows)
	_, err = repo.Delete(context.Background(), id)
	require.ErrorIs(t, err, serr.ErrNotFound)
}

func TestHealthRepository_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewHealthRepository(db)

	mock.ExpectPing()
	require.NoError(t, repo.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(sql.ErrConnDone)
	require.ErrorIs(t, repo.Ping(context.Background()), serr.ErrInternal)
}
