package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-shop-api/internal/shared/errors"
)

const productColumns = `id, name, price, size, image, created_at, updated_at`

// ProductsRepository реализует доступ к каталогу товаров (PostgreSQL).
// Файлы изображений здесь не трогаются, хранится только путь.
type ProductsRepository struct {
	db *sql.DB
}

// NewProductsRepository создаёт новый экземпляр ProductsRepository.
func NewProductsRepository(db *sql.DB) *ProductsRepository {
	return &ProductsRepository{db: db}
}

// Create сохраняет товар. id, created_at и updated_at назначает БД,
// price возвращается в том виде, в каком его сохранил NUMERIC(12,2).
func (r *ProductsRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, price, size, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id, price, created_at, updated_at
	`,
		p.Name, p.Price, p.Size, p.Image,
	).Scan(&p.ID, &p.Price, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return models.Product{}, mapError(err, serr.ErrInternal, serr.ErrInternal)
	}
	return p, nil
}

// List возвращает все товары, новые первыми.
func (r *ProductsRepository) List(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	out := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, serr.ErrInternal
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.ErrInternal
	}
	return out, nil
}

// GetByID возвращает товар или ErrNotFound.
func (r *ProductsRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, id,
	))
	if err != nil {
		return models.Product{}, mapError(err, serr.ErrNotFound, serr.ErrInternal)
	}
	return p, nil
}

// Update перезаписывает все поля товара и обновляет updated_at.
func (r *ProductsRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		   SET name = $2, price = $3, size = $4, image = $5, updated_at = now()
		 WHERE id = $1
		RETURNING price, created_at, updated_at
	`,
		p.ID, p.Name, p.Price, p.Size, p.Image,
	).Scan(&p.Price, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return models.Product{}, mapError(err, serr.ErrNotFound, serr.ErrInternal)
	}
	return p, nil
}

// Delete удаляет товар и возвращает удалённую строку (нужен путь к картинке).
func (r *ProductsRepository) Delete(ctx context.Context, id uuid.UUID) (models.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`DELETE FROM products WHERE id=$1 RETURNING `+productColumns, id,
	))
	if err != nil {
		return models.Product{}, mapError(err, serr.ErrNotFound, serr.ErrInternal)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Size, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
