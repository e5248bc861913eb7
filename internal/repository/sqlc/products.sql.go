package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const productColumns = `id, name, description, image_url, price::text, created_at`

func scanProduct(row rowScanner) (Product, error) {
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.ImageUrl,
		&i.Price,
		&i.CreatedAt,
	)
	return i, err
}

func collectProducts(rows pgx.Rows, err error) ([]Product, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createProduct = `-- name: CreateProduct :one
INSERT INTO products (name, description, image_url, price)
VALUES ($1, $2, $3, $4::numeric)
RETURNING ` + productColumns

type CreateProductParams struct {
	Name        string
	Description string
	ImageUrl    string
	Price       string
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct, arg.Name, arg.Description, arg.ImageUrl, arg.Price)
	return scanProduct(row)
}

const getProduct = `-- name: GetProduct :one
SELECT ` + productColumns + ` FROM products WHERE id = $1`

func (q *Queries) GetProduct(ctx context.Context, id int64) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

const listProducts = `-- name: ListProducts :many
SELECT ` + productColumns + ` FROM products ORDER BY id`

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	return collectProducts(q.db.Query(ctx, listProducts))
}

const deleteProduct = `-- name: DeleteProduct :execrows
DELETE FROM products WHERE id = $1`

func (q *Queries) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
