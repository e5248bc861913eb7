package sqlc

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, user_id, product_name, amount::text, status, created_at, updated_at`

func scanOrder(row rowScanner) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ProductName,
		&i.Amount,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectOrders(rows pgx.Rows, err error) ([]Order, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		i, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders (user_id, product_name, amount, status)
VALUES ($1, $2, $3::numeric, $4)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	UserID      string
	ProductName string
	Amount      string
	Status      string
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder, arg.UserID, arg.ProductName, arg.Amount, arg.Status)
	return scanOrder(row)
}

const getOrder = `-- name: GetOrder :one
SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id int64) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const listOrders = `-- name: ListOrders :many
SELECT ` + orderColumns + ` FROM orders ORDER BY id DESC`

func (q *Queries) ListOrders(ctx context.Context) ([]Order, error) {
	return collectOrders(q.db.Query(ctx, listOrders))
}

const listOrdersByUser = `-- name: ListOrdersByUser :many
SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY id DESC`

func (q *Queries) ListOrdersByUser(ctx context.Context, userID string) ([]Order, error) {
	return collectOrders(q.db.Query(ctx, listOrdersByUser, userID))
}

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders SET status = $2, updated_at = $3
WHERE id = $1
RETURNING ` + orderColumns

func (q *Queries) UpdateOrderStatus(ctx context.Context, id int64, status string, at time.Time) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, id, status, at))
}
