package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const userColumns = `id, email, name, phone, city, active, role, created_at`

func scanUser(row rowScanner) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.Phone,
		&i.City,
		&i.Active,
		&i.Role,
		&i.CreatedAt,
	)
	return i, err
}

func collectUsers(rows pgx.Rows, err error) ([]User, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		i, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (id, email, name, phone, city, active, role)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + userColumns

type CreateUserParams struct {
	ID     string
	Email  string
	Name   string
	Phone  pgtype.Text
	City   pgtype.Text
	Active bool
	Role   string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.ID,
		arg.Email,
		arg.Name,
		arg.Phone,
		arg.City,
		arg.Active,
		arg.Role,
	)
	return scanUser(row)
}

const getUser = `-- name: GetUser :one
SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) GetUser(ctx context.Context, id string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUser, id))
}

const listUsersByIDs = `-- name: ListUsersByIDs :many
SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::text[]) ORDER BY id`

func (q *Queries) ListUsersByIDs(ctx context.Context, ids []string) ([]User, error) {
	return collectUsers(q.db.Query(ctx, listUsersByIDs, ids))
}

const listUsers = `-- name: ListUsers :many
SELECT ` + userColumns + ` FROM users ORDER BY id`

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	return collectUsers(q.db.Query(ctx, listUsers))
}

const listActiveUsers = `-- name: ListActiveUsers :many
SELECT ` + userColumns + ` FROM users WHERE active ORDER BY id`

func (q *Queries) ListActiveUsers(ctx context.Context) ([]User, error) {
	return collectUsers(q.db.Query(ctx, listActiveUsers))
}

const listActiveUsersByCities = `-- name: ListActiveUsersByCities :many
SELECT ` + userColumns + ` FROM users
WHERE active
  AND city IS NOT NULL
  AND lower(city) = ANY($1::text[])
ORDER BY id`

// ListActiveUsersByCities expects lower-cased city names.
func (q *Queries) ListActiveUsersByCities(ctx context.Context, lowerCities []string) ([]User, error) {
	return collectUsers(q.db.Query(ctx, listActiveUsersByCities, lowerCities))
}

const updateUser = `-- name: UpdateUser :execrows
UPDATE users SET email = $2, name = $3, phone = $4, city = $5, active = $6, role = $7
WHERE id = $1`

type UpdateUserParams = CreateUserParams

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateUser,
		arg.ID,
		arg.Email,
		arg.Name,
		arg.Phone,
		arg.City,
		arg.Active,
		arg.Role,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const setUserActive = `-- name: SetUserActive :execrows
UPDATE users SET active = $2 WHERE id = $1`

func (q *Queries) SetUserActive(ctx context.Context, id string, active bool) (int64, error) {
	result, err := q.db.Exec(ctx, setUserActive, id, active)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteUser = `-- name: DeleteUser :execrows
DELETE FROM users WHERE id = $1`

func (q *Queries) DeleteUser(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteUser, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
