package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const subscriptionColumns = `id, user_id, newsletter_id, receive_email, receive_sms, receive_push, created_at`

func scanSubscription(row rowScanner) (NewsletterSubscription, error) {
	var i NewsletterSubscription
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.NewsletterID,
		&i.ReceiveEmail,
		&i.ReceiveSms,
		&i.ReceivePush,
		&i.CreatedAt,
	)
	return i, err
}

func collectSubscriptions(rows pgx.Rows, err error) ([]NewsletterSubscription, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []NewsletterSubscription
	for rows.Next() {
		i, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createSubscription = `-- name: CreateSubscription :one
INSERT INTO newsletter_subscriptions (user_id, newsletter_id, receive_email, receive_sms, receive_push)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + subscriptionColumns

type CreateSubscriptionParams struct {
	UserID       string
	NewsletterID int64
	ReceiveEmail bool
	ReceiveSms   bool
	ReceivePush  bool
}

func (q *Queries) CreateSubscription(ctx context.Context, arg CreateSubscriptionParams) (NewsletterSubscription, error) {
	row := q.db.QueryRow(ctx, createSubscription,
		arg.UserID,
		arg.NewsletterID,
		arg.ReceiveEmail,
		arg.ReceiveSms,
		arg.ReceivePush,
	)
	return scanSubscription(row)
}

const getSubscription = `-- name: GetSubscription :one
SELECT ` + subscriptionColumns + ` FROM newsletter_subscriptions WHERE id = $1`

func (q *Queries) GetSubscription(ctx context.Context, id int64) (NewsletterSubscription, error) {
	return scanSubscription(q.db.QueryRow(ctx, getSubscription, id))
}

const listSubscriptionsByUser = `-- name: ListSubscriptionsByUser :many
SELECT ` + subscriptionColumns + ` FROM newsletter_subscriptions WHERE user_id = $1 ORDER BY id`

func (q *Queries) ListSubscriptionsByUser(ctx context.Context, userID string) ([]NewsletterSubscription, error) {
	return collectSubscriptions(q.db.Query(ctx, listSubscriptionsByUser, userID))
}

const listSubscriptionsByNewsletter = `-- name: ListSubscriptionsByNewsletter :many
SELECT ` + subscriptionColumns + ` FROM newsletter_subscriptions WHERE newsletter_id = $1 ORDER BY id`

func (q *Queries) ListSubscriptionsByNewsletter(ctx context.Context, newsletterID int64) ([]NewsletterSubscription, error) {
	return collectSubscriptions(q.db.Query(ctx, listSubscriptionsByNewsletter, newsletterID))
}

const updateSubscriptionFlags = `-- name: UpdateSubscriptionFlags :execrows
UPDATE newsletter_subscriptions SET receive_email = $2, receive_sms = $3, receive_push = $4
WHERE id = $1`

func (q *Queries) UpdateSubscriptionFlags(ctx context.Context, id int64, email, sms, push bool) (int64, error) {
	result, err := q.db.Exec(ctx, updateSubscriptionFlags, id, email, sms, push)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteSubscription = `-- name: DeleteSubscription :execrows
DELETE FROM newsletter_subscriptions WHERE id = $1`

func (q *Queries) DeleteSubscription(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteSubscription, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
