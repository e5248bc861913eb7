package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const deliveryLogColumns = `id, user_id, channel, status, sent_at, message, content,
    origin_kind, campaign_id, newsletter_post_id`

func scanDeliveryLog(row rowScanner) (DeliveryLog, error) {
	var i DeliveryLog
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Channel,
		&i.Status,
		&i.SentAt,
		&i.Message,
		&i.Content,
		&i.OriginKind,
		&i.CampaignID,
		&i.NewsletterPostID,
	)
	return i, err
}

func collectDeliveryLogs(rows pgx.Rows, err error) ([]DeliveryLog, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DeliveryLog
	for rows.Next() {
		i, err := scanDeliveryLog(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertDeliveryLog = `-- name: InsertDeliveryLog :one
INSERT INTO delivery_logs (user_id, channel, status, sent_at, message, content, origin_kind, campaign_id, newsletter_post_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + deliveryLogColumns

type InsertDeliveryLogParams struct {
	UserID           string
	Channel          string
	Status           string
	SentAt           pgtype.Timestamptz
	Message          pgtype.Text
	Content          pgtype.Text
	OriginKind       string
	CampaignID       pgtype.Int8
	NewsletterPostID pgtype.Int8
}

func (q *Queries) InsertDeliveryLog(ctx context.Context, arg InsertDeliveryLogParams) (DeliveryLog, error) {
	row := q.db.QueryRow(ctx, insertDeliveryLog,
		arg.UserID,
		arg.Channel,
		arg.Status,
		arg.SentAt,
		arg.Message,
		arg.Content,
		arg.OriginKind,
		arg.CampaignID,
		arg.NewsletterPostID,
	)
	return scanDeliveryLog(row)
}

const listDeliveryLogsByCampaign = `-- name: ListDeliveryLogsByCampaign :many
SELECT ` + deliveryLogColumns + ` FROM delivery_logs WHERE campaign_id = $1 ORDER BY id`

func (q *Queries) ListDeliveryLogsByCampaign(ctx context.Context, campaignID int64) ([]DeliveryLog, error) {
	return collectDeliveryLogs(q.db.Query(ctx, listDeliveryLogsByCampaign, campaignID))
}

const listDeliveryLogsByPost = `-- name: ListDeliveryLogsByPost :many
SELECT ` + deliveryLogColumns + ` FROM delivery_logs WHERE newsletter_post_id = $1 ORDER BY id`

func (q *Queries) ListDeliveryLogsByPost(ctx context.Context, postID int64) ([]DeliveryLog, error) {
	return collectDeliveryLogs(q.db.Query(ctx, listDeliveryLogsByPost, postID))
}

const listOrderDeliveryLogs = `-- name: ListOrderDeliveryLogs :many
SELECT ` + deliveryLogColumns + ` FROM delivery_logs WHERE origin_kind = 'order' ORDER BY id`

func (q *Queries) ListOrderDeliveryLogs(ctx context.Context) ([]DeliveryLog, error) {
	return collectDeliveryLogs(q.db.Query(ctx, listOrderDeliveryLogs))
}

const listDeliveryLogsByUser = `-- name: ListDeliveryLogsByUser :many
SELECT ` + deliveryLogColumns + ` FROM delivery_logs WHERE user_id = $1 ORDER BY id`

func (q *Queries) ListDeliveryLogsByUser(ctx context.Context, userID string) ([]DeliveryLog, error) {
	return collectDeliveryLogs(q.db.Query(ctx, listDeliveryLogsByUser, userID))
}
