package sqlc

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const campaignColumns = `id, name, category, content, target_cities, channels, status,
    scheduled_at, sent_at, recipients_count, created_at`

func scanCampaign(row rowScanner) (Campaign, error) {
	var i Campaign
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Category,
		&i.Content,
		&i.TargetCities,
		&i.Channels,
		&i.Status,
		&i.ScheduledAt,
		&i.SentAt,
		&i.RecipientsCount,
		&i.CreatedAt,
	)
	return i, err
}

func collectCampaigns(rows pgx.Rows, err error) ([]Campaign, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Campaign
	for rows.Next() {
		i, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createCampaign = `-- name: CreateCampaign :one
INSERT INTO campaigns (name, category, content, target_cities, channels, status, scheduled_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + campaignColumns

type CreateCampaignParams struct {
	Name         string
	Category     string
	Content      string
	TargetCities []string
	Channels     []string
	Status       string
	ScheduledAt  pgtype.Timestamptz
}

func (q *Queries) CreateCampaign(ctx context.Context, arg CreateCampaignParams) (Campaign, error) {
	row := q.db.QueryRow(ctx, createCampaign,
		arg.Name,
		arg.Category,
		arg.Content,
		arg.TargetCities,
		arg.Channels,
		arg.Status,
		arg.ScheduledAt,
	)
	return scanCampaign(row)
}

const getCampaign = `-- name: GetCampaign :one
SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`

func (q *Queries) GetCampaign(ctx context.Context, id int64) (Campaign, error) {
	return scanCampaign(q.db.QueryRow(ctx, getCampaign, id))
}

const listCampaignsByIDs = `-- name: ListCampaignsByIDs :many
SELECT ` + campaignColumns + ` FROM campaigns WHERE id = ANY($1::bigint[])`

func (q *Queries) ListCampaignsByIDs(ctx context.Context, ids []int64) ([]Campaign, error) {
	return collectCampaigns(q.db.Query(ctx, listCampaignsByIDs, ids))
}

const listCampaigns = `-- name: ListCampaigns :many
SELECT ` + campaignColumns + ` FROM campaigns ORDER BY id DESC`

func (q *Queries) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	return collectCampaigns(q.db.Query(ctx, listCampaigns))
}

const updateCampaign = `-- name: UpdateCampaign :one
UPDATE campaigns SET name = $2, category = $3, content = $4, target_cities = $5
WHERE id = $1
RETURNING ` + campaignColumns

type UpdateCampaignParams struct {
	ID           int64
	Name         string
	Category     string
	Content      string
	TargetCities []string
}

func (q *Queries) UpdateCampaign(ctx context.Context, arg UpdateCampaignParams) (Campaign, error) {
	row := q.db.QueryRow(ctx, updateCampaign,
		arg.ID,
		arg.Name,
		arg.Category,
		arg.Content,
		arg.TargetCities,
	)
	return scanCampaign(row)
}

const scheduleCampaign = `-- name: ScheduleCampaign :execrows
UPDATE campaigns
SET status = 'SCHEDULED',
    scheduled_at = $2,
    channels = CASE WHEN cardinality($3::text[]) > 0 THEN $3::text[] ELSE channels END
WHERE id = $1 AND status IN ('DRAFT', 'SCHEDULED')`

func (q *Queries) ScheduleCampaign(ctx context.Context, id int64, at time.Time, channels []string) (int64, error) {
	result, err := q.db.Exec(ctx, scheduleCampaign, id, at, channels)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteCampaign = `-- name: DeleteCampaign :execrows
DELETE FROM campaigns WHERE id = $1`

// DeleteCampaign also removes the campaign's delivery logs through
// delivery_logs.campaign_id ON DELETE CASCADE.
func (q *Queries) DeleteCampaign(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCampaign, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listDueCampaigns = `-- name: ListDueCampaigns :many
SELECT ` + campaignColumns + ` FROM campaigns
WHERE status = 'SCHEDULED' AND scheduled_at <= $1
ORDER BY scheduled_at, id`

func (q *Queries) ListDueCampaigns(ctx context.Context, now time.Time) ([]Campaign, error) {
	return collectCampaigns(q.db.Query(ctx, listDueCampaigns, now))
}

const claimCampaign = `-- name: ClaimCampaign :execrows
UPDATE campaigns SET status = 'DISPATCHING'
WHERE id = $1 AND status = ANY($2::text[])`

func (q *Queries) ClaimCampaign(ctx context.Context, id int64, from []string) (int64, error) {
	result, err := q.db.Exec(ctx, claimCampaign, id, from)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const markCampaignSent = `-- name: MarkCampaignSent :execrows
UPDATE campaigns SET status = 'SENT', recipients_count = $2, sent_at = $3
WHERE id = $1 AND status = 'DISPATCHING'`

func (q *Queries) MarkCampaignSent(ctx context.Context, id int64, recipients int32, at time.Time) (int64, error) {
	result, err := q.db.Exec(ctx, markCampaignSent, id, recipients, at)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const releaseCampaignClaim = `-- name: ReleaseCampaignClaim :execrows
UPDATE campaigns SET status = 'DRAFT'
WHERE id = $1 AND status = 'DISPATCHING'`

func (q *Queries) ReleaseCampaignClaim(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, releaseCampaignClaim, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const campaignExists = `-- name: CampaignExists :one
SELECT EXISTS (SELECT 1 FROM campaigns WHERE id = $1)`

func (q *Queries) CampaignExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, campaignExists, id).Scan(&exists)
	return exists, err
}
