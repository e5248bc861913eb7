package sqlc

import (
	"context"
)

const preferenceColumns = `user_id,
    email_offers, sms_offers, push_offers,
    email_newsletters, sms_newsletters, push_newsletters,
    email_orders, sms_orders, push_orders,
    offers, newsletter, order_updates,
    updated_at`

func scanPreference(row rowScanner) (Preference, error) {
	var i Preference
	err := row.Scan(
		&i.UserID,
		&i.EmailOffers,
		&i.SmsOffers,
		&i.PushOffers,
		&i.EmailNewsletters,
		&i.SmsNewsletters,
		&i.PushNewsletters,
		&i.EmailOrders,
		&i.SmsOrders,
		&i.PushOrders,
		&i.Offers,
		&i.Newsletter,
		&i.OrderUpdates,
		&i.UpdatedAt,
	)
	return i, err
}

const getPreference = `-- name: GetPreference :one
SELECT ` + preferenceColumns + ` FROM preferences WHERE user_id = $1`

func (q *Queries) GetPreference(ctx context.Context, userID string) (Preference, error) {
	return scanPreference(q.db.QueryRow(ctx, getPreference, userID))
}

const listPreferencesByUserIDs = `-- name: ListPreferencesByUserIDs :many
SELECT ` + preferenceColumns + ` FROM preferences WHERE user_id = ANY($1::text[])`

func (q *Queries) ListPreferencesByUserIDs(ctx context.Context, userIDs []string) ([]Preference, error) {
	rows, err := q.db.Query(ctx, listPreferencesByUserIDs, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Preference
	for rows.Next() {
		i, err := scanPreference(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertPreference = `-- name: UpsertPreference :one
INSERT INTO preferences (
    user_id,
    email_offers, sms_offers, push_offers,
    email_newsletters, sms_newsletters, push_newsletters,
    email_orders, sms_orders, push_orders,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
ON CONFLICT (user_id) DO UPDATE SET
    email_offers      = EXCLUDED.email_offers,
    sms_offers        = EXCLUDED.sms_offers,
    push_offers       = EXCLUDED.push_offers,
    email_newsletters = EXCLUDED.email_newsletters,
    sms_newsletters   = EXCLUDED.sms_newsletters,
    push_newsletters  = EXCLUDED.push_newsletters,
    email_orders      = EXCLUDED.email_orders,
    sms_orders        = EXCLUDED.sms_orders,
    push_orders       = EXCLUDED.push_orders,
    updated_at        = NOW()
RETURNING ` + preferenceColumns

type UpsertPreferenceParams struct {
	UserID           string
	EmailOffers      bool
	SmsOffers        bool
	PushOffers       bool
	EmailNewsletters bool
	SmsNewsletters   bool
	PushNewsletters  bool
	EmailOrders      bool
	SmsOrders        bool
	PushOrders       bool
}

func (q *Queries) UpsertPreference(ctx context.Context, arg UpsertPreferenceParams) (Preference, error) {
	row := q.db.QueryRow(ctx, upsertPreference,
		arg.UserID,
		arg.EmailOffers,
		arg.SmsOffers,
		arg.PushOffers,
		arg.EmailNewsletters,
		arg.SmsNewsletters,
		arg.PushNewsletters,
		arg.EmailOrders,
		arg.SmsOrders,
		arg.PushOrders,
	)
	return scanPreference(row)
}
