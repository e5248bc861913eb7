package sqlc

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const newsletterColumns = `id, title, description, owner_id, created_at`

func scanNewsletter(row rowScanner) (Newsletter, error) {
	var i Newsletter
	err := row.Scan(&i.ID, &i.Title, &i.Description, &i.OwnerID, &i.CreatedAt)
	return i, err
}

const createNewsletter = `-- name: CreateNewsletter :one
INSERT INTO newsletters (title, description, owner_id)
VALUES ($1, $2, $3)
RETURNING ` + newsletterColumns

func (q *Queries) CreateNewsletter(ctx context.Context, title, description, ownerID string) (Newsletter, error) {
	return scanNewsletter(q.db.QueryRow(ctx, createNewsletter, title, description, ownerID))
}

const getNewsletter = `-- name: GetNewsletter :one
SELECT ` + newsletterColumns + ` FROM newsletters WHERE id = $1`

func (q *Queries) GetNewsletter(ctx context.Context, id int64) (Newsletter, error) {
	return scanNewsletter(q.db.QueryRow(ctx, getNewsletter, id))
}

const listNewsletters = `-- name: ListNewsletters :many
SELECT ` + newsletterColumns + ` FROM newsletters ORDER BY id`

func (q *Queries) ListNewsletters(ctx context.Context) ([]Newsletter, error) {
	rows, err := q.db.Query(ctx, listNewsletters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Newsletter
	for rows.Next() {
		i, err := scanNewsletter(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const postColumns = `id, newsletter_id, title, content, status, scheduled_at, sent_at, recipients_count, created_at`

func scanPost(row rowScanner) (NewsletterPost, error) {
	var i NewsletterPost
	err := row.Scan(
		&i.ID,
		&i.NewsletterID,
		&i.Title,
		&i.Content,
		&i.Status,
		&i.ScheduledAt,
		&i.SentAt,
		&i.RecipientsCount,
		&i.CreatedAt,
	)
	return i, err
}

func collectPosts(rows pgx.Rows, err error) ([]NewsletterPost, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []NewsletterPost
	for rows.Next() {
		i, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createPost = `-- name: CreatePost :one
INSERT INTO newsletter_posts (newsletter_id, title, content, status, scheduled_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + postColumns

type CreatePostParams struct {
	NewsletterID int64
	Title        string
	Content      string
	Status       string
	ScheduledAt  pgtype.Timestamptz
}

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (NewsletterPost, error) {
	row := q.db.QueryRow(ctx, createPost,
		arg.NewsletterID,
		arg.Title,
		arg.Content,
		arg.Status,
		arg.ScheduledAt,
	)
	return scanPost(row)
}

const getPost = `-- name: GetPost :one
SELECT ` + postColumns + ` FROM newsletter_posts WHERE id = $1`

func (q *Queries) GetPost(ctx context.Context, id int64) (NewsletterPost, error) {
	return scanPost(q.db.QueryRow(ctx, getPost, id))
}

const listPosts = `-- name: ListPosts :many
SELECT ` + postColumns + ` FROM newsletter_posts WHERE newsletter_id = $1 ORDER BY id DESC`

func (q *Queries) ListPosts(ctx context.Context, newsletterID int64) ([]NewsletterPost, error) {
	return collectPosts(q.db.Query(ctx, listPosts, newsletterID))
}

const listDuePosts = `-- name: ListDuePosts :many
SELECT ` + postColumns + ` FROM newsletter_posts
WHERE status = 'SCHEDULED' AND scheduled_at <= $1
ORDER BY id`

func (q *Queries) ListDuePosts(ctx context.Context, now time.Time) ([]NewsletterPost, error) {
	return collectPosts(q.db.Query(ctx, listDuePosts, now))
}

const schedulePost = `-- name: SchedulePost :execrows
UPDATE newsletter_posts SET status = 'SCHEDULED', scheduled_at = $2
WHERE id = $1 AND status IN ('DRAFT', 'SCHEDULED')`

func (q *Queries) SchedulePost(ctx context.Context, id int64, at time.Time) (int64, error) {
	result, err := q.db.Exec(ctx, schedulePost, id, at)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const claimPost = `-- name: ClaimPost :execrows
UPDATE newsletter_posts SET status = 'DISPATCHING'
WHERE id = $1 AND status = ANY($2::text[])`

func (q *Queries) ClaimPost(ctx context.Context, id int64, from []string) (int64, error) {
	result, err := q.db.Exec(ctx, claimPost, id, from)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const markPostSent = `-- name: MarkPostSent :execrows
UPDATE newsletter_posts SET status = 'SENT', recipients_count = $2, sent_at = $3
WHERE id = $1 AND status = 'DISPATCHING'`

func (q *Queries) MarkPostSent(ctx context.Context, id int64, recipients int32, at time.Time) (int64, error) {
	result, err := q.db.Exec(ctx, markPostSent, id, recipients, at)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const releasePostClaim = `-- name: ReleasePostClaim :execrows
UPDATE newsletter_posts SET status = 'DRAFT'
WHERE id = $1 AND status = 'DISPATCHING'`

func (q *Queries) ReleasePostClaim(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, releasePostClaim, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const postExists = `-- name: PostExists :one
SELECT EXISTS (SELECT 1 FROM newsletter_posts WHERE id = $1)`

func (q *Queries) PostExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, postExists, id).Scan(&exists)
	return exists, err
}
