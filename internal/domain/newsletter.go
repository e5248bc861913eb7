package domain

import "time"

// Newsletter is a subscribable publication.
type Newsletter struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewsletterPost is one issue of a newsletter.
type NewsletterPost struct {
	ID              int64          `json:"id"`
	NewsletterID    int64          `json:"newsletter_id"`
	Title           string         `json:"title"`
	Content         string         `json:"content"`
	Status          DispatchStatus `json:"status"`
	ScheduledAt     *time.Time     `json:"scheduled_at,omitempty"`
	SentAt          *time.Time     `json:"sent_at,omitempty"`
	RecipientsCount int            `json:"recipients_count"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Subscription links a user to a newsletter.
//
// The Receive* flags are kept for older clients; delivery is decided by the
// subscriber's Preference, not by these.
type Subscription struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	NewsletterID int64     `json:"newsletter_id"`
	ReceiveEmail bool      `json:"receive_email"`
	ReceiveSms   bool      `json:"receive_sms"`
	ReceivePush  bool      `json:"receive_push"`
	CreatedAt    time.Time `json:"created_at"`
}

// PostLogTitle is the delivery-log title of a newsletter post.
func PostLogTitle(n Newsletter, p NewsletterPost) string {
	return n.Title + ": " + p.Title
}
