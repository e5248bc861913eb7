package domain

import "time"

// FeedEntry is one item in a user's notification feed. Multi-channel sends
// of the same message collapse into a single entry.
type FeedEntry struct {
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Category   Category  `json:"category"`
	Channels   []Channel `json:"channels"`
	ReceivedAt time.Time `json:"received_at"`
	Origin     Origin    `json:"origin"`
}
