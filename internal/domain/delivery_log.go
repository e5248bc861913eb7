package domain

import "time"

// DeliveryStatusSent is the only delivery status currently recorded.
const DeliveryStatusSent = "SENT"

// DeliveryLog records one send on one channel. It is never modified.
type DeliveryLog struct {
	ID      int64     `json:"id"`
	UserID  string    `json:"user_id"`
	Channel Channel   `json:"channel"`
	Status  string    `json:"status"`
	SentAt  time.Time `json:"sent_at"`
	Message string    `json:"message"`
	Content string    `json:"content"`
	Origin  Origin    `json:"origin"`
}

// Blank reports whether the log has neither title nor body.
func (l DeliveryLog) Blank() bool {
	return l.Message == "" && l.Content == ""
}
