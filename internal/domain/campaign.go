package domain

import "time"

// DispatchStatus is the one-shot lifecycle shared by campaigns and
// newsletter posts.
//
//	DRAFT ──dispatch──▶ DISPATCHING ──▶ SENT
//	SCHEDULED ──due──▶ DISPATCHING ──▶ SENT
//
// DISPATCHING is held only while a dispatcher owns the item. SENT is terminal.
type DispatchStatus string

const (
	StatusDraft       DispatchStatus = "DRAFT"
	StatusScheduled   DispatchStatus = "SCHEDULED"
	StatusDispatching DispatchStatus = "DISPATCHING"
	StatusSent        DispatchStatus = "SENT"
)

// Dispatchable lists the statuses a dispatcher may claim from.
var Dispatchable = []DispatchStatus{StatusDraft, StatusScheduled}

// AllCities is the target-city sentinel meaning "no city filter".
const AllCities = "All Cities"

// Campaign is a staff-authored marketing message.
type Campaign struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	Category        Category       `json:"category"`
	Content         string         `json:"content"`
	TargetCities    []string       `json:"target_cities"`
	Channels        []Channel      `json:"channels"`
	Status          DispatchStatus `json:"status"`
	ScheduledAt     *time.Time     `json:"scheduled_at,omitempty"`
	SentAt          *time.Time     `json:"sent_at,omitempty"`
	RecipientsCount int            `json:"recipients_count"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Criteria returns the audience criteria the campaign targets.
func (c Campaign) Criteria() Criteria {
	return Criteria{
		Category: c.Category,
		Channels: c.Channels,
		Cities:   c.TargetCities,
	}
}

// Criteria selects an audience.
type Criteria struct {
	Category Category  `json:"category"`
	Channels []Channel `json:"channels"`
	Cities   []string  `json:"cities,omitempty"`
}

// CampaignUpdate is the editable subset of a campaign.
type CampaignUpdate struct {
	Name         string
	Category     Category
	Content      string
	TargetCities []string
}

// RecipientReport is one line of a campaign's delivery report.
type RecipientReport struct {
	UserID  string    `json:"user_id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Status  string    `json:"status"`
	SentAt  time.Time `json:"sent_at"`
	Channel Channel   `json:"channel"`
}
