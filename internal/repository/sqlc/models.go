package sqlc

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID        string
	Email     string
	Name      string
	Phone     pgtype.Text
	City      pgtype.Text
	Active    bool
	Role      string
	CreatedAt time.Time
}

type Preference struct {
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
	Offers           bool
	Newsletter       bool
	OrderUpdates     bool
	UpdatedAt        time.Time
}

type Campaign struct {
	ID              int64
	Name            string
	Category        string
	Content         string
	TargetCities    []string
	Channels        []string
	Status          string
	ScheduledAt     pgtype.Timestamptz
	SentAt          pgtype.Timestamptz
	RecipientsCount int32
	CreatedAt       time.Time
}

type Newsletter struct {
	ID          int64
	Title       string
	Description string
	OwnerID     string
	CreatedAt   time.Time
}

type NewsletterPost struct {
	ID              int64
	NewsletterID    int64
	Title           string
	Content         string
	Status          string
	ScheduledAt     pgtype.Timestamptz
	SentAt          pgtype.Timestamptz
	RecipientsCount int32
	CreatedAt       time.Time
}

type NewsletterSubscription struct {
	ID           int64
	UserID       string
	NewsletterID int64
	ReceiveEmail bool
	ReceiveSms   bool
	ReceivePush  bool
	CreatedAt    time.Time
}

type DeliveryLog struct {
	ID               int64
	UserID           string
	Channel          string
	Status           string
	SentAt           time.Time
	Message          pgtype.Text
	Content          pgtype.Text
	OriginKind       string
	CampaignID       pgtype.Int8
	NewsletterPostID pgtype.Int8
}

// Order.Amount is the NUMERIC column rendered as text.
type Order struct {
	ID          int64
	UserID      string
	ProductName string
	Amount      string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	ID          int64
	Name        string
	Description string
	ImageUrl    string
	Price       string
	CreatedAt   time.Time
}
