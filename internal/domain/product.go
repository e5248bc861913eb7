package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item customers can order. Orders copy its name and
// price at placement time, so later catalog edits never rewrite history.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
}
