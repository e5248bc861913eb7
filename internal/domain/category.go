package domain

import "strings"

// Category selects which granular preference flags gate a delivery.
type Category string

const (
	CategoryOffers       Category = "Promotion Offers"
	CategoryNewsletters  Category = "Newsletters"
	CategoryOrderUpdates Category = "Order Updates"

	// CategoryUnknown is the result of parsing an unrecognized label.
	// It permits no channel for any user.
	CategoryUnknown Category = ""
)

var categoryByKey = map[string]Category{
	"promotion offers": CategoryOffers,
	"newsletters":      CategoryNewsletters,
	"order updates":    CategoryOrderUpdates,
}

// ParseCategory maps a display label to a Category, ignoring case and
// surrounding space. ok is false for anything else.
func ParseCategory(s string) (c Category, ok bool) {
	c, ok = categoryByKey[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return CategoryUnknown, false
	}
	return c, true
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryOffers, CategoryNewsletters, CategoryOrderUpdates:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }
