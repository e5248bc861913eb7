package domain

import "time"

// Preference holds a user's opt-in flags, one per (category, channel).
//
// Category master switches are not stored; Offers, Newsletter and
// OrderUpdates derive them from the granular flags so they can never drift.
type Preference struct {
	UserID string `json:"user_id"`

	EmailOffers bool `json:"email_offers"`
	SmsOffers   bool `json:"sms_offers"`
	PushOffers  bool `json:"push_offers"`

	EmailNewsletters bool `json:"email_newsletters"`
	SmsNewsletters   bool `json:"sms_newsletters"`
	PushNewsletters  bool `json:"push_newsletters"`

	EmailOrders bool `json:"email_orders"`
	SmsOrders   bool `json:"sms_orders"`
	PushOrders  bool `json:"push_orders"`

	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultPreference is the all-opted-in record written at registration.
func DefaultPreference(userID string) Preference {
	return Preference{
		UserID:           userID,
		EmailOffers:      true,
		SmsOffers:        true,
		PushOffers:       true,
		EmailNewsletters: true,
		SmsNewsletters:   true,
		PushNewsletters:  true,
		EmailOrders:      true,
		SmsOrders:        true,
		PushOrders:       true,
	}
}

// Offers is the master switch for promotion offers.
func (p Preference) Offers() bool {
	return p.EmailOffers || p.SmsOffers || p.PushOffers
}

// Newsletter is the master switch for newsletters.
func (p Preference) Newsletter() bool {
	return p.EmailNewsletters || p.SmsNewsletters || p.PushNewsletters
}

// OrderUpdates is the master switch for order updates.
func (p Preference) OrderUpdates() bool {
	return p.EmailOrders || p.SmsOrders || p.PushOrders
}

// Master returns the derived master switch for a category.
func (p Preference) Master(c Category) bool {
	switch c {
	case CategoryOffers:
		return p.Offers()
	case CategoryNewsletters:
		return p.Newsletter()
	case CategoryOrderUpdates:
		return p.OrderUpdates()
	}
	return false
}

// Allows reports whether the granular flag for (c, ch) is set.
// Unknown categories and channels are never allowed.
func (p Preference) Allows(c Category, ch Channel) bool {
	switch c {
	case CategoryOffers:
		return pick(ch, p.EmailOffers, p.SmsOffers, p.PushOffers)
	case CategoryNewsletters:
		return pick(ch, p.EmailNewsletters, p.SmsNewsletters, p.PushNewsletters)
	case CategoryOrderUpdates:
		return pick(ch, p.EmailOrders, p.SmsOrders, p.PushOrders)
	}
	return false
}

// Permitted filters channels down to those Allows accepts, preserving order.
func (p Preference) Permitted(c Category, channels []Channel) []Channel {
	var out []Channel
	for _, ch := range UniqueChannels(channels) {
		if p.Allows(c, ch) {
			out = append(out, ch)
		}
	}
	return out
}

func pick(ch Channel, email, sms, push bool) bool {
	switch ch {
	case ChannelEmail:
		return email
	case ChannelSMS:
		return sms
	case ChannelPush:
		return push
	}
	return false
}

// PreferenceUpdate is the user-facing edit of granular flags. Nil fields are
// left unchanged. Master switches are derived and cannot be set.
type PreferenceUpdate struct {
	EmailOffers      *bool `json:"email_offers,omitempty"`
	SmsOffers        *bool `json:"sms_offers,omitempty"`
	PushOffers       *bool `json:"push_offers,omitempty"`
	EmailNewsletters *bool `json:"email_newsletters,omitempty"`
	SmsNewsletters   *bool `json:"sms_newsletters,omitempty"`
	PushNewsletters  *bool `json:"push_newsletters,omitempty"`
	EmailOrders      *bool `json:"email_orders,omitempty"`
	SmsOrders        *bool `json:"sms_orders,omitempty"`
	PushOrders       *bool `json:"push_orders,omitempty"`
}

// Apply returns p with the non-nil fields of u applied.
func (u PreferenceUpdate) Apply(p Preference) Preference {
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.EmailOffers, u.EmailOffers)
	set(&p.SmsOffers, u.SmsOffers)
	set(&p.PushOffers, u.PushOffers)
	set(&p.EmailNewsletters, u.EmailNewsletters)
	set(&p.SmsNewsletters, u.SmsNewsletters)
	set(&p.PushNewsletters, u.PushNewsletters)
	set(&p.EmailOrders, u.EmailOrders)
	set(&p.SmsOrders, u.SmsOrders)
	set(&p.PushOrders, u.PushOrders)
	return p
}
