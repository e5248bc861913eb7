package domain

import (
	"errors"
	"fmt"
)

// OriginKind discriminates what produced a delivery log.
type OriginKind string

const (
	OriginCampaign       OriginKind = "campaign"
	OriginOrder          OriginKind = "order"
	OriginNewsletterPost OriginKind = "newsletter_post"
)

// Origin identifies the source of a delivery log. Campaign and
// NewsletterPost origins carry the source id in RefID; Order origins carry
// none. Build values with the constructors below.
type Origin struct {
	Kind  OriginKind `json:"kind"`
	RefID int64      `json:"ref_id,omitempty"`
}

// CampaignOrigin returns the origin for a marketing campaign send.
func CampaignOrigin(id int64) Origin { return Origin{Kind: OriginCampaign, RefID: id} }

// OrderOrigin returns the origin for a transactional order message.
func OrderOrigin() Origin { return Origin{Kind: OriginOrder} }

// NewsletterPostOrigin returns the origin for a newsletter post send.
func NewsletterPostOrigin(id int64) Origin { return Origin{Kind: OriginNewsletterPost, RefID: id} }

// ErrInvalidOrigin is returned by Validate.
var ErrInvalidOrigin = errors.New("invalid origin")

// Validate enforces that exactly one origin shape holds.
func (o Origin) Validate() error {
	switch o.Kind {
	case OriginCampaign, OriginNewsletterPost:
		if o.RefID <= 0 {
			return fmt.Errorf("%w: %s requires a positive ref id", ErrInvalidOrigin, o.Kind)
		}
	case OriginOrder:
		if o.RefID != 0 {
			return fmt.Errorf("%w: order origin carries no ref id", ErrInvalidOrigin)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidOrigin, o.Kind)
	}
	return nil
}

func (o Origin) String() string {
	if o.Kind == OriginOrder {
		return string(o.Kind)
	}
	return fmt.Sprintf("%s:%d", o.Kind, o.RefID)
}
