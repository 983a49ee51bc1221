package entity

import (
	"encoding/json"
	"time"
)

// Tipos de evento de cambio de una publicación.
const (
	EventListingSubmitted     = "listing.submitted"
	EventListingApproved      = "listing.approved"
	EventListingRejected      = "listing.rejected"
	EventListingResubmitted   = "listing.resubmitted"
	EventAssetMarked          = "listing.asset_marked"
	EventActiveStatusChanged  = "listing.active_status_changed"
	EventListingPricingUpdate = "listing.pricing_updated"
)

// ListingEvent evento de cambio escrito en la misma transacción que la transición (outbox).
// Version es la versión de la publicación tras la transición.
type ListingEvent struct {
	ID        string
	ListingID string
	Type      string
	Version   int64
	Payload   json.RawMessage
	Actor     string
	CreatedAt time.Time
}
