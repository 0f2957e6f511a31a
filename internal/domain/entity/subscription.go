// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Subscription represents one user following another user's channel.
type Subscription struct {
	ID           uuid.UUID `json:"id"`            // The Global Unique Identifier (GUID) for the subscription.
	SubscriberID uuid.UUID `json:"subscriber_id"` // The ID of the user who subscribed.
	ChannelID    uuid.UUID `json:"channel_id"`    // The ID of the user whose channel is subscribed to.
	SubscribedAt time.Time `json:"subscribed_at"` // Timestamp of when the subscription was created.
}
