// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"vidhub/internal/domain/entity"
	"vidhub/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for subscription persistence.
var (
	// ErrSubscriptionNotFound is returned when a subscription is not found.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrDuplicateSubscription is returned when trying to create a subscription that already exists.
	ErrDuplicateSubscription = errors.New("subscription already exists")
)

// SubscriptionRepository defines the interface for channel subscription persistence.
type SubscriptionRepository interface {
	// Create persists a new subscription relationship.
	Create(ctx context.Context, subscription *entity.Subscription) error

	// Delete removes the subscription of a subscriber to a channel.
	// Deleting an absent subscription returns ErrSubscriptionNotFound.
	Delete(ctx context.Context, subscriberID, channelID uuid.UUID) error

	// Exists reports whether the subscriber follows the channel.
	Exists(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)

	// CountSubscribers counts how many users subscribe to the channel.
	CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error)

	// CountSubscribedTo counts how many channels the user subscribes to.
	CountSubscribedTo(ctx context.Context, subscriberID uuid.UUID) (int64, error)

	// FindSubscriberIDs returns the IDs of every user subscribed to the channel.
	FindSubscriberIDs(ctx context.Context, channelID uuid.UUID) ([]uuid.UUID, error)
}
