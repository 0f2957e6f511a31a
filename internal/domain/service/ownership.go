package service

import (
	domainerrors "vidhub/internal/domain/errors"

	"github.com/google/uuid"
)

// OwnsResource reports whether the principal owns the resource.
// It fails closed: a zero-value owner or principal never matches.
func OwnsResource(ownerID, principalID uuid.UUID) bool {
	if ownerID == uuid.Nil || principalID == uuid.Nil {
		return false
	}
	return ownerID == principalID
}

// RequireOwnership returns ErrForbidden unless the principal owns the resource.
// Callers resolve the resource first, so an absent resource surfaces as a
// not-found error before ownership is ever evaluated.
func RequireOwnership(ownerID, principalID uuid.UUID) error {
	if !OwnsResource(ownerID, principalID) {
		return domainerrors.ErrForbidden
	}
	return nil
}
