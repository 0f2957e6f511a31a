package context

import (
	"vidhub/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// CurrentUserKey is the echo context key holding the authenticated user.
	CurrentUserKey = "currentUser"
	// CurrentUserIDKey is the echo context key holding the authenticated user's ID.
	CurrentUserIDKey = "currentUserID"
)

// SetCurrentUser binds the authenticated principal to the request context.
// Callers must pass a sanitized user; the principal is readable by every
// downstream handler.
func SetCurrentUser(c echo.Context, user *entity.User) {
	c.Set(CurrentUserKey, user)
	c.Set(CurrentUserIDKey, user.ID)
}

// GetCurrentUser returns the authenticated principal, or nil when the request
// is anonymous.
func GetCurrentUser(c echo.Context) *entity.User {
	if user, ok := c.Get(CurrentUserKey).(*entity.User); ok {
		return user
	}

	return nil
}

// GetCurrentUserID returns the authenticated principal's ID, or uuid.Nil when
// the request is anonymous.
func GetCurrentUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Get(CurrentUserIDKey).(uuid.UUID); ok {
		return id
	}

	return uuid.Nil
}
