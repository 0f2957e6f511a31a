// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"vidhub/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("username or email already exists")
	// ErrRefreshTokenMismatch is returned by RotateRefreshTokenHash when the stored
	// refresh reference no longer matches the presented one. This is the losing side
	// of a concurrent rotation, or a replayed/revoked token.
	ErrRefreshTokenMismatch = errors.New("stored refresh token reference does not match")
)

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID, credential columns included.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByIdentity retrieves a single user whose username or email matches
	// the given identity. Usernames are matched lowercase.
	FindByIdentity(ctx context.Context, identity string) (*entity.User, error)

	// FindByUsername retrieves a single user by their exact username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies the profile fields (fullname, email, avatar, cover) of an existing user.
	Update(ctx context.Context, user *entity.User) error

	// UpdatePasswordHash replaces the stored password digest.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error

	// UpdateRefreshTokenHash unconditionally replaces the stored refresh reference.
	// An empty hash clears it. Used by login (overwrite) and logout (clear).
	UpdateRefreshTokenHash(ctx context.Context, id uuid.UUID, refreshTokenHash string) error

	// RotateRefreshTokenHash atomically replaces the stored refresh reference,
	// but only if it still equals currentHash. A non-matching reference returns
	// ErrRefreshTokenMismatch. This conditional update is the serialization
	// point that lets exactly one concurrent rotation win.
	RotateRefreshTokenHash(ctx context.Context, id uuid.UUID, currentHash, newHash string) error
}
